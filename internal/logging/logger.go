// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package logging provides the structured logger used by the command line tools. The frost library itself does not
// log: secret material must never reach a log sink, and callers only get errors.
package logging

import (
	"fmt"
	"strings"
)

// Level is a logging severity.
type Level int

const (
	// LevelDebug is for verbose diagnostics.
	LevelDebug Level = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn is for recoverable anomalies.
	LevelWarn
	// LevelError is for failed operations.
	LevelError
	// LevelFatal logs and exits.
	LevelFatal
)

// String returns the upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel returns the level named by s, case-insensitive. "warning" is accepted for LevelWarn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is a leveled structured logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// With returns a child logger that adds fields to every record.
	With(fields ...Field) Logger

	// WithError returns a child logger carrying the error.
	WithError(err error) Logger
}

// Field is a key-value pair attached to a log record.
type Field struct {
	Key   string
	Value any
}

// String returns a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int returns an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Uint16 returns a field for signer counts and small indices.
func Uint16(key string, value uint16) Field {
	return Field{Key: key, Value: int(value)}
}

// Bool returns a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error returns a field with key "error".
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

// Strings returns a string slice field.
func Strings(key string, value []string) Field {
	return Field{Key: key, Value: value}
}

// Any returns a field holding an arbitrary value.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Nop returns a logger discarding every record.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field) {}
func (nopLogger) Warn(string, ...Field) {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) Fatal(string, ...Field) {}
func (n nopLogger) With(...Field) Logger { return n }
func (n nopLogger) WithError(error) Logger { return n }
