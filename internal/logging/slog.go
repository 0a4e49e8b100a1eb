// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	// FormatText uses slog.TextHandler.
	FormatText Format = "text"
	// FormatJSON uses slog.JSONHandler.
	FormatJSON Format = "json"
)

// ParseFormat returns the format named by s. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", s)
	}
}

// Config configures a SlogAdapter.
type Config struct {
	// Output defaults to os.Stderr.
	Output io.Writer
	Level  Level
	Format Format
}

// SlogAdapter implements Logger on top of log/slog.
type SlogAdapter struct {
	logger *slog.Logger
	exit   func(int)
}

// New returns a logger writing records at or above the configured level.
func New(conf *Config) *SlogAdapter {
	if conf == nil {
		conf = &Config{}
	}

	out := conf.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: toSlogLevel(conf.Level)}

	var handler slog.Handler
	if conf.Format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &SlogAdapter{logger: slog.New(handler), exit: os.Exit}
}

// Debug logs at LevelDebug.
func (l *SlogAdapter) Debug(msg string, fields ...Field) {
	l.log(slog.LevelDebug, msg, fields)
}

// Info logs at LevelInfo.
func (l *SlogAdapter) Info(msg string, fields ...Field) {
	l.log(slog.LevelInfo, msg, fields)
}

// Warn logs at LevelWarn.
func (l *SlogAdapter) Warn(msg string, fields ...Field) {
	l.log(slog.LevelWarn, msg, fields)
}

// Error logs at LevelError.
func (l *SlogAdapter) Error(msg string, fields ...Field) {
	l.log(slog.LevelError, msg, fields)
}

// Fatal logs at LevelError and exits with status 1.
func (l *SlogAdapter) Fatal(msg string, fields ...Field) {
	l.log(slog.LevelError, msg, fields)
	l.exit(1)
}

// With returns a child logger.
func (l *SlogAdapter) With(fields ...Field) Logger {
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = toAttr(f)
	}

	return &SlogAdapter{logger: l.logger.With(args...), exit: l.exit}
}

// WithError returns a child logger carrying the error.
func (l *SlogAdapter) WithError(err error) Logger {
	return l.With(Error(err))
}

func (l *SlogAdapter) log(level slog.Level, msg string, fields []Field) {
	attrs := make([]slog.Attr, len(fields))
	for i, f := range fields {
		attrs[i] = toAttr(f)
	}

	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func toAttr(f Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int:
		return slog.Int(f.Key, v)
	case bool:
		return slog.Bool(f.Key, v)
	case error:
		if v == nil {
			return slog.String(f.Key, "<nil>")
		}

		return slog.String(f.Key, v.Error())
	default:
		return slog.Any(f.Key, v)
	}
}

func toSlogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError, LevelFatal:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
