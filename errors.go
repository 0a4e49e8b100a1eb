// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package frost

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCiphersuite indicates a non-supported ciphersuite is being used.
	ErrInvalidCiphersuite = errors.New("ciphersuite not available")

	// ErrInvalidMinSigners indicates min_signers is lower than 2 or greater than max_signers.
	ErrInvalidMinSigners = errors.New("min_signers must be at least 2 and not larger than max_signers")

	// ErrInvalidMaxSigners indicates max_signers is lower than 2, or does not match the number of identifiers.
	ErrInvalidMaxSigners = errors.New("max_signers must be at least 2")

	// ErrInvalidCoefficients indicates a secret polynomial or its commitment has the wrong number of coefficients.
	ErrInvalidCoefficients = errors.New("invalid number of coefficients")

	// ErrMalformedIdentifier indicates an identifier is zero or not a valid scalar encoding.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrDuplicatedIdentifier indicates the same identifier was provided more than once.
	ErrDuplicatedIdentifier = errors.New("duplicated identifier")

	// ErrUnknownIdentifier indicates an identifier is not part of the expected set of participants.
	ErrUnknownIdentifier = errors.New("unknown identifier")

	// ErrIdentifierDerivationNotSupported indicates the ciphersuite cannot derive identifiers from byte strings.
	ErrIdentifierDerivationNotSupported = errors.New("identifier derivation not supported by the ciphersuite")

	// ErrMalformedSigningKey indicates a secret key is not a valid non-zero scalar.
	ErrMalformedSigningKey = errors.New("malformed signing key")

	// ErrMalformedVerifyingKey indicates a public key is not a valid group element.
	ErrMalformedVerifyingKey = errors.New("malformed verifying key")

	// ErrInvalidSecretShare indicates a secret share does not match its verifiable commitment.
	ErrInvalidSecretShare = errors.New("invalid secret share")

	// ErrInvalidKeyPackage indicates a key package is incomplete or inconsistent.
	ErrInvalidKeyPackage = errors.New("invalid key package")

	// ErrInvalidPublicKeyPackage indicates a public key package is incomplete or inconsistent.
	ErrInvalidPublicKeyPackage = errors.New("invalid public key package")

	// ErrDeserialization indicates an encoded value could not be decoded.
	ErrDeserialization = errors.New("deserialization error")

	// ErrSerialization indicates a value could not be encoded.
	ErrSerialization = errors.New("serialization error")

	// ErrInvalidProofOfKnowledge indicates a DKG proof of knowledge does not verify.
	ErrInvalidProofOfKnowledge = errors.New("invalid proof of knowledge")

	// ErrPackageConsumed indicates a secret package has already been used for its DKG step.
	ErrPackageConsumed = errors.New("secret package already consumed")

	// ErrDKGPart2IncorrectNumberOfPackages indicates part 2 did not receive exactly max_signers-1 round 1 packages.
	ErrDKGPart2IncorrectNumberOfPackages = errors.New("incorrect number of round 1 packages in DKG part 2")

	// ErrDKGPart2IncorrectNumberOfCommitments indicates a round 1 package commitment has the wrong length.
	ErrDKGPart2IncorrectNumberOfCommitments = errors.New("incorrect number of commitments in DKG part 2")

	// ErrDKGPart3IncorrectRound1Packages indicates a round 1 package received in part 3 is malformed, or that the
	// round 1 packages are inconsistent with the participant's own signing share.
	ErrDKGPart3IncorrectRound1Packages = errors.New("invalid round 1 packages in DKG part 3")

	// ErrDKGPart3IncorrectNumberOfPackages indicates part 3 did not receive exactly max_signers-1 round 2 packages.
	ErrDKGPart3IncorrectNumberOfPackages = errors.New("incorrect number of round 2 packages in DKG part 3")

	// ErrDKGPart3PackageSendersMismatch indicates round 1 and round 2 packages were not sent by the same participants.
	ErrDKGPart3PackageSendersMismatch = errors.New("round 1 and round 2 package senders mismatch in DKG part 3")

	// ErrNonceAlreadyUsed indicates signing nonces were already consumed by a previous signature share.
	ErrNonceAlreadyUsed = errors.New("signing nonces already used")

	// ErrNonceSerialization indicates signing nonces could not be encoded or decoded.
	ErrNonceSerialization = errors.New("signing nonces serialization error")

	// ErrSigningPackageDeserialization indicates a signing package could not be decoded.
	ErrSigningPackageDeserialization = errors.New("signing package deserialization error")

	// ErrInvalidSigningCommitment indicates a signing commitment is malformed.
	ErrInvalidSigningCommitment = errors.New("invalid signing commitment")

	// ErrIncorrectNumberOfCommitments indicates a signing package holds fewer commitments than min_signers.
	ErrIncorrectNumberOfCommitments = errors.New("incorrect number of commitments")

	// ErrMissingCommitment indicates the signer's commitment is not in the signing package.
	ErrMissingCommitment = errors.New("signer commitment missing from the signing package")

	// ErrIncorrectCommitment indicates the signer's commitment in the signing package differs from its nonces.
	ErrIncorrectCommitment = errors.New("signing package commitment does not match the signing nonces")

	// ErrSigningFailed wraps any failure in the production of a signature share.
	ErrSigningFailed = errors.New("signing failed")

	// ErrIncorrectNumberOfShares indicates too few, or too many, signature shares were provided.
	ErrIncorrectNumberOfShares = errors.New("incorrect number of signature shares")

	// ErrDuplicatedShares indicates more than one signature share was provided for the same identifier.
	ErrDuplicatedShares = errors.New("duplicated signature shares")

	// ErrInvalidSignatureShare indicates a signature share does not verify.
	ErrInvalidSignatureShare = errors.New("invalid signature share")

	// ErrAggregationFailed wraps any failure in the aggregation of signature shares.
	ErrAggregationFailed = errors.New("aggregation failed")

	// ErrRandomizationNotSupported indicates a randomizer was used with a ciphersuite that signs in standard mode.
	ErrRandomizationNotSupported = errors.New("randomization not supported by the ciphersuite")

	// ErrInvalidRandomizer indicates a randomizer is missing, malformed, or zero.
	ErrInvalidRandomizer = errors.New("invalid randomizer")

	// ErrMalformedSignature indicates a signature is not a valid encoding.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrInvalidSignature indicates a signature does not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrValidationFailed wraps any failure in signature verification.
	ErrValidationFailed = errors.New("signature validation failed")
)

// CulpritError reports a protocol failure attributable to a specific participant.
type CulpritError struct {
	Err     error
	Culprit Identifier
}

func (e *CulpritError) Error() string {
	return fmt.Sprintf("%v: culprit %s", e.Err, e.Culprit)
}

func (e *CulpritError) Unwrap() error {
	return e.Err
}

// Culprit returns the identifier of the participant blamed in err, if any.
func Culprit(err error) (Identifier, bool) {
	var ce *CulpritError
	if errors.As(err, &ce) {
		return ce.Culprit, true
	}

	return Identifier{}, false
}

func culprit(err error, id Identifier) error {
	return &CulpritError{Err: err, Culprit: id}
}
