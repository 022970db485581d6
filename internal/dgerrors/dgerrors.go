// Package dgerrors defines the error taxonomy returned across package
// boundaries: key lookup, passphrase, envelope parsing, ciphertext
// integrity, algorithm support, parameter validation, I/O, and policy
// denial. Each sentinel wraps the generic errors package the same way
// the rest of this codebase wraps domain errors, so callers can still
// errors.Is against the familiar base sentinels while branching on the
// more specific taxonomy here.
package dgerrors

import (
	"fmt"

	baseerrors "github.com/allisson/dataguardian/internal/errors"
)

// Sentinel errors for the eight taxonomy categories. Wrap one of these
// with the constructors below to attach operation-specific detail.
var (
	ErrKeyNotFound          = baseerrors.ErrNotFound
	ErrInvalidPassphrase    = baseerrors.ErrUnauthorized
	ErrInvalidHeader        = baseerrors.Wrap(baseerrors.ErrInvalidInput, "header")
	ErrInvalidCiphertext    = baseerrors.Wrap(baseerrors.ErrInvalidInput, "ciphertext")
	ErrUnsupportedAlgorithm = baseerrors.Wrap(baseerrors.ErrInvalidInput, "unsupported algorithm")
	ErrInvalidParameter     = baseerrors.Wrap(baseerrors.ErrInvalidInput, "parameter")
	ErrIO                   = baseerrors.New("io error")
	ErrPolicyDenied         = baseerrors.ErrForbidden
)

// KeyNotFound reports that a key id has no corresponding record in the store.
func KeyNotFound(kid string) error {
	return fmt.Errorf("key %q not found: %w", kid, ErrKeyNotFound)
}

// InvalidPassphrase reports a failed Scrypt-sealed unlock, either from a
// wrong passphrase or from tampered ciphertext on the sealed blob.
func InvalidPassphrase(detail string) error {
	return fmt.Errorf("invalid passphrase: %s: %w", detail, ErrInvalidPassphrase)
}

// InvalidHeader reports a malformed, unparseable, or unsupported envelope header.
func InvalidHeader(detail string) error {
	return fmt.Errorf("invalid header: %s: %w", detail, ErrInvalidHeader)
}

// InvalidCiphertext reports an AEAD authentication failure on a frame or wrap.
func InvalidCiphertext(detail string) error {
	return fmt.Errorf("invalid ciphertext: %s: %w", detail, ErrInvalidCiphertext)
}

// UnsupportedAlgorithm reports an algorithm name unknown to the running build.
func UnsupportedAlgorithm(name string) error {
	return fmt.Errorf("unsupported algorithm %q: %w", name, ErrUnsupportedAlgorithm)
}

// InvalidParameter reports a caller-supplied argument that fails validation.
func InvalidParameter(detail string) error {
	return fmt.Errorf("invalid parameter: %s: %w", detail, ErrInvalidParameter)
}

// IoError wraps a filesystem or stream error encountered while reading or
// writing envelope material.
func IoError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("io error during %s: %w: %w", op, err, ErrIO)
}

// PolicyDenied reports that a PolicyGate rejected an operation.
func PolicyDenied(detail string) error {
	return fmt.Errorf("policy denied: %s: %w", detail, ErrPolicyDenied)
}
