// Package aead provides the authenticated-encryption primitives used to
// seal envelope content encryption keys and chunk payloads.
//
// # Algorithms
//
// Two algorithms are supported, selected by name at header-parse time:
// AES-256-GCM and ChaCha20-Poly1305. Both take a 32-byte key and a
// 12-byte nonce, and both produce ciphertext with the authentication tag
// appended, matching the cipher.AEAD contract from the standard library.
//
// # Thread Safety
//
// Cipher implementations are stateless beyond the wrapped cipher.AEAD
// and safe for concurrent use.
package aead

import "github.com/allisson/dataguardian/internal/dgerrors"

// Algorithm names an AEAD cipher inside this module. Envelope headers
// carry different strings ("AESGCM", "CHACHA20"); envelope.AEADAlgorithm
// maps those to these values.
type Algorithm string

// Supported algorithm names.
const (
	AESGCM   Algorithm = "aes-256-gcm"
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the required key length, in bytes, for every supported algorithm.
const KeySize = 32

// NonceSize is the required nonce length, in bytes, for every supported algorithm.
const NonceSize = 12

// Cipher is the uniform interface both AEAD implementations satisfy.
//
// Seal and Open follow the stdlib cipher.AEAD vocabulary rather than the
// Encrypt/Decrypt naming used elsewhere in this codebase's history, since
// callers reach for them expecting AEAD semantics (nonce supplied by the
// caller, ciphertext carries its own tag).
type Cipher interface {
	// Seal encrypts plaintext, authenticating aad alongside it, using the
	// supplied nonce. The nonce must be NonceSize bytes and must never be
	// reused with the same key. The returned slice is ciphertext||tag.
	Seal(nonce, plaintext, aad []byte) (ciphertext []byte, err error)

	// Open decrypts ciphertext (as produced by Seal) and verifies aad.
	// Returns dgerrors.InvalidCiphertext on authentication failure.
	Open(nonce, ciphertext, aad []byte) (plaintext []byte, err error)

	// NonceSize reports the nonce length this cipher requires.
	NonceSize() int
}

// Factory creates Cipher instances for a given algorithm and key.
//
// Implementations validate key length before constructing the cipher so
// that callers receive a consistent dgerrors taxonomy regardless of which
// algorithm is requested.
type Factory interface {
	New(alg Algorithm, key []byte) (Cipher, error)
}

var errBadKeySize = dgerrors.InvalidParameter("key must be exactly 32 bytes")

func errUnsupported(alg Algorithm) error {
	return dgerrors.UnsupportedAlgorithm(string(alg))
}
