// Package codec provides the two byte-level primitives every other
// package in this module builds on: URL-safe Base64 text encoding for
// JSON-embedded binary fields, and constant-time comparison for
// secret-bearing byte slices (AAD tags, passphrase-derived keys).
package codec

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// EncodeB64 encodes b as unpadded URL-safe Base64, the form used for
// every binary field embedded in envelope headers and sealed-key JSON.
func EncodeB64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeB64 decodes s as URL-safe Base64. Input is tolerated without
// padding: s is re-padded to a multiple of 4 with "=" before decoding,
// so both padded and unpadded URL-safe input decode. The standard
// alphabet's '+' and '/' are rejected.
func DecodeB64(s string) ([]byte, error) {
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, dgerrors.InvalidParameter("malformed base64: " + err.Error())
	}
	return b, nil
}

// ConstantTimeEqual reports whether a and b are equal using a
// constant-time comparison, avoiding timing oracles on AAD tags,
// passphrase-derived keys, and other secret-bearing comparisons.
// Unequal lengths are rejected in constant time relative to the
// shorter input; callers comparing fixed-size digests are unaffected.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
