// Package kdf derives symmetric keys from passphrases using Scrypt, the
// primitive this module uses to seal private-key PEM blobs on disk.
package kdf

import (
	"golang.org/x/crypto/scrypt"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// Params controls Scrypt's cost and output shape.
type Params struct {
	N       int
	R       int
	P       int
	KeyLen  int
	SaltLen int
}

// DefaultParams returns the v1 compiled-in defaults: N=2^15, r=8, p=1,
// a 32-byte derived key, and a 16-byte salt.
func DefaultParams() Params {
	return Params{N: 1 << 15, R: 8, P: 1, KeyLen: 32, SaltLen: 16}
}

// Derive runs Scrypt over passphrase and salt with params, returning a
// KeyLen-byte key. Salt length is not validated against params.SaltLen —
// callers generating a fresh salt should use params.SaltLen, but
// unsealing an existing blob must use whatever salt length was actually
// persisted.
func Derive(passphrase []byte, salt []byte, params Params) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, dgerrors.InvalidParameter("passphrase must not be empty")
	}
	if params.N <= 1 || params.R <= 0 || params.P <= 0 || params.KeyLen <= 0 {
		return nil, dgerrors.InvalidParameter("invalid scrypt parameters")
	}

	key, err := scrypt.Key(passphrase, salt, params.N, params.R, params.P, params.KeyLen)
	if err != nil {
		return nil, dgerrors.InvalidParameter("scrypt: " + err.Error())
	}
	return key, nil
}
