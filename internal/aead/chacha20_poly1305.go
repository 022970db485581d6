package aead

import (
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// chacha20Poly1305 implements Cipher using ChaCha20-Poly1305.
type chacha20Poly1305 struct {
	aead cipher.AEAD
}

func newChaCha20Poly1305(key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return nil, errBadKeySize
	}

	a, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, dgerrors.InvalidParameter("chacha20-poly1305: " + err.Error())
	}

	return &chacha20Poly1305{aead: a}, nil
}

func (c *chacha20Poly1305) Seal(nonce, plaintext, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, dgerrors.InvalidParameter("chacha20-poly1305: nonce must be 12 bytes")
	}
	return c.aead.Seal(nil, nonce, plaintext, aad), nil
}

func (c *chacha20Poly1305) Open(nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, dgerrors.InvalidParameter("chacha20-poly1305: nonce must be 12 bytes")
	}
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, dgerrors.InvalidCiphertext("chacha20-poly1305 authentication failed")
	}
	return plaintext, nil
}

func (c *chacha20Poly1305) NonceSize() int {
	return c.aead.NonceSize()
}
