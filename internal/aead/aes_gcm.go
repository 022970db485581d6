package aead

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// aesGCM implements Cipher using AES-256-GCM.
type aesGCM struct {
	aead cipher.AEAD
}

func newAESGCM(key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return nil, errBadKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, dgerrors.InvalidParameter("aes-gcm: " + err.Error())
	}

	a, err := cipher.NewGCM(block)
	if err != nil {
		return nil, dgerrors.InvalidParameter("aes-gcm: " + err.Error())
	}

	return &aesGCM{aead: a}, nil
}

func (c *aesGCM) Seal(nonce, plaintext, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, dgerrors.InvalidParameter("aes-gcm: nonce must be 12 bytes")
	}
	return c.aead.Seal(nil, nonce, plaintext, aad), nil
}

func (c *aesGCM) Open(nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, dgerrors.InvalidParameter("aes-gcm: nonce must be 12 bytes")
	}
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, dgerrors.InvalidCiphertext("aes-gcm authentication failed")
	}
	return plaintext, nil
}

func (c *aesGCM) NonceSize() int {
	return c.aead.NonceSize()
}
