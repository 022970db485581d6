package aead

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChaCha20Poly1305(t *testing.T) {
	t.Run("valid 256-bit key", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)

		c, err := newChaCha20Poly1305(key)
		assert.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("invalid key size", func(t *testing.T) {
		key := make([]byte, 16)
		_, err := rand.Read(key)
		require.NoError(t, err)

		c, err := newChaCha20Poly1305(key)
		assert.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("invalid key size - too large", func(t *testing.T) {
		key := make([]byte, 64)
		_, err := rand.Read(key)
		require.NoError(t, err)

		c, err := newChaCha20Poly1305(key)
		assert.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestChaCha20Poly1305Cipher_SealOpen(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	c, err := newChaCha20Poly1305(key)
	require.NoError(t, err)

	nonce := make([]byte, c.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	t.Run("seal and open with AAD", func(t *testing.T) {
		plaintext := []byte("Hello, World!")
		aad := []byte("additional authenticated data")

		ciphertext, err := c.Seal(nonce, plaintext, aad)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := c.Open(nonce, ciphertext, aad)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, decrypted))
	})

	t.Run("open with wrong AAD fails", func(t *testing.T) {
		plaintext := []byte("Hello, World!")
		aad := []byte("correct aad")

		ciphertext, err := c.Seal(nonce, plaintext, aad)
		require.NoError(t, err)

		_, err = c.Open(nonce, ciphertext, []byte("wrong aad"))
		assert.Error(t, err)
	})

	t.Run("open with wrong nonce fails", func(t *testing.T) {
		plaintext := []byte("Hello, World!")
		aad := []byte("aad")

		ciphertext, err := c.Seal(nonce, plaintext, aad)
		require.NoError(t, err)

		wrongNonce := make([]byte, c.NonceSize())
		_, err = rand.Read(wrongNonce)
		require.NoError(t, err)

		_, err = c.Open(wrongNonce, ciphertext, aad)
		assert.Error(t, err)
	})

	t.Run("open tampered ciphertext fails", func(t *testing.T) {
		plaintext := []byte("Hello, World!")
		aad := []byte("aad")

		ciphertext, err := c.Seal(nonce, plaintext, aad)
		require.NoError(t, err)
		ciphertext[0] ^= 1

		_, err = c.Open(nonce, ciphertext, aad)
		assert.Error(t, err)
	})

	t.Run("empty plaintext round-trips", func(t *testing.T) {
		ciphertext, err := c.Seal(nonce, nil, []byte("aad"))
		require.NoError(t, err)

		decrypted, err := c.Open(nonce, ciphertext, []byte("aad"))
		require.NoError(t, err)
		assert.Empty(t, decrypted)
	})

	t.Run("rejects short nonce", func(t *testing.T) {
		_, err := c.Seal([]byte{1, 2, 3}, []byte("x"), nil)
		assert.Error(t, err)
	})
}
