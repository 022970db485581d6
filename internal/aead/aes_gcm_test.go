package aead

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAESGCM(t *testing.T) {
	t.Run("valid 256-bit key", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)

		c, err := newAESGCM(key)
		assert.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("invalid key size", func(t *testing.T) {
		key := make([]byte, 16)
		c, err := newAESGCM(key)
		assert.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestAESGCMCipher_SealOpen(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	c, err := newAESGCM(key)
	require.NoError(t, err)

	nonce := make([]byte, c.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		plaintext := []byte("Hello, World!")
		aad := []byte("aad")

		ciphertext, err := c.Seal(nonce, plaintext, aad)
		require.NoError(t, err)

		decrypted, err := c.Open(nonce, ciphertext, aad)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, decrypted))
	})

	t.Run("tampered ciphertext fails", func(t *testing.T) {
		plaintext := []byte("Hello, World!")
		aad := []byte("aad")

		ciphertext, err := c.Seal(nonce, plaintext, aad)
		require.NoError(t, err)
		ciphertext[0] ^= 1

		_, err = c.Open(nonce, ciphertext, aad)
		assert.Error(t, err)
	})

	t.Run("nonce size reported correctly", func(t *testing.T) {
		assert.Equal(t, NonceSize, c.NonceSize())
	})
}
