package secret

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("zero non-empty slice", func(t *testing.T) {
		b := []byte{1, 2, 3, 4, 5}
		Zero(b)
		for _, v := range b {
			assert.Equal(t, byte(0), v)
		}
	})

	t.Run("zero empty slice", func(t *testing.T) {
		b := []byte{}
		Zero(b)
		assert.Equal(t, 0, len(b))
	})

	t.Run("zero nil slice", func(t *testing.T) {
		var b []byte
		assert.NotPanics(t, func() { Zero(b) })
	})

	t.Run("zero large slice", func(t *testing.T) {
		b := make([]byte, 1024)
		for i := range b {
			b[i] = byte(i % 256)
		}
		Zero(b)
		for _, v := range b {
			assert.Equal(t, byte(0), v)
		}
	})
}

func TestBytesRedaction(t *testing.T) {
	b := Bytes("super-secret-key-material")

	assert.Equal(t, "[REDACTED]", b.String())
	assert.Equal(t, "secret.Bytes[REDACTED]", b.GoString())
	assert.NotContains(t, b.String(), "super-secret")
	assert.NotContains(t, (fmt.Sprintf("%v", b)), "super-secret")
	assert.NotContains(t, (fmt.Sprintf("%+v", b)), "super-secret")
}

func TestBytesZero(t *testing.T) {
	b := Bytes{1, 2, 3, 4}
	b.Zero()
	for _, v := range b {
		assert.Equal(t, byte(0), v)
	}
}
