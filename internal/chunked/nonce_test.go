package chunked

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNonce_InjectiveOverIndices(t *testing.T) {
	base := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	seen := make(map[string]uint32)

	for i := uint32(0); i < 5000; i++ {
		n := DeriveNonce(base, i)
		key := string(n)
		if prior, ok := seen[key]; ok {
			t.Fatalf("collision: index %d and %d produced the same nonce", prior, i)
		}
		seen[key] = i
	}
}

func TestDeriveNonce_DoesNotMutateBase(t *testing.T) {
	base := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	original := append([]byte(nil), base...)

	_ = DeriveNonce(base, 42)
	assert.Equal(t, original, base)
}

func TestDeriveNonce_ZeroIndexIsBase(t *testing.T) {
	base := []byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	assert.Equal(t, base, DeriveNonce(base, 0))
}
