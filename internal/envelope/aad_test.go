package envelope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/envelope"
)

func TestChunkAAD_VariesByChunkIndex(t *testing.T) {
	h, err := envelope.New(baseParams())
	require.NoError(t, err)

	a0, err := h.ChunkAAD(nil, 0)
	require.NoError(t, err)
	a1, err := h.ChunkAAD(nil, 1)
	require.NoError(t, err)

	assert.NotEqual(t, a0, a1)
}

func TestChunkAAD_VariesByUserAAD(t *testing.T) {
	h, err := envelope.New(baseParams())
	require.NoError(t, err)

	a, err := h.ChunkAAD([]byte("one"), 0)
	require.NoError(t, err)
	b, err := h.ChunkAAD([]byte("two"), 0)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestChunkAAD_VariesByHeaderCoreField(t *testing.T) {
	p1 := baseParams()
	p2 := baseParams()
	p2.AEADName = envelope.AEADNameChaCha20

	h1, err := envelope.New(p1)
	require.NoError(t, err)
	h2, err := envelope.New(p2)
	require.NoError(t, err)

	a1, err := h1.ChunkAAD(nil, 0)
	require.NoError(t, err)
	a2, err := h2.ChunkAAD(nil, 0)
	require.NoError(t, err)

	assert.NotEqual(t, a1, a2)
}

func TestComputeAndCheckAADTag_RoundTrip(t *testing.T) {
	p := baseParams()
	p.AADTag = envelope.ComputeAADTag([]byte("invoice-42"))
	h, err := envelope.New(p)
	require.NoError(t, err)

	assert.NoError(t, h.CheckAADTag([]byte("invoice-42")))
	assert.ErrorIs(t, h.CheckAADTag([]byte("invoice-43")), dgerrors.ErrInvalidCiphertext)
	assert.ErrorIs(t, h.CheckAADTag(nil), dgerrors.ErrInvalidCiphertext)
}

func TestCheckAADTag_NoTagRejectsUnexpectedAAD(t *testing.T) {
	h, err := envelope.New(baseParams())
	require.NoError(t, err)

	assert.NoError(t, h.CheckAADTag(nil))
	assert.ErrorIs(t, h.CheckAADTag([]byte("surprise")), dgerrors.ErrInvalidCiphertext)
}
