package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/kdf"
	"github.com/allisson/dataguardian/internal/keystore"
)

func testStore(t *testing.T) *keystore.Store {
	t.Helper()
	s, err := keystore.New(t.TempDir(), kdf.Params{N: 1 << 4, R: 8, P: 1, KeyLen: 32, SaltLen: 16})
	require.NoError(t, err)
	return s
}

func TestExpiryGate_NeverExpires(t *testing.T) {
	store := testStore(t)
	rec, err := store.CreateEd25519("", []byte("pw"))
	require.NoError(t, err)

	gate := NewExpiryGate(store, time.Now)
	assert.NoError(t, gate.Check(rec.Kid))
}

func TestExpiryGate_Expired(t *testing.T) {
	store := testStore(t)
	rec, err := store.CreateEd25519("", []byte("pw"))
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour).Unix()
	require.NoError(t, store.SetExpiry(rec.Kid, &past))

	gate := NewExpiryGate(store, time.Now)
	err = gate.Check(rec.Kid)
	assert.ErrorIs(t, err, dgerrors.ErrPolicyDenied)
}

func TestExpiryGate_NotYetExpired(t *testing.T) {
	store := testStore(t)
	rec, err := store.CreateEd25519("", []byte("pw"))
	require.NoError(t, err)

	future := time.Now().Add(time.Hour).Unix()
	require.NoError(t, store.SetExpiry(rec.Kid, &future))

	gate := NewExpiryGate(store, time.Now)
	assert.NoError(t, gate.Check(rec.Kid))
}

func TestAllowAll(t *testing.T) {
	assert.NoError(t, AllowAll{}.Check("anything"))
}
