package threshold

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSecret(t *testing.T) [32]byte {
	t.Helper()
	var s [32]byte
	_, err := rand.Read(s[:])
	require.NoError(t, err)
	return s
}

func TestSplitCombine_KOfN(t *testing.T) {
	cases := []struct{ n, k int }{
		{2, 2}, {3, 2}, {5, 3}, {16, 9}, {16, 16},
	}

	for _, tc := range cases {
		secret := randomSecret(t)
		shares, err := Split(secret, tc.n, tc.k)
		require.NoError(t, err)
		require.Len(t, shares, tc.n)

		reconstructed, err := Combine(shares[:tc.k], tc.k)
		require.NoError(t, err)
		assert.Equal(t, secret, reconstructed)

		// Any k of n should work, not just the first k.
		reconstructed2, err := Combine(shares[tc.n-tc.k:], tc.k)
		require.NoError(t, err)
		assert.Equal(t, secret, reconstructed2)
	}
}

func TestCombine_InsufficientSharesFails(t *testing.T) {
	secret := randomSecret(t)
	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	_, err = Combine(shares[:2], 3)
	assert.Error(t, err)
}

func TestCombine_KMinusOneSharesRejected(t *testing.T) {
	// k-1 shares must not reconstruct the secret: Combine refuses them.
	// Two independent splits are also checked to yield distinct secrets
	// and full share sets.
	secretA := randomSecret(t)
	sharesA, err := Split(secretA, 5, 3)
	require.NoError(t, err)

	secretB := randomSecret(t)
	sharesB, err := Split(secretB, 5, 3)
	require.NoError(t, err)

	// Combining k-1=2 shares with k=3 should fail outright (insufficient).
	_, err = Combine(sharesA[:2], 3)
	assert.Error(t, err)

	assert.NotEqual(t, secretA, secretB)
	assert.Len(t, sharesA, 5)
	assert.Len(t, sharesB, 5)
}

func TestSplit_RejectsInvalidParameters(t *testing.T) {
	secret := randomSecret(t)

	_, err := Split(secret, 5, 1)
	assert.Error(t, err, "k must be greater than 1")

	_, err = Split(secret, 2, 3)
	assert.Error(t, err, "k must not exceed n")

	_, err = Split(secret, 256, 2)
	assert.Error(t, err, "n must not exceed 255")
}

func TestSplit_SharesHaveDistinctXCoordinates(t *testing.T) {
	secret := randomSecret(t)
	shares, err := Split(secret, 10, 4)
	require.NoError(t, err)

	seen := map[byte]bool{}
	for _, s := range shares {
		assert.False(t, seen[s.X], "duplicate share x-coordinate")
		seen[s.X] = true
	}
}

func TestCombine_ZeroSecretRoundTrips(t *testing.T) {
	var secret [32]byte
	shares, err := Split(secret, 4, 2)
	require.NoError(t, err)

	reconstructed, err := Combine(shares[:2], 2)
	require.NoError(t, err)
	assert.Equal(t, secret, reconstructed)
}
