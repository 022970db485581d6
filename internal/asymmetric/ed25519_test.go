package asymmetric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519SignVerify(t *testing.T) {
	pub, priv, err := GenerateEd25519()
	require.NoError(t, err)

	message := []byte("the quick brown fox jumps over the lazy dog")
	sig := Ed25519Sign(priv, message)
	assert.Len(t, sig, 64)
	assert.True(t, Ed25519Verify(pub, message, sig))
}

func TestEd25519Verify_RejectsTamperedMessage(t *testing.T) {
	pub, priv, err := GenerateEd25519()
	require.NoError(t, err)

	sig := Ed25519Sign(priv, []byte("original"))
	assert.False(t, Ed25519Verify(pub, []byte("tampered"), sig))
}

func TestEd25519Verify_RejectsWrongKey(t *testing.T) {
	pub1, _, err := GenerateEd25519()
	require.NoError(t, err)
	_, priv2, err := GenerateEd25519()
	require.NoError(t, err)

	sig := Ed25519Sign(priv2, []byte("message"))
	assert.False(t, Ed25519Verify(pub1, []byte("message"), sig))
}

func TestEd25519PublicPEM_RoundTrip(t *testing.T) {
	pub, _, err := GenerateEd25519()
	require.NoError(t, err)

	pemBytes, err := MarshalEd25519PublicPEM(pub)
	require.NoError(t, err)

	parsed, err := ParseEd25519PublicPEM(pemBytes)
	require.NoError(t, err)
	assert.Equal(t, []byte(pub), []byte(parsed))
}

func TestEd25519PrivatePEM_RoundTrip(t *testing.T) {
	_, priv, err := GenerateEd25519()
	require.NoError(t, err)

	pemBytes, err := MarshalEd25519PrivatePEM(priv)
	require.NoError(t, err)

	parsed, err := ParseEd25519PrivatePEM(pemBytes)
	require.NoError(t, err)
	assert.Equal(t, []byte(priv), []byte(parsed))
}

func TestParseEd25519PublicPEM_RejectsGarbage(t *testing.T) {
	_, err := ParseEd25519PublicPEM([]byte("not a pem"))
	assert.Error(t, err)
}
