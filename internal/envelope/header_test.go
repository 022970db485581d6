package envelope_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/envelope"
)

func validNonce() string {
	return codec.EncodeB64(make([]byte, 12))
}

func baseParams() envelope.NewParams {
	return envelope.NewParams{
		AEADName:  envelope.AEADNameAESGCM,
		EncName:   envelope.EncRSAOAEP,
		Nonce:     validNonce(),
		CreatedAt: 1700000000,
		Chunked:   true,
		ChunkSize: intPtr(1 << 20),
		Recipients: []envelope.Recipient{
			{Kid: "rsa_0000000000", Scheme: envelope.EncRSAOAEP, EK: "ZWs"},
		},
	}
}

func intPtr(i int) *int { return &i }

func TestNew_ValidHeader(t *testing.T) {
	h, err := envelope.New(baseParams())
	require.NoError(t, err)
	assert.Equal(t, envelope.Version, h.Version())
	assert.Equal(t, envelope.AEADNameAESGCM, h.AEADName())
	assert.Len(t, h.Recipients(), 1)
}

func TestNew_RejectsUnknownAEAD(t *testing.T) {
	p := baseParams()
	p.AEADName = "ROT13"
	_, err := envelope.New(p)
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestNew_RejectsEmptyRecipients(t *testing.T) {
	p := baseParams()
	p.Recipients = nil
	_, err := envelope.New(p)
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestNew_RejectsBadNonceLength(t *testing.T) {
	p := baseParams()
	p.Nonce = codec.EncodeB64([]byte("short"))
	_, err := envelope.New(p)
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestNew_RejectsChunkedWithoutChunkSize(t *testing.T) {
	p := baseParams()
	p.ChunkSize = nil
	_, err := envelope.New(p)
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestNew_RejectsX25519RecipientMissingEPK(t *testing.T) {
	p := baseParams()
	p.EncName = envelope.EncX25519KEM
	p.Recipients = []envelope.Recipient{
		{Kid: "x25519_0000000000", Scheme: envelope.EncX25519KEM, EK: "ZWs"},
	}
	_, err := envelope.New(p)
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestNew_RejectsThresholdWithoutShareIndex(t *testing.T) {
	p := baseParams()
	p.Threshold = intPtr(2)
	p.Recipients = append(p.Recipients, envelope.Recipient{
		Kid: "rsa_1111111111", Scheme: envelope.EncRSAOAEP, EK: "ZWs",
	})
	_, err := envelope.New(p)
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestNew_AcceptsThresholdWithShareIndex(t *testing.T) {
	p := baseParams()
	p.Threshold = intPtr(2)
	p.Recipients[0].ShareIndex = intPtr(1)
	p.Recipients = append(p.Recipients, envelope.Recipient{
		Kid: "rsa_1111111111", Scheme: envelope.EncRSAOAEP, EK: "ZWs", ShareIndex: intPtr(2),
	})
	h, err := envelope.New(p)
	require.NoError(t, err)
	assert.Equal(t, 2, *h.Threshold())
}

func TestMarshal_CanonicalSortedKeysNoWhitespace(t *testing.T) {
	h, err := envelope.New(baseParams())
	require.NoError(t, err)

	b, err := h.Marshal()
	require.NoError(t, err)

	assert.NotContains(t, string(b), " ")
	assert.NotContains(t, string(b), "\n")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "AESGCM", raw["aead"])
	assert.Equal(t, "1", raw["version"])
}

func TestMarshal_OmitsUnsetOptionalFields(t *testing.T) {
	h, err := envelope.New(baseParams())
	require.NoError(t, err)

	b, err := h.Marshal()
	require.NoError(t, err)

	s := string(b)
	assert.False(t, strings.Contains(s, "\"total_size\""))
	assert.False(t, strings.Contains(s, "\"threshold\""))
	assert.False(t, strings.Contains(s, "\"aad_tag\""))
}

func TestParseHeader_RoundTrip(t *testing.T) {
	h, err := envelope.New(baseParams())
	require.NoError(t, err)

	b, err := h.Marshal()
	require.NoError(t, err)

	parsed, err := envelope.ParseHeader(b)
	require.NoError(t, err)
	assert.Equal(t, h.AEADName(), parsed.AEADName())
	assert.Equal(t, h.Nonce(), parsed.Nonce())
	assert.Equal(t, h.Recipients(), parsed.Recipients())
}

func TestParseHeader_AcceptsLegacyTopLevelAliases(t *testing.T) {
	legacy := map[string]any{
		"version":    "1",
		"alg":        "AESGCM",
		"enc":        "RSA-OAEP",
		"nonce_b64":  validNonce(),
		"created_at": 1700000000,
		"chunk":      true,
		"chunk_size": 1048576,
		"recipients": []map[string]any{
			{"kid": "rsa_0000000000", "scheme": "RSA-OAEP", "ek": "ZWs"},
		},
	}
	b, err := json.Marshal(legacy)
	require.NoError(t, err)

	h, err := envelope.ParseHeader(b)
	require.NoError(t, err)
	assert.Equal(t, envelope.AEADNameAESGCM, h.AEADName())
	assert.True(t, h.Chunked())
}

func TestParseHeader_AcceptsLegacyRecipientAliases(t *testing.T) {
	legacy := map[string]any{
		"version":    "1",
		"aead":       "AESGCM",
		"enc":        "X25519-KEM",
		"nonce":      validNonce(),
		"created_at": 1700000000,
		"chunked":    false,
		"recipients": []map[string]any{
			{
				"kid":         "x25519_0000000000",
				"scheme":      "X25519-KEM",
				"ek_b64":      "ZWs",
				"epk_pem_b64": "ZXBr",
				"nonce_b64":   validNonce(),
			},
		},
	}
	b, err := json.Marshal(legacy)
	require.NoError(t, err)

	h, err := envelope.ParseHeader(b)
	require.NoError(t, err)
	require.Len(t, h.Recipients(), 1)
	assert.Equal(t, "ZWs", h.Recipients()[0].EK)
	assert.Equal(t, "ZXBr", h.Recipients()[0].EPK)
}

func TestParseHeader_RejectsMalformedJSON(t *testing.T) {
	_, err := envelope.ParseHeader([]byte("{not json"))
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestParseHeader_RejectsMissingRecipients(t *testing.T) {
	legacy := map[string]any{
		"version":    "1",
		"aead":       "AESGCM",
		"enc":        "RSA-OAEP",
		"nonce":      validNonce(),
		"created_at": 1700000000,
		"chunked":    false,
	}
	b, err := json.Marshal(legacy)
	require.NoError(t, err)
	_, err = envelope.ParseHeader(b)
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestParseHeader_RejectsWrongVersion(t *testing.T) {
	legacy := map[string]any{
		"version":    "2",
		"aead":       "AESGCM",
		"enc":        "RSA-OAEP",
		"nonce":      validNonce(),
		"created_at": 1700000000,
		"chunked":    false,
		"recipients": []map[string]any{
			{"kid": "rsa_0000000000", "scheme": "RSA-OAEP", "ek": "ZWs"},
		},
	}
	b, err := json.Marshal(legacy)
	require.NoError(t, err)
	_, err = envelope.ParseHeader(b)
	assert.ErrorIs(t, err, dgerrors.ErrInvalidHeader)
}

func TestAEADAlgorithm(t *testing.T) {
	alg, err := envelope.AEADAlgorithm(envelope.AEADNameChaCha20)
	require.NoError(t, err)
	assert.EqualValues(t, "chacha20-poly1305", alg)

	_, err = envelope.AEADAlgorithm("unknown")
	assert.ErrorIs(t, err, dgerrors.ErrUnsupportedAlgorithm)
}
