package envelope

import (
	"encoding/json"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// headerAliases maps legacy top-level field names to their canonical
// replacement. Only applied when the canonical name is absent.
var headerAliases = map[string]string{
	"alg":               "aead",
	"content_nonce_b64": "nonce",
	"nonce_b64":         "nonce",
	"threshold_k":       "threshold",
	"chunk":             "chunked",
}

// recipientAliases maps legacy recipient-entry field names to their
// canonical replacement.
var recipientAliases = map[string]string{
	"ek_b64":       "ek",
	"epk_pem_b64":  "epk",
	"nonce_b64":    "nonce",
}

// ParseHeader parses a single canonical (or legacy-aliased) header JSON
// line into a validated Header. Legacy field names are normalized on
// read; Marshal never emits them.
func ParseHeader(data []byte) (*Header, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, dgerrors.InvalidHeader("malformed json: " + err.Error())
	}

	applyAliases(raw, headerAliases)

	recipientsRaw, ok := raw["recipients"].([]any)
	if !ok {
		return nil, dgerrors.InvalidHeader("missing or malformed recipients")
	}
	for _, entry := range recipientsRaw {
		rm, ok := entry.(map[string]any)
		if !ok {
			return nil, dgerrors.InvalidHeader("malformed recipient entry")
		}
		applyAliases(rm, recipientAliases)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, dgerrors.InvalidHeader("re-marshal after alias normalization: " + err.Error())
	}

	var wire struct {
		Version    string      `json:"version"`
		AEAD       string      `json:"aead"`
		Enc        string      `json:"enc"`
		Nonce      string      `json:"nonce"`
		CreatedAt  int64       `json:"created_at"`
		Chunked    bool        `json:"chunked"`
		Recipients []Recipient `json:"recipients"`
		ChunkSize  *int        `json:"chunk_size"`
		TotalSize  *int64      `json:"total_size"`
		Threshold  *int        `json:"threshold"`
		AADTag     string      `json:"aad_tag"`
		KDF        string      `json:"kdf"`
		Salt       string      `json:"salt"`
	}
	if err := json.Unmarshal(normalized, &wire); err != nil {
		return nil, dgerrors.InvalidHeader("decode: " + err.Error())
	}

	h := &Header{
		version:    wire.Version,
		aeadName:   wire.AEAD,
		encName:    wire.Enc,
		nonce:      wire.Nonce,
		createdAt:  wire.CreatedAt,
		chunked:    wire.Chunked,
		recipients: wire.Recipients,
		chunkSize:  wire.ChunkSize,
		totalSize:  wire.TotalSize,
		threshold:  wire.Threshold,
		aadTag:     wire.AADTag,
		kdf:        wire.KDF,
		salt:       wire.Salt,
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func applyAliases(m map[string]any, aliases map[string]string) {
	for legacy, canonical := range aliases {
		if _, hasCanonical := m[canonical]; hasCanonical {
			continue
		}
		if v, hasLegacy := m[legacy]; hasLegacy {
			m[canonical] = v
		}
	}
}
