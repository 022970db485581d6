// Package envelope implements the canonical on-disk envelope header: a
// typed struct with an explicit parse step that accepts legacy field
// names on read and a marshal step that emits only canonical names with
// sorted keys and no whitespace.
package envelope

import (
	"encoding/json"

	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/dgerrors"
)

// Canonical enum values for Header.AEAD and Header.Enc.
const (
	AEADNameAESGCM   = "AESGCM"
	AEADNameChaCha20 = "CHACHA20"

	EncRSAOAEP   = "RSA-OAEP"
	EncX25519KEM = "X25519-KEM"

	Version = "1"
)

// Recipient is one entry in the header carrying a wrapped CEK (or
// threshold share) for a given key id.
type Recipient struct {
	Kid    string `json:"kid"`
	Scheme string `json:"scheme"`
	EK     string `json:"ek"`

	// EPK and Nonce are populated only for scheme == X25519-KEM.
	EPK   string `json:"epk,omitempty"`
	Nonce string `json:"nonce,omitempty"`

	// ShareIndex is set whenever the envelope uses threshold sharing,
	// recording this recipient's Shamir x-coordinate explicitly rather
	// than leaving it implied by list position.
	ShareIndex *int `json:"share_index,omitempty"`
}

// Header is the immutable, typed envelope header. Construct it with New
// or ParseHeader; there is no in-place mutation after construction.
type Header struct {
	version    string
	aeadName   string
	encName    string
	nonce      string
	createdAt  int64
	chunked    bool
	recipients []Recipient

	chunkSize *int
	totalSize *int64
	threshold *int
	aadTag    string
	kdf       string
	salt      string
}

// Version, AEADName, EncName, Nonce, CreatedAt, Chunked, Recipients,
// ChunkSize, TotalSize, Threshold, AADTag, KDF, and Salt are read-only
// accessors; Header has no setters once constructed.
func (h *Header) Version() string           { return h.version }
func (h *Header) AEADName() string          { return h.aeadName }
func (h *Header) EncName() string           { return h.encName }
func (h *Header) Nonce() string             { return h.nonce }
func (h *Header) CreatedAt() int64          { return h.createdAt }
func (h *Header) Chunked() bool             { return h.chunked }
func (h *Header) Recipients() []Recipient   { return h.recipients }
func (h *Header) ChunkSize() *int           { return h.chunkSize }
func (h *Header) TotalSize() *int64         { return h.totalSize }
func (h *Header) Threshold() *int           { return h.threshold }
func (h *Header) AADTag() string            { return h.aadTag }
func (h *Header) KDF() string               { return h.kdf }
func (h *Header) Salt() string              { return h.salt }

// NewParams bundles Header construction inputs for New.
type NewParams struct {
	AEADName   string
	EncName    string
	Nonce      string
	CreatedAt  int64
	Chunked    bool
	Recipients []Recipient
	ChunkSize  *int
	TotalSize  *int64
	Threshold  *int
	AADTag     string
	KDF        string
	Salt       string
}

// New builds and validates a Header from scratch, always stamping
// version "1".
func New(p NewParams) (*Header, error) {
	h := &Header{
		version:    Version,
		aeadName:   p.AEADName,
		encName:    p.EncName,
		nonce:      p.Nonce,
		createdAt:  p.CreatedAt,
		chunked:    p.Chunked,
		recipients: p.Recipients,
		chunkSize:  p.ChunkSize,
		totalSize:  p.TotalSize,
		threshold:  p.Threshold,
		aadTag:     p.AADTag,
		kdf:        p.KDF,
		salt:       p.Salt,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// AEADAlgorithm resolves the header's AEAD enum name to the internal/aead
// algorithm identifier.
func AEADAlgorithm(name string) (aead.Algorithm, error) {
	switch name {
	case AEADNameAESGCM:
		return aead.AESGCM, nil
	case AEADNameChaCha20:
		return aead.ChaCha20, nil
	default:
		return "", dgerrors.UnsupportedAlgorithm(name)
	}
}

// wireMap builds the canonical map[string]any representation: required
// fields always present, optional fields present only when set. Marshaling
// a Go map via encoding/json sorts keys lexicographically and produces no
// extraneous whitespace, which is exactly the canonical form this format
// requires.
func (h *Header) wireMap() map[string]any {
	m := map[string]any{
		"version":    h.version,
		"aead":       h.aeadName,
		"enc":        h.encName,
		"nonce":      h.nonce,
		"created_at": h.createdAt,
		"chunked":    h.chunked,
		"recipients": recipientWireSlice(h.recipients),
	}
	if h.chunkSize != nil {
		m["chunk_size"] = *h.chunkSize
	}
	if h.totalSize != nil {
		m["total_size"] = *h.totalSize
	}
	if h.threshold != nil {
		m["threshold"] = *h.threshold
	}
	if h.aadTag != "" {
		m["aad_tag"] = h.aadTag
	}
	if h.kdf != "" {
		m["kdf"] = h.kdf
	}
	if h.salt != "" {
		m["salt"] = h.salt
	}
	return m
}

func recipientWireSlice(recipients []Recipient) []map[string]any {
	out := make([]map[string]any, len(recipients))
	for i, r := range recipients {
		rm := map[string]any{
			"kid":    r.Kid,
			"scheme": r.Scheme,
			"ek":     r.EK,
		}
		if r.EPK != "" {
			rm["epk"] = r.EPK
		}
		if r.Nonce != "" {
			rm["nonce"] = r.Nonce
		}
		if r.ShareIndex != nil {
			rm["share_index"] = *r.ShareIndex
		}
		out[i] = rm
	}
	return out
}

// Marshal serializes the header to its canonical on-disk form: sorted
// keys, no whitespace, UTF-8.
func (h *Header) Marshal() ([]byte, error) {
	b, err := json.Marshal(h.wireMap())
	if err != nil {
		return nil, dgerrors.InvalidHeader("marshal: " + err.Error())
	}
	return b, nil
}
