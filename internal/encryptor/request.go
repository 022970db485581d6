// Package encryptor implements the encrypt half of the envelope core:
// CEK generation, per-recipient wrapping (direct or threshold-split),
// header construction, and chunked AEAD streaming of the plaintext.
package encryptor

import (
	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/asymmetric"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/envelope"
)

// DefaultChunkSize is used whenever a Request leaves ChunkSize at zero.
const DefaultChunkSize = 1 << 20

// Request bundles every input to Encrypt.
type Request struct {
	InputPath  string
	OutputPath string

	// Recipients is the flat kid list; group:/role: resolution happens
	// upstream of this package.
	Recipients []string
	Scheme     string // envelope.EncRSAOAEP or envelope.EncX25519KEM
	AEAD       aead.Algorithm
	OAEPHash   asymmetric.OAEPHash // only consulted when Scheme is RSA-OAEP

	// ThresholdK, when > 1, splits the CEK into len(Recipients) Shamir
	// shares and requires ThresholdK of them to reconstruct. Zero or one
	// means every recipient wraps the CEK directly.
	ThresholdK int

	UserAAD   []byte
	ChunkSize int
}

// validate checks Request invariants that don't require touching the
// key store, normalizing ChunkSize, AEAD and (for RSA-OAEP) OAEPHash
// defaults. Scheme has no default: an empty Scheme is rejected.
func (r *Request) validate() error {
	if len(r.Recipients) == 0 {
		return dgerrors.InvalidParameter("at least one recipient is required")
	}
	if r.AEAD == "" {
		r.AEAD = aead.AESGCM
	}
	switch r.Scheme {
	case envelope.EncRSAOAEP, envelope.EncX25519KEM:
	case "":
		return dgerrors.InvalidParameter("enc scheme is required")
	default:
		return dgerrors.UnsupportedAlgorithm(r.Scheme)
	}
	if r.Scheme == envelope.EncRSAOAEP && r.OAEPHash == "" {
		r.OAEPHash = asymmetric.OAEPSHA256
	}
	if r.ChunkSize == 0 {
		r.ChunkSize = DefaultChunkSize
	}
	if r.ChunkSize < 0 {
		return dgerrors.InvalidParameter("chunk_size must be positive")
	}
	if r.ThresholdK < 0 {
		return dgerrors.InvalidParameter("threshold_k must not be negative")
	}
	if r.ThresholdK > 1 && r.ThresholdK > len(r.Recipients) {
		return dgerrors.InvalidParameter("threshold_k must not exceed the number of recipients")
	}
	return nil
}
