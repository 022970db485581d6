package envelope

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"

	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
)

// coreWireMap builds the canonical header_core map that every chunk's
// AAD is bound to: {version, aead, enc, nonce, created_at, chunked,
// chunk_size, threshold, salt}, with unset optional fields omitted.
// Any alteration to any of these fields invalidates every chunk, since
// they all participate in the authenticated data.
func (h *Header) coreWireMap() map[string]any {
	m := map[string]any{
		"version":    h.version,
		"aead":       h.aeadName,
		"enc":        h.encName,
		"nonce":      h.nonce,
		"created_at": h.createdAt,
		"chunked":    h.chunked,
	}
	if h.chunkSize != nil {
		m["chunk_size"] = *h.chunkSize
	}
	if h.threshold != nil {
		m["threshold"] = *h.threshold
	}
	if h.salt != "" {
		m["salt"] = h.salt
	}
	return m
}

// CoreCanonicalJSON returns the canonical serialization of header_core,
// the fixed prefix of every chunk's authenticated data.
func (h *Header) CoreCanonicalJSON() ([]byte, error) {
	b, err := json.Marshal(h.coreWireMap())
	if err != nil {
		return nil, dgerrors.InvalidHeader("marshal header_core: " + err.Error())
	}
	return b, nil
}

// ChunkAAD computes the authenticated data for chunk chunkIndex:
// CANONICAL(header_core) || userAAD? || big_endian_u32(chunkIndex).
func (h *Header) ChunkAAD(userAAD []byte, chunkIndex uint32) ([]byte, error) {
	core, err := h.CoreCanonicalJSON()
	if err != nil {
		return nil, err
	}

	aad := make([]byte, 0, len(core)+len(userAAD)+4)
	aad = append(aad, core...)
	aad = append(aad, userAAD...)

	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], chunkIndex)
	aad = append(aad, idx[:]...)

	return aad, nil
}

// ComputeAADTag returns the Base64 SHA-256 digest of userAAD, the value
// stored in the header's aad_tag field for a cheap mismatch check before
// any chunk is decrypted.
func ComputeAADTag(userAAD []byte) string {
	sum := sha256.Sum256(userAAD)
	return codec.EncodeB64(sum[:])
}

// CheckAADTag validates userAAD against the header's recorded aad_tag,
// per spec: a present aad_tag requires matching user AAD; an absent
// aad_tag with user AAD supplied is itself a mismatch.
func (h *Header) CheckAADTag(userAAD []byte) error {
	if h.aadTag == "" {
		if len(userAAD) > 0 {
			return dgerrors.InvalidCiphertext("unexpected AAD")
		}
		return nil
	}

	if len(userAAD) == 0 {
		return dgerrors.InvalidCiphertext("AAD mismatch")
	}

	want, err := codec.DecodeB64(h.aadTag)
	if err != nil {
		return dgerrors.InvalidHeader("malformed aad_tag: " + err.Error())
	}
	got := sha256.Sum256(userAAD)
	if !codec.ConstantTimeEqual(want, got[:]) {
		return dgerrors.InvalidCiphertext("AAD mismatch")
	}
	return nil
}
