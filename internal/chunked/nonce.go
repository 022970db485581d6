package chunked

import "encoding/binary"

// DeriveNonce returns the per-chunk nonce for index: base with its last
// four bytes XORed against the big-endian encoding of index. base is
// never mutated. This is the v1 scheme only (spec.md §9's Open
// Question): other lineages derive a fresh HKDF prefix per chunk, which
// this format does not accept.
func DeriveNonce(base []byte, index uint32) []byte {
	out := make([]byte, len(base))
	copy(out, base)

	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)

	offset := len(out) - 4
	for i := 0; i < 4; i++ {
		out[offset+i] ^= idx[i]
	}
	return out
}
