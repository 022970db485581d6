package aead

// manager implements Factory for the two algorithms this package supports.
//
// It acts as a factory for creating authenticated encryption cipher
// instances based on the specified algorithm name. Callers resolve the
// algorithm once, at envelope header parse time, and hold onto the
// returned Cipher for the lifetime of an encrypt or decrypt operation.
type manager struct{}

// NewManager returns a Factory backed by the standard library AES-GCM
// implementation and x/crypto's ChaCha20-Poly1305 implementation.
func NewManager() Factory {
	return &manager{}
}

// New creates a Cipher for alg using key, which must be exactly KeySize
// bytes for every supported algorithm.
func (m *manager) New(alg Algorithm, key []byte) (Cipher, error) {
	switch alg {
	case AESGCM:
		return newAESGCM(key)
	case ChaCha20:
		return newChaCha20Poly1305(key)
	default:
		return nil, errUnsupported(alg)
	}
}
