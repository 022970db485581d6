package keystore

import (
	"os"
	"time"

	"github.com/allisson/dataguardian/internal/asymmetric"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/kem"
)

const pubFileMode = 0o644

// writeRecord persists pubPEM and the sealed privPEM under kid, then
// upserts rec into the index. The public PEM, private blob, and index
// entry land together so the store stays consistent after the call
// returns.
func (s *Store) writeRecord(kid string, alg Algorithm, label string, pubPEM, privPEM []byte, passphrase []byte) (*KeyRecord, error) {
	if err := os.WriteFile(s.pubPath(kid), pubPEM, pubFileMode); err != nil {
		return nil, dgerrors.IoError("write public key", err)
	}
	if err := s.writePrivateBlob(kid, privPEM, passphrase); err != nil {
		return nil, err
	}

	rec := KeyRecord{
		Kid:       kid,
		Alg:       string(alg),
		Label:     label,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.upsert(rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateRSA generates a new 3072-bit RSA key pair, seals the private key
// under passphrase, and records it in the index.
func (s *Store) CreateRSA(label string, passphrase []byte) (*KeyRecord, error) {
	priv, err := asymmetric.GenerateRSA()
	if err != nil {
		return nil, err
	}
	pubPEM, err := asymmetric.MarshalRSAPublicPEM(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	privPEM, err := asymmetric.MarshalRSAPrivatePEM(priv)
	if err != nil {
		return nil, err
	}

	kid := deriveKid(AlgRSA, pubPEM)
	return s.writeRecord(kid, AlgRSA, label, pubPEM, privPEM, passphrase)
}

// CreateEd25519 generates a new Ed25519 key pair, seals the private key
// under passphrase, and records it in the index.
func (s *Store) CreateEd25519(label string, passphrase []byte) (*KeyRecord, error) {
	pub, priv, err := asymmetric.GenerateEd25519()
	if err != nil {
		return nil, err
	}
	pubPEM, err := asymmetric.MarshalEd25519PublicPEM(pub)
	if err != nil {
		return nil, err
	}
	privPEM, err := asymmetric.MarshalEd25519PrivatePEM(priv)
	if err != nil {
		return nil, err
	}

	kid := deriveKid(AlgEd25519, pubPEM)
	return s.writeRecord(kid, AlgEd25519, label, pubPEM, privPEM, passphrase)
}

// CreateX25519 generates a new X25519 key pair, seals the private key
// under passphrase, and records it in the index.
func (s *Store) CreateX25519(label string, passphrase []byte) (*KeyRecord, error) {
	priv, err := kem.GenerateX25519()
	if err != nil {
		return nil, err
	}
	pubPEM, err := kem.MarshalX25519PublicPEM(priv.PublicKey())
	if err != nil {
		return nil, err
	}
	privPEM, err := kem.MarshalX25519PrivatePEM(priv)
	if err != nil {
		return nil, err
	}

	kid := deriveKid(AlgX25519, pubPEM)
	return s.writeRecord(kid, AlgX25519, label, pubPEM, privPEM, passphrase)
}
