package keystore

import (
	"os"
	"time"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// SetExpiry updates kid's expiry. A nil epoch means the key never
// expires.
func (s *Store) SetExpiry(kid string, epoch *int64) error {
	idx, err := s.loadIndex()
	if err != nil {
		return err
	}
	for i, rec := range idx.Keys {
		if rec.Kid == kid {
			idx.Keys[i].Expiry = epoch
			return s.saveIndex(idx)
		}
	}
	return dgerrors.KeyNotFound(kid)
}

// CleanExpired removes every index entry whose expiry is in the past
// relative to now, returning the count removed. The underlying PEM and
// sealed blob files are left on disk; only Revoke deletes them.
func (s *Store) CleanExpired(now time.Time) (int, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return 0, err
	}

	nowEpoch := now.Unix()
	kept := idx.Keys[:0]
	removed := 0
	for _, rec := range idx.Keys {
		if rec.Expiry != nil && *rec.Expiry < nowEpoch {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	idx.Keys = kept

	if err := s.saveIndex(idx); err != nil {
		return 0, err
	}
	return removed, nil
}

// Revoke removes kid's index entry and deletes both its public PEM and
// sealed private blob from disk.
func (s *Store) Revoke(kid string) error {
	if _, err := s.Get(kid); err != nil {
		return err
	}

	if err := s.remove(kid); err != nil {
		return err
	}

	if err := os.Remove(s.pubPath(kid)); err != nil && !os.IsNotExist(err) {
		return dgerrors.IoError("remove public key", err)
	}
	if err := os.Remove(s.privPath(kid)); err != nil && !os.IsNotExist(err) {
		return dgerrors.IoError("remove private key blob", err)
	}
	return nil
}

// Rotate generates a new key pair of the same algorithm as kid, seals it
// under passphrase (the same passphrase unseals the old record, and
// reseals the new one), writes it under a new kid, and removes the old
// record and its files.
func (s *Store) Rotate(kid string, passphrase []byte) (*KeyRecord, error) {
	rec, err := s.Get(kid)
	if err != nil {
		return nil, err
	}

	// Unseal first so a wrong passphrase fails before anything new is
	// written; rotation never silently generates an orphaned key.
	if _, err := s.LoadPrivatePEM(kid, passphrase); err != nil {
		return nil, err
	}

	var newRec *KeyRecord
	switch Algorithm(rec.Alg) {
	case AlgRSA:
		newRec, err = s.CreateRSA(rec.Label, passphrase)
	case AlgEd25519:
		newRec, err = s.CreateEd25519(rec.Label, passphrase)
	case AlgX25519:
		newRec, err = s.CreateX25519(rec.Label, passphrase)
	default:
		return nil, dgerrors.UnsupportedAlgorithm(rec.Alg)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Revoke(kid); err != nil {
		return nil, err
	}
	return newRec, nil
}

// Export returns kid's unsealed private key PEM.
func (s *Store) Export(kid string, passphrase []byte) ([]byte, error) {
	return s.LoadPrivatePEM(kid, passphrase)
}

// Import derives a kid from pubPEM and seals privPEM under passphrase,
// recording a new entry of the given algorithm and label. It overwrites
// any existing record that happens to share the derived kid.
func (s *Store) Import(alg Algorithm, label string, pubPEM, privPEM []byte, passphrase []byte) (*KeyRecord, error) {
	if kidPrefix(alg) == "" {
		return nil, dgerrors.UnsupportedAlgorithm(string(alg))
	}
	kid := deriveKid(alg, pubPEM)
	return s.writeRecord(kid, alg, label, pubPEM, privPEM, passphrase)
}
