package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/kdf"
)

// sealedBlobMode is the required file mode for a private key blob.
// Callers reading a blob under a looser mode get PolicyDenied rather
// than a silent leak.
const sealedBlobMode = 0o600

const indexFileName = "keys.json"

// Store is the filesystem-backed key store rooted at Dir:
// Dir/keys.json, Dir/keys/<kid>_pub.pem, Dir/keys/<kid>_priv.enc.
//
// Store holds no lock. Each mutating method reads, updates and rewrites
// keys.json as a whole, so concurrent mutations, even on distinct kids,
// can overwrite each other's index updates.
type Store struct {
	dir        string
	kdfParams  kdf.Params
	aeadFactory aead.Factory
}

// New returns a Store rooted at dir, creating the directory layout if it
// doesn't already exist. Directory creation is idempotent.
func New(dir string, kdfParams kdf.Params) (*Store, error) {
	s := &Store{
		dir:         dir,
		kdfParams:   kdfParams,
		aeadFactory: aead.NewManager(),
	}
	if err := os.MkdirAll(s.keysDir(), 0o700); err != nil {
		return nil, dgerrors.IoError("create key store directory", err)
	}
	return s, nil
}

func (s *Store) keysDir() string          { return filepath.Join(s.dir, "keys") }
func (s *Store) indexPath() string        { return filepath.Join(s.dir, indexFileName) }
func (s *Store) pubPath(kid string) string  { return filepath.Join(s.keysDir(), kid+"_pub.pem") }
func (s *Store) privPath(kid string) string { return filepath.Join(s.keysDir(), kid+"_priv.enc") }

// loadIndex reads keys.json, returning an empty index if the file
// doesn't exist yet.
func (s *Store) loadIndex() (*KeyIndex, error) {
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return &KeyIndex{}, nil
	}
	if err != nil {
		return nil, dgerrors.IoError("read key index", err)
	}

	var idx KeyIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, dgerrors.InvalidHeader("malformed key index: " + err.Error())
	}
	return &idx, nil
}

// saveIndex writes idx to keys.json.
func (s *Store) saveIndex(idx *KeyIndex) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return dgerrors.IoError("marshal key index", err)
	}
	if err := os.WriteFile(s.indexPath(), data, 0o600); err != nil {
		return dgerrors.IoError("write key index", err)
	}
	return nil
}

// upsert inserts rec into the index, replacing any existing record with
// the same Kid, and persists the result.
func (s *Store) upsert(rec KeyRecord) error {
	idx, err := s.loadIndex()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range idx.Keys {
		if existing.Kid == rec.Kid {
			idx.Keys[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		idx.Keys = append(idx.Keys, rec)
	}
	return s.saveIndex(idx)
}

// remove deletes the record for kid from the index, if present, and
// persists the result.
func (s *Store) remove(kid string) error {
	idx, err := s.loadIndex()
	if err != nil {
		return err
	}
	out := idx.Keys[:0]
	for _, rec := range idx.Keys {
		if rec.Kid != kid {
			out = append(out, rec)
		}
	}
	idx.Keys = out
	return s.saveIndex(idx)
}

// Get returns the index record for kid.
func (s *Store) Get(kid string) (*KeyRecord, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	for _, rec := range idx.Keys {
		if rec.Kid == kid {
			r := rec
			return &r, nil
		}
	}
	return nil, dgerrors.KeyNotFound(kid)
}

// List returns every record in the index.
func (s *Store) List() ([]KeyRecord, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	return idx.Keys, nil
}

// LoadPublicPEM reads the public key PEM for kid.
func (s *Store) LoadPublicPEM(kid string) ([]byte, error) {
	data, err := os.ReadFile(s.pubPath(kid))
	if os.IsNotExist(err) {
		return nil, dgerrors.KeyNotFound(kid)
	}
	if err != nil {
		return nil, dgerrors.IoError("read public key", err)
	}
	return data, nil
}

// checkBlobMode rejects a sealed private-key file whose permissions are
// looser than sealedBlobMode, per spec: insecure modes MUST be rejected
// at read time rather than silently honored.
func checkBlobMode(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return dgerrors.KeyNotFound(filepath.Base(path))
	}
	if err != nil {
		return dgerrors.IoError("stat private key blob", err)
	}
	if info.Mode().Perm()&^sealedBlobMode != 0 {
		return dgerrors.PolicyDenied("private key blob has insecure file mode " + info.Mode().Perm().String())
	}
	return nil
}
