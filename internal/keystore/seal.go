package keystore

import (
	"crypto/rand"
	"encoding/json"
	"os"

	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/kdf"
	"github.com/allisson/dataguardian/internal/secret"
)

// sealPrivatePEM derives a Scrypt key from passphrase over a fresh salt,
// AEAD-encrypts pem under it with empty AAD, and returns the sealedBlob
// JSON bytes to persist.
func (s *Store) sealPrivatePEM(pem []byte, passphrase []byte) ([]byte, error) {
	salt := make([]byte, s.kdfParams.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, dgerrors.IoError("generate salt", err)
	}

	key, err := kdf.Derive(passphrase, salt, s.kdfParams)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(key)

	cipher, err := s.aeadFactory.New(aead.AESGCM, key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, cipher.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, dgerrors.IoError("generate nonce", err)
	}

	ct, err := cipher.Seal(nonce, pem, nil)
	if err != nil {
		return nil, err
	}

	blob := sealedBlob{
		V:     1,
		Alg:   sealedBlobAlg,
		Salt:  codec.EncodeB64(salt),
		Nonce: codec.EncodeB64(nonce),
		CT:    codec.EncodeB64(ct),
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return nil, dgerrors.IoError("marshal sealed blob", err)
	}
	return data, nil
}

// unsealPrivatePEM reverses sealPrivatePEM: a wrong passphrase or
// tampered ciphertext surfaces as InvalidPassphrase, never the
// underlying AEAD detail.
func (s *Store) unsealPrivatePEM(data []byte, passphrase []byte) ([]byte, error) {
	var blob sealedBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, dgerrors.InvalidHeader("malformed sealed blob: " + err.Error())
	}
	if blob.Alg != sealedBlobAlg {
		return nil, dgerrors.UnsupportedAlgorithm(blob.Alg)
	}

	salt, err := codec.DecodeB64(blob.Salt)
	if err != nil {
		return nil, dgerrors.InvalidHeader("malformed salt: " + err.Error())
	}
	nonce, err := codec.DecodeB64(blob.Nonce)
	if err != nil {
		return nil, dgerrors.InvalidHeader("malformed nonce: " + err.Error())
	}
	ct, err := codec.DecodeB64(blob.CT)
	if err != nil {
		return nil, dgerrors.InvalidHeader("malformed ciphertext: " + err.Error())
	}

	params := s.kdfParams
	params.SaltLen = len(salt)
	key, err := kdf.Derive(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(key)

	cipher, err := s.aeadFactory.New(aead.AESGCM, key)
	if err != nil {
		return nil, err
	}

	pem, err := cipher.Open(nonce, ct, nil)
	if err != nil {
		return nil, dgerrors.InvalidPassphrase("sealed blob authentication failed")
	}
	return pem, nil
}

// writePrivateBlob seals pem and writes it to kid's private blob path
// with the required 0600 mode.
func (s *Store) writePrivateBlob(kid string, pem []byte, passphrase []byte) error {
	sealed, err := s.sealPrivatePEM(pem, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.privPath(kid), sealed, sealedBlobMode); err != nil {
		return dgerrors.IoError("write private key blob", err)
	}
	return nil
}

// LoadPrivatePEM reads and unseals kid's private key PEM using
// passphrase. The blob's file mode is checked before it is read.
func (s *Store) LoadPrivatePEM(kid string, passphrase []byte) ([]byte, error) {
	path := s.privPath(kid)
	if err := checkBlobMode(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, dgerrors.KeyNotFound(kid)
	}
	if err != nil {
		return nil, dgerrors.IoError("read private key blob", err)
	}

	return s.unsealPrivatePEM(data, passphrase)
}
