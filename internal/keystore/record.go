// Package keystore implements the filesystem-backed key store: an index
// file enumerating managed key pairs, a PEM public key per record, and a
// passphrase-sealed private key blob per record.
package keystore

import (
	"crypto/sha256"
	"encoding/hex"
)

// Algorithm names a managed key pair's cryptographic family.
type Algorithm string

// Supported key pair algorithms.
const (
	AlgRSA     Algorithm = "RSA"
	AlgEd25519 Algorithm = "ED25519"
	AlgX25519  Algorithm = "X25519"
)

// kidPrefix returns the kid prefix for alg, or "" if alg is unknown.
func kidPrefix(alg Algorithm) string {
	switch alg {
	case AlgRSA:
		return "rsa"
	case AlgEd25519:
		return "ed"
	case AlgX25519:
		return "x25519"
	default:
		return ""
	}
}

// deriveKid computes <prefix>_<hex10> where hex10 is the first 10 hex
// digits of SHA-256 over the public key PEM bytes.
func deriveKid(alg Algorithm, pubPEM []byte) string {
	sum := sha256.Sum256(pubPEM)
	return kidPrefix(alg) + "_" + hex.EncodeToString(sum[:])[:10]
}

// KeyRecord is one entry in the key store index.
type KeyRecord struct {
	Kid       string `json:"kid"`
	Alg       string `json:"alg"`
	Label     string `json:"label"`
	CreatedAt int64  `json:"created_at"`
	Expiry    *int64 `json:"expiry,omitempty"`
}

// KeyIndex is the top-level shape of keys.json.
type KeyIndex struct {
	Keys []KeyRecord `json:"keys"`
}

// sealedBlob is the on-disk shape of a <kid>_priv.enc file: the private
// PEM, AEAD-encrypted under a Scrypt-derived key, with the parameters
// needed to reverse the derivation.
type sealedBlob struct {
	V     int    `json:"v"`
	Alg   string `json:"alg"`
	Salt  string `json:"salt"`
	Nonce string `json:"nonce"`
	CT    string `json:"ct"`
}

const sealedBlobAlg = "AES-256-GCM"
