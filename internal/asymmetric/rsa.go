// Package asymmetric implements the two non-KEM recipient primitives:
// RSA-OAEP key wrapping and Ed25519 detached signatures.
package asymmetric

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // legacy read-only OAEP hash, never selectable for new wraps
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/pem"
	"hash"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// RSAKeyBits is the modulus size generated for every new RSA key pair.
const RSAKeyBits = 3072

// OAEPHash names the hash function used inside RSA-OAEP's MGF1 padding.
type OAEPHash string

const (
	OAEPSHA1   OAEPHash = "SHA1" // legacy, read-only: unwrap accepts it, wrap refuses it
	OAEPSHA256 OAEPHash = "SHA256"
	OAEPSHA512 OAEPHash = "SHA512"
)

func oaepHashFunc(name OAEPHash) (hash.Hash, error) {
	switch name {
	case OAEPSHA1:
		return sha1.New(), nil
	case OAEPSHA256:
		return sha256.New(), nil
	case OAEPSHA512:
		return sha512.New(), nil
	default:
		return nil, dgerrors.UnsupportedAlgorithm(string(name))
	}
}

// GenerateRSA creates a new 3072-bit RSA key pair with the standard
// public exponent 65537.
func GenerateRSA() (*rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, RSAKeyBits)
	if err != nil {
		return nil, dgerrors.IoError("rsa keygen", err)
	}
	return priv, nil
}

// MarshalRSAPublicPEM encodes pub as a PEM-wrapped SubjectPublicKeyInfo block.
func MarshalRSAPublicPEM(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, dgerrors.InvalidParameter("marshal rsa public key: " + err.Error())
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// ParseRSAPublicPEM decodes a PEM-wrapped SubjectPublicKeyInfo block into an RSA public key.
func ParseRSAPublicPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, dgerrors.InvalidHeader("no PEM block found")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, dgerrors.InvalidHeader("parse rsa public key: " + err.Error())
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, dgerrors.InvalidHeader("PEM block is not an RSA public key")
	}
	return rsaPub, nil
}

// MarshalRSAPrivatePEM encodes priv as a PEM-wrapped PKCS8 block. Callers
// are responsible for sealing this before it touches disk.
func MarshalRSAPrivatePEM(priv *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, dgerrors.InvalidParameter("marshal rsa private key: " + err.Error())
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// ParseRSAPrivatePEM decodes a PEM-wrapped PKCS8 block into an RSA private key.
func ParseRSAPrivatePEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, dgerrors.InvalidHeader("no PEM block found")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, dgerrors.InvalidHeader("parse rsa private key: " + err.Error())
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, dgerrors.InvalidHeader("PEM block is not an RSA private key")
	}
	return rsaKey, nil
}

// RSAWrap wraps plaintext (typically a 32-byte CEK or share) for pub
// using OAEP with the given hash. SHA-1 is refused here: it unwraps for
// legacy envelopes but must never be selected for a new wrap.
func RSAWrap(pub *rsa.PublicKey, plaintext []byte, oaepHash OAEPHash) ([]byte, error) {
	if oaepHash == OAEPSHA1 {
		return nil, dgerrors.UnsupportedAlgorithm("SHA1 OAEP is read-only legacy, refused for new wraps")
	}
	h, err := oaepHashFunc(oaepHash)
	if err != nil {
		return nil, err
	}
	ct, err := rsa.EncryptOAEP(h, rand.Reader, pub, plaintext, nil)
	if err != nil {
		return nil, dgerrors.InvalidParameter("rsa-oaep wrap: " + err.Error())
	}
	return ct, nil
}

// RSAUnwrap reverses RSAWrap. SHA-1 is accepted here for legacy envelopes.
func RSAUnwrap(priv *rsa.PrivateKey, ciphertext []byte, oaepHash OAEPHash) ([]byte, error) {
	h, err := oaepHashFunc(oaepHash)
	if err != nil {
		return nil, err
	}
	pt, err := rsa.DecryptOAEP(h, rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, dgerrors.InvalidCiphertext("rsa-oaep unwrap failed")
	}
	return pt, nil
}
