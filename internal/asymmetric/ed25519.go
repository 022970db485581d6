package asymmetric

import (
	stded25519 "crypto/ed25519"
	stdrand "crypto/rand"
	"crypto/x509"
	"encoding/pem"

	"github.com/cloudflare/circl/sign/ed25519"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// GenerateEd25519 creates a new Ed25519 key pair via circl, whose byte
// layout is identical to the standard library's crypto/ed25519 — the
// public and private keys returned here convert directly for PEM
// marshaling through crypto/x509.
func GenerateEd25519() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(stdrand.Reader)
	if err != nil {
		return nil, nil, dgerrors.IoError("ed25519 keygen", err)
	}
	return pub, priv, nil
}

// MarshalEd25519PublicPEM encodes pub as a PEM-wrapped SubjectPublicKeyInfo block.
func MarshalEd25519PublicPEM(pub ed25519.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(stded25519.PublicKey(pub))
	if err != nil {
		return nil, dgerrors.InvalidParameter("marshal ed25519 public key: " + err.Error())
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// ParseEd25519PublicPEM decodes a PEM-wrapped SubjectPublicKeyInfo block into an Ed25519 public key.
func ParseEd25519PublicPEM(data []byte) (ed25519.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, dgerrors.InvalidHeader("no PEM block found")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, dgerrors.InvalidHeader("parse ed25519 public key: " + err.Error())
	}
	stdPub, ok := pub.(stded25519.PublicKey)
	if !ok {
		return nil, dgerrors.InvalidHeader("PEM block is not an Ed25519 public key")
	}
	return ed25519.PublicKey(stdPub), nil
}

// MarshalEd25519PrivatePEM encodes priv as a PEM-wrapped PKCS8 block.
// Callers are responsible for sealing this before it touches disk.
func MarshalEd25519PrivatePEM(priv ed25519.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(stded25519.PrivateKey(priv))
	if err != nil {
		return nil, dgerrors.InvalidParameter("marshal ed25519 private key: " + err.Error())
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// ParseEd25519PrivatePEM decodes a PEM-wrapped PKCS8 block into an Ed25519 private key.
func ParseEd25519PrivatePEM(data []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, dgerrors.InvalidHeader("no PEM block found")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, dgerrors.InvalidHeader("parse ed25519 private key: " + err.Error())
	}
	stdKey, ok := key.(stded25519.PrivateKey)
	if !ok {
		return nil, dgerrors.InvalidHeader("PEM block is not an Ed25519 private key")
	}
	return ed25519.PrivateKey(stdKey), nil
}

// Ed25519Sign produces a detached 64-byte signature over message.
func Ed25519Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Ed25519Verify checks a detached signature produced by Ed25519Sign.
func Ed25519Verify(pub ed25519.PublicKey, message, sig []byte) bool {
	return ed25519.Verify(pub, message, sig)
}
