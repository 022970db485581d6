// Package kem implements the X25519 ephemeral-static key encapsulation
// mechanism used to wrap a content encryption key per recipient:
// ephemeral ECDH, HKDF-SHA256 derivation, and an AEAD wrap of the CEK
// under the derived key.
package kem

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/dgerrors"
)

// hkdfInfo is the fixed HKDF info string binding derived keys to this scheme.
const hkdfInfo = "DG-X25519-CEK"

// GenerateX25519 creates a new X25519 key pair.
func GenerateX25519() (*ecdh.PrivateKey, error) {
	priv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, dgerrors.IoError("x25519 keygen", err)
	}
	return priv, nil
}

// MarshalX25519PublicPEM encodes pub as a PEM-wrapped SubjectPublicKeyInfo
// block. crypto/x509 is the only stdlib path that round-trips an X25519
// public key through PEM as SubjectPublicKeyInfo.
func MarshalX25519PublicPEM(pub *ecdh.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, dgerrors.InvalidParameter("marshal x25519 public key: " + err.Error())
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// ParseX25519PublicPEM decodes a PEM-wrapped SubjectPublicKeyInfo block
// into an X25519 public key.
func ParseX25519PublicPEM(data []byte) (*ecdh.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, dgerrors.InvalidHeader("no PEM block found")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, dgerrors.InvalidHeader("parse x25519 public key: " + err.Error())
	}
	ecdhPub, ok := pub.(*ecdh.PublicKey)
	if !ok || ecdhPub.Curve() != ecdh.X25519() {
		return nil, dgerrors.InvalidHeader("PEM block is not an X25519 public key")
	}
	return ecdhPub, nil
}

// MarshalX25519PrivatePEM encodes priv as a PEM-wrapped PKCS8 block.
// Callers are responsible for sealing this before it touches disk.
func MarshalX25519PrivatePEM(priv *ecdh.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, dgerrors.InvalidParameter("marshal x25519 private key: " + err.Error())
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// ParseX25519PrivatePEM decodes a PEM-wrapped PKCS8 block into an X25519 private key.
func ParseX25519PrivatePEM(data []byte) (*ecdh.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, dgerrors.InvalidHeader("no PEM block found")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, dgerrors.InvalidHeader("parse x25519 private key: " + err.Error())
	}
	ecdhKey, ok := key.(*ecdh.PrivateKey)
	if !ok || ecdhKey.Curve() != ecdh.X25519() {
		return nil, dgerrors.InvalidHeader("PEM block is not an X25519 private key")
	}
	return ecdhKey, nil
}

func deriveKEK(shared []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, shared, nil, []byte(hkdfInfo))
	kek := make([]byte, aead.KeySize)
	if _, err := io.ReadFull(r, kek); err != nil {
		return nil, dgerrors.InvalidParameter("hkdf: " + err.Error())
	}
	return kek, nil
}

// WrapForRecipient wraps cek for recipientPub: it generates a fresh
// ephemeral X25519 key pair, computes the ECDH shared secret, derives a
// 32-byte KEK via HKDF-SHA256, and AEAD-wraps cek under that KEK with a
// fresh nonce, using alg (the same content AEAD the caller chose for the
// envelope, not a fixed wrap algorithm). The AAD for the wrap is the raw
// 32-byte ephemeral public key. Returns the ephemeral public key PEM, the
// wrap nonce, and the wrapped ciphertext.
func WrapForRecipient(recipientPub *ecdh.PublicKey, cek []byte, alg aead.Algorithm) (epkPEM, nonce, ciphertext []byte, err error) {
	ephemeral, err := GenerateX25519()
	if err != nil {
		return nil, nil, nil, err
	}

	shared, err := ephemeral.ECDH(recipientPub)
	if err != nil {
		return nil, nil, nil, dgerrors.InvalidParameter("x25519 ecdh: " + err.Error())
	}

	ephemeralPubBytes := ephemeral.PublicKey().Bytes()
	kek, err := deriveKEK(shared)
	if err != nil {
		return nil, nil, nil, err
	}

	cipher, err := aead.NewManager().New(alg, kek)
	if err != nil {
		return nil, nil, nil, err
	}

	nonce = make([]byte, cipher.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, dgerrors.IoError("nonce generation", err)
	}

	ciphertext, err = cipher.Seal(nonce, cek, ephemeralPubBytes)
	if err != nil {
		return nil, nil, nil, err
	}

	epkPEM, err = MarshalX25519PublicPEM(ephemeral.PublicKey())
	if err != nil {
		return nil, nil, nil, err
	}

	return epkPEM, nonce, ciphertext, nil
}

// Unwrap reverses WrapForRecipient using the recipient's long-term
// private key. alg must match the content AEAD the envelope was wrapped
// under.
func Unwrap(priv *ecdh.PrivateKey, epkPEM, nonce, ciphertext []byte, alg aead.Algorithm) (cek []byte, err error) {
	ephemeralPub, err := ParseX25519PublicPEM(epkPEM)
	if err != nil {
		return nil, err
	}

	shared, err := priv.ECDH(ephemeralPub)
	if err != nil {
		return nil, dgerrors.InvalidCiphertext("x25519 ecdh: " + err.Error())
	}

	ephemeralPubBytes := ephemeralPub.Bytes()
	kek, err := deriveKEK(shared)
	if err != nil {
		return nil, err
	}

	cipher, err := aead.NewManager().New(alg, kek)
	if err != nil {
		return nil, err
	}

	return cipher.Open(nonce, ciphertext, ephemeralPubBytes)
}
