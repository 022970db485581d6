// Package signer implements detached Ed25519 signatures over whole
// files, with a JSON sidecar recording which kid produced the signature.
package signer

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/allisson/dataguardian/internal/asymmetric"
	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/keystore"
	"github.com/allisson/dataguardian/internal/policy"
)

// sidecar is the shape of the JSON file written alongside a signature,
// recording which key produced it.
type sidecar struct {
	V   int    `json:"v"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

const sidecarAlg = "Ed25519"

// Signer signs and verifies detached file signatures against a key
// store.
type Signer struct {
	Store       *keystore.Store
	Passphrases keystore.PassphraseProvider
	Gate        policy.Gate
}

// New returns a Signer backed by store, unsealing signing keys with
// passphrases. Gate defaults to policy.AllowAll{}; callers that enforce
// key expiry replace it.
func New(store *keystore.Store, passphrases keystore.PassphraseProvider) *Signer {
	return &Signer{Store: store, Passphrases: passphrases, Gate: policy.AllowAll{}}
}

// sigSidecarPath is the metadata file written alongside sigPath.
func sigSidecarPath(sigPath string) string {
	return sigPath + ".json"
}

// Sign produces a detached signature over inputPath's bytes using kid's
// Ed25519 private key, writing the Base64 signature to sigPath and a
// {v, alg, kid} metadata sidecar to sigPath+".json".
func (s *Signer) Sign(inputPath, sigPath, kid string) error {
	if err := s.Gate.Check(kid); err != nil {
		return err
	}

	passphrase, ok := s.Passphrases.Passphrase(kid)
	if !ok {
		return dgerrors.InvalidPassphrase("no passphrase available for " + kid)
	}

	privPEM, err := s.Store.LoadPrivatePEM(kid, passphrase)
	if err != nil {
		return err
	}
	priv, err := asymmetric.ParseEd25519PrivatePEM(privPEM)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return dgerrors.IoError("read input", err)
	}

	sig := asymmetric.Ed25519Sign(priv, data)

	if err := os.WriteFile(sigPath, []byte(codec.EncodeB64(sig)), 0o644); err != nil {
		return dgerrors.IoError("write signature", err)
	}

	meta, err := json.Marshal(sidecar{V: 1, Alg: sidecarAlg, Kid: kid})
	if err != nil {
		return dgerrors.IoError("marshal signature metadata", err)
	}
	if err := os.WriteFile(sigSidecarPath(sigPath), meta, 0o644); err != nil {
		return dgerrors.IoError("write signature metadata", err)
	}
	return nil
}

// Verify checks sigPath (and its sidecar) against inputPath's bytes,
// loading the signer's public key from the kid recorded in the sidecar.
// It returns a boolean outcome rather than distinguishing "bad
// signature" from "verification ran successfully and failed" — callers
// needing diagnostics should inspect the returned error, which is
// non-nil for structural problems (missing files, malformed sidecar
// metadata, unknown kid, unsupported algorithm) and for a policy denial.
func (s *Signer) Verify(inputPath, sigPath string) (bool, error) {
	metaData, err := os.ReadFile(sigSidecarPath(sigPath))
	if err != nil {
		return false, dgerrors.IoError("read signature metadata", err)
	}
	var meta sidecar
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return false, dgerrors.InvalidHeader("malformed signature metadata: " + err.Error())
	}
	if meta.Alg != sidecarAlg {
		return false, dgerrors.UnsupportedAlgorithm(meta.Alg)
	}

	if err := s.Gate.Check(meta.Kid); err != nil {
		return false, err
	}

	pubPEM, err := s.Store.LoadPublicPEM(meta.Kid)
	if err != nil {
		return false, err
	}
	pub, err := asymmetric.ParseEd25519PublicPEM(pubPEM)
	if err != nil {
		return false, err
	}

	sigText, err := os.ReadFile(sigPath)
	if err != nil {
		return false, dgerrors.IoError("read signature", err)
	}
	sig, err := codec.DecodeB64(strings.TrimSpace(string(sigText)))
	if err != nil {
		return false, dgerrors.InvalidHeader("malformed signature: " + err.Error())
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return false, dgerrors.IoError("read input", err)
	}

	return asymmetric.Ed25519Verify(pub, data, sig), nil
}
