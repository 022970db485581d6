// Package decryptor implements the decrypt half of the envelope core:
// header parsing and validation, AAD-tag verification, recipient-loop
// CEK recovery (direct or threshold reconstruction), and chunked AEAD
// decryption of the content stream.
package decryptor

import (
	"errors"
	"io"
	"os"

	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/chunked"
	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/envelope"
	"github.com/allisson/dataguardian/internal/keystore"
	"github.com/allisson/dataguardian/internal/policy"
	"github.com/allisson/dataguardian/internal/secret"
)

// Decryptor performs the decrypt half of the envelope core against a
// key store. It holds no other state and is safe for concurrent use
// across distinct input/output paths; concurrent reads of the same kid's
// private blob are safe, per spec.md §5.
type Decryptor struct {
	Store       *keystore.Store
	Passphrases keystore.PassphraseProvider
	Gate        policy.Gate
}

// New returns a Decryptor backed by store, unsealing private keys with
// passphrases. Gate defaults to policy.AllowAll{}; callers that enforce
// key expiry replace it.
func New(store *keystore.Store, passphrases keystore.PassphraseProvider) *Decryptor {
	return &Decryptor{Store: store, Passphrases: passphrases, Gate: policy.AllowAll{}}
}

// Request bundles every input to Decrypt.
type Request struct {
	InputPath  string
	OutputPath string
	UserAAD    []byte
}

// Decrypt runs the full pipeline described in spec.md §4.11.
func (d *Decryptor) Decrypt(req Request) error {
	in, err := os.Open(req.InputPath)
	if err != nil {
		return dgerrors.IoError("open input", err)
	}
	defer in.Close()

	r := chunked.NewReader(in)
	headerLine, err := r.ReadHeaderLine()
	if err != nil {
		return err
	}

	header, err := envelope.ParseHeader(headerLine)
	if err != nil {
		return err
	}

	if err := header.CheckAADTag(req.UserAAD); err != nil {
		return err
	}

	alg, err := envelope.AEADAlgorithm(header.AEADName())
	if err != nil {
		return err
	}

	cek, err := d.recoverCEK(header, alg)
	if err != nil {
		return err
	}
	defer secret.Zero(cek)

	cipher, err := aead.NewManager().New(alg, cek)
	if err != nil {
		return err
	}

	baseNonce, err := codec.DecodeB64(header.Nonce())
	if err != nil {
		return err
	}

	out, err := os.Create(req.OutputPath)
	if err != nil {
		return dgerrors.IoError("create output", err)
	}
	defer out.Close()

	for {
		index, ciphertext, err := r.ReadFrame()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		aad, err := header.ChunkAAD(req.UserAAD, index)
		if err != nil {
			return err
		}
		nonce := chunked.DeriveNonce(baseNonce, index)

		plaintext, err := cipher.Open(nonce, ciphertext, aad)
		if err != nil {
			return err
		}

		if _, err := out.Write(plaintext); err != nil {
			return dgerrors.IoError("write plaintext", err)
		}
	}
}
