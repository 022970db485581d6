package encryptor

import (
	"crypto/rand"
	"errors"
	"io"
	"math"
	"os"
	"time"

	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/chunked"
	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/envelope"
	"github.com/allisson/dataguardian/internal/keystore"
	"github.com/allisson/dataguardian/internal/policy"
	"github.com/allisson/dataguardian/internal/secret"
	"github.com/allisson/dataguardian/internal/threshold"
)

// cekSize and baseNonceSize are fixed by the envelope format.
const (
	cekSize       = 32
	baseNonceSize = 12
)

// Encryptor performs the encrypt half of the envelope core against a
// key store. It holds no other state and is safe for concurrent use
// across distinct input/output paths.
type Encryptor struct {
	Store *keystore.Store
	Gate  policy.Gate
	Now   func() time.Time
}

// New returns an Encryptor backed by store. Gate defaults to
// policy.AllowAll{}; callers that enforce key expiry replace it.
func New(store *keystore.Store) *Encryptor {
	return &Encryptor{Store: store, Gate: policy.AllowAll{}, Now: time.Now}
}

// Encrypt runs the full pipeline described in spec.md §4.10: draw a CEK
// and base nonce, wrap the CEK (or its threshold shares) for every
// recipient, construct and write the header, then stream-encrypt the
// input in fixed-size chunks.
func (e *Encryptor) Encrypt(req Request) error {
	if err := req.validate(); err != nil {
		return err
	}

	cek := make([]byte, cekSize)
	if _, err := rand.Read(cek); err != nil {
		return dgerrors.IoError("generate cek", err)
	}
	defer secret.Zero(cek)

	baseNonce := make([]byte, baseNonceSize)
	if _, err := rand.Read(baseNonce); err != nil {
		return dgerrors.IoError("generate base nonce", err)
	}

	payloads, shareIndexes, err := e.payloadsFor(req, cek)
	if err != nil {
		return err
	}

	recipients := make([]envelope.Recipient, len(req.Recipients))
	for i, kid := range req.Recipients {
		r, err := wrapForRecipient(e.Store, e.Gate, kid, req.Scheme, req.AEAD, req.OAEPHash, payloads[i], shareIndexes[i])
		if err != nil {
			return err
		}
		recipients[i] = r
	}

	header, err := e.buildHeader(req, baseNonce, recipients)
	if err != nil {
		return err
	}

	cipher, err := aead.NewManager().New(req.AEAD, cek)
	if err != nil {
		return err
	}

	return e.writeEnvelope(req, header, cipher, baseNonce)
}

// payloadsFor returns, per recipient, the bytes to wrap: the raw CEK
// when threshold sharing isn't in use, or this recipient's 32-byte
// Shamir share (with its explicit 1-based share index) otherwise.
func (e *Encryptor) payloadsFor(req Request, cek []byte) (payloads [][]byte, shareIndexes []*int, err error) {
	n := len(req.Recipients)
	payloads = make([][]byte, n)
	shareIndexes = make([]*int, n)

	if req.ThresholdK <= 1 {
		for i := range req.Recipients {
			payloads[i] = cek
		}
		return payloads, shareIndexes, nil
	}

	var secretArr [32]byte
	copy(secretArr[:], cek)
	shares, err := threshold.Split(secretArr, n, req.ThresholdK)
	if err != nil {
		return nil, nil, err
	}
	for i, sh := range shares {
		y := sh.Y
		payloads[i] = y[:]
		idx := int(sh.X)
		shareIndexes[i] = &idx
	}
	return payloads, shareIndexes, nil
}

// buildHeader assembles and validates the envelope header, stamping
// total_size from the input file when it can be statted and aad_tag
// when the caller supplied user AAD.
func (e *Encryptor) buildHeader(req Request, baseNonce []byte, recipients []envelope.Recipient) (*envelope.Header, error) {
	chunkSize := req.ChunkSize
	params := envelope.NewParams{
		AEADName:   aeadHeaderName(req.AEAD),
		EncName:    req.Scheme,
		Nonce:      codec.EncodeB64(baseNonce),
		CreatedAt:  e.Now().Unix(),
		Chunked:    true,
		Recipients: recipients,
		ChunkSize:  &chunkSize,
	}

	if req.ThresholdK > 1 {
		k := req.ThresholdK
		params.Threshold = &k
	}

	if len(req.UserAAD) > 0 {
		params.AADTag = envelope.ComputeAADTag(req.UserAAD)
	}

	if info, err := os.Stat(req.InputPath); err == nil {
		size := info.Size()
		params.TotalSize = &size
	}

	return envelope.New(params)
}

func aeadHeaderName(alg aead.Algorithm) string {
	switch alg {
	case aead.ChaCha20:
		return envelope.AEADNameChaCha20
	default:
		return envelope.AEADNameAESGCM
	}
}

// writeEnvelope writes the header and then streams ciphertext frames
// from req.InputPath to req.OutputPath. An I/O failure partway through
// leaves a partial output file; no atomic rename is attempted, matching
// spec.md §4.10's stated policy.
func (e *Encryptor) writeEnvelope(req Request, header *envelope.Header, cipher aead.Cipher, baseNonce []byte) error {
	headerJSON, err := header.Marshal()
	if err != nil {
		return err
	}

	in, err := os.Open(req.InputPath)
	if err != nil {
		return dgerrors.IoError("open input", err)
	}
	defer in.Close()

	out, err := os.Create(req.OutputPath)
	if err != nil {
		return dgerrors.IoError("create output", err)
	}
	defer out.Close()

	w := chunked.NewWriter(out)
	if err := w.WriteHeader(headerJSON); err != nil {
		return err
	}

	buf := make([]byte, req.ChunkSize)
	var index uint32

	for {
		n, readErr := io.ReadFull(in, buf)
		switch {
		case readErr == nil:
			if err := sealAndWriteFrame(w, cipher, header, req.UserAAD, baseNonce, index, buf[:n]); err != nil {
				return err
			}
			if index == math.MaxUint32 {
				return dgerrors.InvalidParameter("chunk count exceeds 2^32")
			}
			index++

		case errors.Is(readErr, io.ErrUnexpectedEOF):
			return sealAndWriteFrame(w, cipher, header, req.UserAAD, baseNonce, index, buf[:n])

		case errors.Is(readErr, io.EOF):
			if index == 0 {
				return sealAndWriteFrame(w, cipher, header, req.UserAAD, baseNonce, index, nil)
			}
			return nil

		default:
			return dgerrors.IoError("read plaintext", readErr)
		}
	}
}

func sealAndWriteFrame(w *chunked.Writer, cipher aead.Cipher, header *envelope.Header, userAAD, baseNonce []byte, index uint32, plaintext []byte) error {
	aad, err := header.ChunkAAD(userAAD, index)
	if err != nil {
		return err
	}
	nonce := chunked.DeriveNonce(baseNonce, index)
	ciphertext, err := cipher.Seal(nonce, plaintext, aad)
	if err != nil {
		return err
	}
	return w.WriteFrame(index, ciphertext)
}
