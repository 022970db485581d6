package decryptor

import (
	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/asymmetric"
	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/envelope"
	"github.com/allisson/dataguardian/internal/kem"
	"github.com/allisson/dataguardian/internal/threshold"
)

// oaepHashCandidates is the order unwrap tries an RSA-OAEP recipient's
// hash in, since the header records only the enc scheme name, not the
// per-wrap hash (spec.md §4.4). A wrong hash fails OAEP's internal
// padding check indistinguishably from a wrong key, so trying each
// candidate is equivalent to trying each key: failure is Skipped, not
// Fatal, and the loop moves to the next hash or the next recipient.
var oaepHashCandidates = []asymmetric.OAEPHash{
	asymmetric.OAEPSHA256,
	asymmetric.OAEPSHA512,
	asymmetric.OAEPSHA1,
}

// recoverCEK recovers the content encryption key: either the direct
// unwrap from the first recipient whose local key accepts it, or a
// Lagrange reconstruction from threshold shares once enough recipients'
// shares have been recovered. alg is the envelope's content AEAD; an
// X25519-KEM recipient's wrap tracks it rather than a fixed algorithm.
func (d *Decryptor) recoverCEK(header *envelope.Header, alg aead.Algorithm) ([]byte, error) {
	if header.Threshold() != nil {
		return d.recoverViaThreshold(header, alg)
	}
	return d.recoverDirect(header, alg)
}

func (d *Decryptor) recoverDirect(header *envelope.Header, alg aead.Algorithm) ([]byte, error) {
	for _, r := range header.Recipients() {
		payload, ok := d.tryUnwrap(r, alg)
		if ok {
			return payload, nil
		}
	}
	return nil, dgerrors.InvalidCiphertext("no matching key")
}

func (d *Decryptor) recoverViaThreshold(header *envelope.Header, alg aead.Algorithm) ([]byte, error) {
	k := *header.Threshold()
	recipients := header.Recipients()

	var shares []threshold.Share
	for i, r := range recipients {
		payload, ok := d.tryUnwrap(r, alg)
		if !ok {
			continue
		}
		if len(payload) != 32 {
			continue
		}

		x := shareIndexFor(r, i)
		var y [32]byte
		copy(y[:], payload)
		shares = append(shares, threshold.Share{X: byte(x), Y: y})

		if len(shares) >= k {
			break
		}
	}

	if len(shares) < k {
		return nil, dgerrors.InvalidCiphertext("insufficient shares for threshold reconstruction")
	}

	secret, err := threshold.Combine(shares, k)
	if err != nil {
		return nil, err
	}
	return secret[:], nil
}

// shareIndexFor returns r's Shamir x-coordinate: its explicit
// share_index when recorded, or its 1-based position in the recipient
// list otherwise (spec.md §4.11). Header validation rejects threshold
// recipients without share_index, so a parsed header always takes the
// first branch.
func shareIndexFor(r envelope.Recipient, position int) int {
	if r.ShareIndex != nil {
		return *r.ShareIndex
	}
	return position + 1
}

// tryUnwrap attempts to recover r's wrapped payload using whatever local
// key material is available. ok is false for every reason to skip this
// recipient and keep trying: the policy gate denies r.Kid (e.g. an
// expired key), no local private key, no passphrase on hand, a wrong
// passphrase, or an AEAD/OAEP authentication failure. None of these is
// fatal to the decryption as a whole.
func (d *Decryptor) tryUnwrap(r envelope.Recipient, alg aead.Algorithm) (payload []byte, ok bool) {
	if err := d.Gate.Check(r.Kid); err != nil {
		return nil, false
	}

	passphrase, has := d.Passphrases.Passphrase(r.Kid)
	if !has {
		return nil, false
	}

	privPEM, err := d.Store.LoadPrivatePEM(r.Kid, passphrase)
	if err != nil {
		return nil, false
	}

	ek, err := codec.DecodeB64(r.EK)
	if err != nil {
		return nil, false
	}

	switch r.Scheme {
	case envelope.EncRSAOAEP:
		priv, err := asymmetric.ParseRSAPrivatePEM(privPEM)
		if err != nil {
			return nil, false
		}
		for _, h := range oaepHashCandidates {
			if pt, err := asymmetric.RSAUnwrap(priv, ek, h); err == nil {
				return pt, true
			}
		}
		return nil, false

	case envelope.EncX25519KEM:
		priv, err := kem.ParseX25519PrivatePEM(privPEM)
		if err != nil {
			return nil, false
		}
		epkPEM, err := codec.DecodeB64(r.EPK)
		if err != nil {
			return nil, false
		}
		nonce, err := codec.DecodeB64(r.Nonce)
		if err != nil {
			return nil, false
		}
		pt, err := kem.Unwrap(priv, epkPEM, nonce, ek, alg)
		if err != nil {
			return nil, false
		}
		return pt, true

	default:
		return nil, false
	}
}
