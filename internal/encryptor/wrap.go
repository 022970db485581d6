package encryptor

import (
	"github.com/allisson/dataguardian/internal/aead"
	"github.com/allisson/dataguardian/internal/asymmetric"
	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/envelope"
	"github.com/allisson/dataguardian/internal/kem"
	"github.com/allisson/dataguardian/internal/keystore"
	"github.com/allisson/dataguardian/internal/policy"
)

// wrapForRecipient checks gate, then loads kid's public key from store
// and wraps payload (a CEK or a 32-byte threshold share) for it per
// scheme, returning a populated envelope.Recipient. aeadAlg is the
// caller's chosen content AEAD: an X25519-KEM wrap tracks it rather than
// a fixed algorithm, so picking ChaCha20-Poly1305 for the content stream
// wraps the CEK under ChaCha20-Poly1305 too.
func wrapForRecipient(store *keystore.Store, gate policy.Gate, kid, scheme string, aeadAlg aead.Algorithm, oaepHash asymmetric.OAEPHash, payload []byte, shareIndex *int) (envelope.Recipient, error) {
	if err := gate.Check(kid); err != nil {
		return envelope.Recipient{}, err
	}

	rec, err := store.Get(kid)
	if err != nil {
		return envelope.Recipient{}, err
	}

	pubPEM, err := store.LoadPublicPEM(kid)
	if err != nil {
		return envelope.Recipient{}, err
	}

	switch scheme {
	case envelope.EncRSAOAEP:
		if keystore.Algorithm(rec.Alg) != keystore.AlgRSA {
			return envelope.Recipient{}, dgerrors.InvalidParameter("recipient " + kid + " is not an RSA key")
		}
		pub, err := asymmetric.ParseRSAPublicPEM(pubPEM)
		if err != nil {
			return envelope.Recipient{}, err
		}
		ek, err := asymmetric.RSAWrap(pub, payload, oaepHash)
		if err != nil {
			return envelope.Recipient{}, err
		}
		return envelope.Recipient{
			Kid:        kid,
			Scheme:     envelope.EncRSAOAEP,
			EK:         codec.EncodeB64(ek),
			ShareIndex: shareIndex,
		}, nil

	case envelope.EncX25519KEM:
		if keystore.Algorithm(rec.Alg) != keystore.AlgX25519 {
			return envelope.Recipient{}, dgerrors.InvalidParameter("recipient " + kid + " is not an X25519 key")
		}
		pub, err := kem.ParseX25519PublicPEM(pubPEM)
		if err != nil {
			return envelope.Recipient{}, err
		}
		epkPEM, nonce, ct, err := kem.WrapForRecipient(pub, payload, aeadAlg)
		if err != nil {
			return envelope.Recipient{}, err
		}
		return envelope.Recipient{
			Kid:        kid,
			Scheme:     envelope.EncX25519KEM,
			EK:         codec.EncodeB64(ct),
			EPK:        codec.EncodeB64(epkPEM),
			Nonce:      codec.EncodeB64(nonce),
			ShareIndex: shareIndex,
		}, nil

	default:
		return envelope.Recipient{}, dgerrors.UnsupportedAlgorithm(scheme)
	}
}
