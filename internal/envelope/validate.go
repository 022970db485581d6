package envelope

import (
	"strconv"

	"github.com/allisson/dataguardian/internal/codec"
	"github.com/allisson/dataguardian/internal/dgerrors"
)

// Validate checks structural invariants: version, enum membership, nonce
// length, non-empty recipients, per-recipient self-consistency with its
// scheme, and (when chunked) a positive chunk size.
func (h *Header) Validate() error {
	if h.version != Version {
		return dgerrors.InvalidHeader("unsupported version: " + h.version)
	}

	switch h.aeadName {
	case AEADNameAESGCM, AEADNameChaCha20:
	default:
		return dgerrors.InvalidHeader("unknown aead: " + h.aeadName)
	}

	switch h.encName {
	case EncRSAOAEP, EncX25519KEM:
	default:
		return dgerrors.InvalidHeader("unknown enc: " + h.encName)
	}

	nonceBytes, err := codec.DecodeB64(h.nonce)
	if err != nil {
		return dgerrors.InvalidHeader("malformed nonce: " + err.Error())
	}
	if len(nonceBytes) != 12 {
		return dgerrors.InvalidHeader("nonce must decode to 12 bytes")
	}

	if len(h.recipients) == 0 {
		return dgerrors.InvalidHeader("recipients must not be empty")
	}

	for i, r := range h.recipients {
		if err := validateRecipient(r); err != nil {
			return dgerrors.InvalidHeader("recipient " + strconv.Itoa(i) + ": " + err.Error())
		}
	}

	if h.threshold != nil {
		if *h.threshold < 2 || *h.threshold > len(h.recipients) {
			return dgerrors.InvalidHeader("threshold must be between 2 and len(recipients)")
		}
		for _, r := range h.recipients {
			if r.ShareIndex == nil {
				return dgerrors.InvalidHeader("threshold envelope requires share_index on every recipient")
			}
		}
	}

	if h.chunked {
		if h.chunkSize == nil || *h.chunkSize <= 0 {
			return dgerrors.InvalidHeader("chunked requires a positive chunk_size")
		}
	}

	return nil
}

func validateRecipient(r Recipient) error {
	if r.Kid == "" {
		return dgerrors.InvalidHeader("missing kid")
	}
	if r.EK == "" {
		return dgerrors.InvalidHeader("missing ek")
	}

	switch r.Scheme {
	case EncRSAOAEP:
		if r.EPK != "" || r.Nonce != "" {
			return dgerrors.InvalidHeader("RSA-OAEP recipient must not carry epk/nonce")
		}
	case EncX25519KEM:
		if r.EPK == "" || r.Nonce == "" {
			return dgerrors.InvalidHeader("X25519-KEM recipient requires epk and nonce")
		}
	default:
		return dgerrors.InvalidHeader("unknown recipient scheme: " + r.Scheme)
	}

	return nil
}
