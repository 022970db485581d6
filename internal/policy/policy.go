// Package policy implements the advisory expiry gate referred to by
// spec.md §3 and §7: key expiry is enforced here, not by deleting the
// underlying key material.
package policy

import (
	"time"

	"github.com/allisson/dataguardian/internal/dgerrors"
	"github.com/allisson/dataguardian/internal/keystore"
)

// Clock abstracts time.Now for deterministic tests.
type Clock func() time.Time

// Gate decides whether an operation against kid is currently permitted.
// Callers inject a Gate rather than reaching for a global clock or
// ambient policy singleton; the default implementation checks expiry,
// but group/role-scoped policies can be substituted without touching
// the envelope core.
type Gate interface {
	Check(kid string) error
}

// ExpiryGate is the default Gate: it denies an operation once the key
// store's record for kid has passed its expiry.
type ExpiryGate struct {
	store *keystore.Store
	clock Clock
}

// NewExpiryGate returns a Gate backed by store, using clock to read the
// current time. Pass time.Now when not testing.
func NewExpiryGate(store *keystore.Store, clock Clock) *ExpiryGate {
	return &ExpiryGate{store: store, clock: clock}
}

// Check returns PolicyDenied once kid's record has expired. Expiry is
// advisory: the key's files remain on disk and readable directly
// through the Store; this gate only governs callers that route through
// it: the encryptor, decryptor and signer as the CLI wires them.
func (g *ExpiryGate) Check(kid string) error {
	rec, err := g.store.Get(kid)
	if err != nil {
		return err
	}
	if rec.Expiry == nil {
		return nil
	}
	if *rec.Expiry < g.clock().Unix() {
		return dgerrors.PolicyDenied("key " + kid + " expired")
	}
	return nil
}

// AllowAll is a Gate that never denies, for callers (tests, offline
// tooling) that don't want expiry enforcement.
type AllowAll struct{}

// Check always returns nil.
func (AllowAll) Check(string) error { return nil }
