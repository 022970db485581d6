package keystore

// PassphraseProvider supplies the passphrase that unseals a given kid's
// private key. The library never reads from standard input itself; CLI
// and HTTP callers inject an implementation (TTY prompt, secrets
// manager lookup, static map) at the boundary.
//
// Passphrase returns ok=false when the caller has no passphrase on hand
// for kid at all — distinct from an actively wrong passphrase, which
// Store.LoadPrivatePEM reports as InvalidPassphrase. Recipient try-loops
// treat both as a reason to skip kid and move on, not a reason to stop.
type PassphraseProvider interface {
	Passphrase(kid string) (passphrase []byte, ok bool)
}

// StaticPassphrase returns a PassphraseProvider that answers the same
// passphrase for every kid, for single-recipient CLI invocations and
// tests.
func StaticPassphrase(passphrase []byte) PassphraseProvider {
	return staticPassphrase(passphrase)
}

type staticPassphrase []byte

func (s staticPassphrase) Passphrase(string) ([]byte, bool) { return []byte(s), true }

// MapPassphrase returns a PassphraseProvider backed by an explicit
// kid->passphrase map, for multi-recipient decryption where the caller
// holds several private keys under different passphrases.
func MapPassphrase(m map[string][]byte) PassphraseProvider {
	return mapPassphrase(m)
}

type mapPassphrase map[string][]byte

func (m mapPassphrase) Passphrase(kid string) ([]byte, bool) {
	p, ok := m[kid]
	return p, ok
}
