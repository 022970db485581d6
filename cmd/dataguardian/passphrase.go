package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/allisson/dataguardian/internal/keystore"
)

// promptPassphrase reads a passphrase from the controlling terminal
// without echoing it, for the single-kid flows (keygen, sign, lifecycle
// commands) that operate on exactly one key at a time.
func promptPassphrase(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return passphrase, nil
}

// staticOrPrompt returns a PassphraseProvider for the given literal
// passphrase if non-empty, else one that prompts interactively the
// first time any kid is asked for, then reuses the answer for every
// subsequent kid in the same invocation.
func staticOrPrompt(literal string) keystore.PassphraseProvider {
	if literal != "" {
		return keystore.StaticPassphrase([]byte(literal))
	}
	return &promptingPassphrase{}
}

type promptingPassphrase struct {
	cached []byte
	asked  bool
}

func (p *promptingPassphrase) Passphrase(kid string) ([]byte, bool) {
	if !p.asked {
		passphrase, err := promptPassphrase(fmt.Sprintf("passphrase for %s: ", kid))
		p.asked = true
		if err != nil {
			return nil, false
		}
		p.cached = passphrase
	}
	return p.cached, true
}
