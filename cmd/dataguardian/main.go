// Package main is the entry point for the dataguardian CLI: a thin
// urfave/cli/v3 shell over the envelope, keystore, and signer packages.
// It contains no cryptographic logic of its own.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dataguardian/internal/app"
	"github.com/allisson/dataguardian/internal/config"
)

// exitVerificationFailed is returned by `verify` when the signature
// doesn't match, per spec.md §6's exit-code convention.
const exitVerificationFailed = 2

func main() {
	cmd := &cli.Command{
		Name:    "dataguardian",
		Usage:   "hybrid envelope encryption, chunked streaming AEAD, and threshold key sharing",
		Version: "1.0.0",
		Commands: []*cli.Command{
			keygenCommand(),
			listKeysCommand(),
			encryptCommand(),
			decryptCommand(),
			signCommand(),
			verifyCommand(),
			setExpiryCommand(),
			cleanExpiredCommand(),
			revokeCommand(),
			rotateCommand(),
			exportCommand(),
			importCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// newContainer loads configuration and assembles a DI container using
// passphraseLiteral if non-empty, or an interactive prompt otherwise.
func newContainer(passphraseLiteral string) *app.Container {
	cfg := config.Load()
	return app.NewContainer(cfg, staticOrPrompt(passphraseLiteral))
}

var passphraseFlag = &cli.StringFlag{
	Name:  "passphrase",
	Usage: "passphrase for the private key (prompted interactively if omitted)",
}

var storeDirFlag = &cli.StringFlag{
	Name:  "store-dir",
	Usage: "key store root (overrides DG_STORE_DIR)",
}

func applyStoreDirOverride(cmd *cli.Command) {
	if dir := cmd.String("store-dir"); dir != "" {
		os.Setenv("DG_STORE_DIR", dir)
	}
}
