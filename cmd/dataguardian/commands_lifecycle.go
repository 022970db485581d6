package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

func setExpiryCommand() *cli.Command {
	return &cli.Command{
		Name:  "set-expiry",
		Usage: "set or clear a key's expiry",
		Flags: []cli.Flag{
			storeDirFlag,
			&cli.StringFlag{Name: "kid", Required: true},
			&cli.IntFlag{Name: "epoch", Usage: "unix seconds; omit to clear the expiry"},
			&cli.BoolFlag{Name: "clear", Usage: "clear the expiry instead of setting one"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)
			store, err := newContainer("").Store()
			if err != nil {
				return err
			}

			var epoch *int64
			if !cmd.Bool("clear") && cmd.IsSet("epoch") {
				v := cmd.Int("epoch")
				epoch = &v
			}
			if err := store.SetExpiry(cmd.String("kid"), epoch); err != nil {
				return err
			}
			fmt.Println("updated expiry for", cmd.String("kid"))
			return nil
		},
	}
}

func cleanExpiredCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean-expired",
		Usage: "remove index entries for keys past their expiry",
		Flags: []cli.Flag{storeDirFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)
			store, err := newContainer("").Store()
			if err != nil {
				return err
			}
			n, err := store.CleanExpired(time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("removed %d expired key(s)\n", n)
			return nil
		},
	}
}

func revokeCommand() *cli.Command {
	return &cli.Command{
		Name:  "revoke",
		Usage: "remove a key's index entry and delete its files",
		Flags: []cli.Flag{
			storeDirFlag,
			&cli.StringFlag{Name: "kid", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)
			store, err := newContainer("").Store()
			if err != nil {
				return err
			}
			if err := store.Revoke(cmd.String("kid")); err != nil {
				return err
			}
			fmt.Println("revoked", cmd.String("kid"))
			return nil
		},
	}
}

func rotateCommand() *cli.Command {
	return &cli.Command{
		Name:  "rotate",
		Usage: "replace a key with a freshly generated one of the same algorithm",
		Flags: []cli.Flag{
			storeDirFlag,
			passphraseFlag,
			&cli.StringFlag{Name: "kid", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)

			passphrase := cmd.String("passphrase")
			if passphrase == "" {
				prompted, err := promptPassphrase(fmt.Sprintf("passphrase for %s: ", cmd.String("kid")))
				if err != nil {
					return err
				}
				passphrase = string(prompted)
			}

			store, err := newContainer(passphrase).Store()
			if err != nil {
				return err
			}
			rec, err := store.Rotate(cmd.String("kid"), []byte(passphrase))
			if err != nil {
				return err
			}
			fmt.Println("rotated to", rec.Kid)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a key's unsealed private PEM to a file",
		Flags: []cli.Flag{
			storeDirFlag,
			passphraseFlag,
			&cli.StringFlag{Name: "kid", Required: true},
			&cli.StringFlag{Name: "out", Required: true, Usage: "private PEM output path"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)

			passphrase := cmd.String("passphrase")
			if passphrase == "" {
				prompted, err := promptPassphrase(fmt.Sprintf("passphrase for %s: ", cmd.String("kid")))
				if err != nil {
					return err
				}
				passphrase = string(prompted)
			}

			store, err := newContainer(passphrase).Store()
			if err != nil {
				return err
			}
			pem, err := store.Export(cmd.String("kid"), []byte(passphrase))
			if err != nil {
				return err
			}
			if err := os.WriteFile(cmd.String("out"), pem, 0o600); err != nil {
				return fmt.Errorf("write exported private key: %w", err)
			}
			fmt.Println("exported", cmd.String("kid"), "to", cmd.String("out"))
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "seal and record an existing key pair under a new kid",
		Flags: []cli.Flag{
			storeDirFlag,
			passphraseFlag,
			&cli.StringFlag{Name: "alg", Required: true, Usage: "rsa, ed25519, or x25519"},
			&cli.StringFlag{Name: "pub", Required: true, Usage: "public key PEM path"},
			&cli.StringFlag{Name: "priv", Required: true, Usage: "private key PEM path"},
			&cli.StringFlag{Name: "label", Usage: "human-readable label"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)

			alg, err := parseKeyAlg(cmd.String("alg"))
			if err != nil {
				return err
			}

			passphrase := cmd.String("passphrase")
			if passphrase == "" {
				prompted, err := promptPassphrase("passphrase to seal the imported key under: ")
				if err != nil {
					return err
				}
				passphrase = string(prompted)
			}

			pubPEM, err := os.ReadFile(cmd.String("pub"))
			if err != nil {
				return fmt.Errorf("read public key: %w", err)
			}
			privPEM, err := os.ReadFile(cmd.String("priv"))
			if err != nil {
				return fmt.Errorf("read private key: %w", err)
			}

			store, err := newContainer(passphrase).Store()
			if err != nil {
				return err
			}
			rec, err := store.Import(alg, cmd.String("label"), pubPEM, privPEM, []byte(passphrase))
			if err != nil {
				return err
			}
			fmt.Println("imported as", rec.Kid)
			return nil
		},
	}
}
