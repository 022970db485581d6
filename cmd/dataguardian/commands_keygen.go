package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dataguardian/internal/keystore"
)

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "generate a new key pair and add it to the store",
		Flags: []cli.Flag{
			storeDirFlag,
			passphraseFlag,
			&cli.StringFlag{
				Name:     "alg",
				Required: true,
				Usage:    "key algorithm: rsa, ed25519, or x25519",
			},
			&cli.StringFlag{
				Name:  "label",
				Usage: "human-readable label stored alongside the key",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)

			passphrase := cmd.String("passphrase")
			if passphrase == "" {
				prompted, err := promptPassphrase("new key passphrase: ")
				if err != nil {
					return err
				}
				passphrase = string(prompted)
			}

			container := newContainer(passphrase)
			store, err := container.Store()
			if err != nil {
				return err
			}

			label := cmd.String("label")
			var rec *keystore.KeyRecord
			switch cmd.String("alg") {
			case "rsa":
				rec, err = store.CreateRSA(label, []byte(passphrase))
			case "ed25519":
				rec, err = store.CreateEd25519(label, []byte(passphrase))
			case "x25519":
				rec, err = store.CreateX25519(label, []byte(passphrase))
			default:
				return fmt.Errorf("unknown algorithm %q (valid options: rsa, ed25519, x25519)", cmd.String("alg"))
			}
			if err != nil {
				return err
			}

			fmt.Printf("created key %s (%s)\n", rec.Kid, rec.Alg)
			return nil
		},
	}
}

func parseKeyAlg(s string) (keystore.Algorithm, error) {
	switch s {
	case "rsa":
		return keystore.AlgRSA, nil
	case "ed25519":
		return keystore.AlgEd25519, nil
	case "x25519":
		return keystore.AlgX25519, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q (valid options: rsa, ed25519, x25519)", s)
	}
}

func listKeysCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-keys",
		Usage: "list every key recorded in the store",
		Flags: []cli.Flag{storeDirFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)

			container := newContainer("")
			store, err := container.Store()
			if err != nil {
				return err
			}

			keys, err := store.List()
			if err != nil {
				return err
			}
			for _, k := range keys {
				expiry := "never"
				if k.Expiry != nil {
					expiry = fmt.Sprintf("%d", *k.Expiry)
				}
				fmt.Printf("%s\t%s\t%s\texpiry=%s\n", k.Kid, k.Alg, k.Label, expiry)
			}
			return nil
		},
	}
}
