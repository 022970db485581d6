package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func signCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "produce a detached Ed25519 signature over a file",
		Flags: []cli.Flag{
			storeDirFlag,
			passphraseFlag,
			&cli.StringFlag{Name: "in", Required: true, Usage: "file to sign"},
			&cli.StringFlag{Name: "sig", Required: true, Usage: "signature output path"},
			&cli.StringFlag{Name: "kid", Required: true, Usage: "signing key id"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)

			container := newContainer(cmd.String("passphrase"))
			s, err := container.Signer()
			if err != nil {
				return err
			}
			if err := s.Sign(cmd.String("in"), cmd.String("sig"), cmd.String("kid")); err != nil {
				return err
			}
			fmt.Println("signed", cmd.String("in"))
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "check a detached signature against a file",
		Flags: []cli.Flag{
			storeDirFlag,
			&cli.StringFlag{Name: "in", Required: true, Usage: "signed file"},
			&cli.StringFlag{Name: "sig", Required: true, Usage: "signature path"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyStoreDirOverride(cmd)

			container := newContainer("")
			s, err := container.Signer()
			if err != nil {
				return err
			}
			ok, err := s.Verify(cmd.String("in"), cmd.String("sig"))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("signature INVALID")
				os.Exit(exitVerificationFailed)
			}
			fmt.Println("signature OK")
			return nil
		},
	}
}
