package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"

	"github.com/pkg/errors"
	pqotp "github.com/pquerna/otp"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/jhahn/go-otp/pkg/otp"
)

const qrSize = 200

func generateCommand() cli.Command {
	return cli.Command{
		Name:      "generate",
		Action:    cli.ActionFunc(generateAction),
		Usage:     "generate a new TOTP secret",
		UsageText: "otp generate --issuer <name> --account <name> [--url] [--qr <path>] [--secret-size <bytes>]",
		Description: `Generates a random secret and prints it in Base32, or as an otpauth:// URI
with '--url'. Store the output in a file to use it with the other commands.

$ otp generate --issuer example.com --account alice@example.com --qr alice.png > alice.totp`,
		Flags: []cli.Flag{
			issuerFlag,
			accountFlag,
			cli.IntFlag{
				Name:  "secret-size",
				Usage: "Size of the generated secret in bytes. Defaults to 20.",
			},
			algFlag,
			digitsFlag,
			periodFlag,
			cli.BoolFlag{
				Name:  "url",
				Usage: "Output a provisioning URI instead of the bare secret",
			},
			qrFlag,
		},
	}
}

func generateAction(ctx *cli.Context) error {
	issuer, account, err := labels(ctx, nil)
	if err != nil {
		return err
	}
	opts, err := resolveOptions(ctx, nil)
	if err != nil {
		return err
	}

	size := configFrom(ctx).SecretSize
	if ctx.IsSet("secret-size") {
		size = ctx.Int("secret-size")
	}
	secret, err := otp.GenerateSecret(size)
	if err != nil {
		return errors.Wrap(err, "error generating secret")
	}

	uri, err := otp.ProvisioningURI(secret, issuer, account, opts)
	if err != nil {
		return err
	}
	if err := writeQR(ctx, uri); err != nil {
		return err
	}

	loggerFrom(ctx).Debug("Generated secret",
		zap.String("issuer", issuer),
		zap.String("account", account),
		zap.Int("size", len(secret)))

	if ctx.Bool("url") {
		fmt.Fprintln(ctx.App.Writer, uri)
	} else {
		fmt.Fprintln(ctx.App.Writer, secret.Encode())
	}
	return nil
}

// writeQR renders uri into the PNG file named by --qr, if set.
func writeQR(ctx *cli.Context, uri string) error {
	filename := ctx.String("qr")
	if filename == "" {
		return nil
	}

	key, err := pqotp.NewKeyFromURL(uri)
	if err != nil {
		return errors.Wrap(err, "error parsing provisioning URI")
	}
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return errors.Wrap(err, "error rendering QR code")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errors.Wrap(err, "error encoding QR code")
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o600); err != nil {
		return errors.Wrapf(err, "error writing %s", filename)
	}
	return nil
}
