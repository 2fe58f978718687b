package main

import (
	"fmt"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/jhahn/go-otp/pkg/otp"
)

func uriCommand() cli.Command {
	return cli.Command{
		Name:      "uri",
		Action:    cli.ActionFunc(uriAction),
		Usage:     "print the provisioning URI of an existing secret",
		UsageText: "otp uri --secret <path> [--issuer <name>] [--account <name>] [--qr <path>]",
		Description: `Re-issues the otpauth:// URI for a stored secret so another device can be
enrolled with it. The secret itself is unchanged.

$ otp uri --secret alice.totp --account alice@example.com --qr phone2.png`,
		Flags: []cli.Flag{
			secretFlag,
			issuerFlag,
			accountFlag,
			algFlag,
			digitsFlag,
			periodFlag,
			qrFlag,
		},
	}
}

func uriAction(ctx *cli.Context) error {
	key, err := readKeyFile(ctx)
	if err != nil {
		return err
	}
	issuer, account, err := labels(ctx, key)
	if err != nil {
		return err
	}
	opts, err := resolveOptions(ctx, key)
	if err != nil {
		return err
	}

	uri, err := otp.ProvisioningURI(key.secret, issuer, account, opts)
	if err != nil {
		return err
	}
	if err := writeQR(ctx, uri); err != nil {
		return err
	}

	loggerFrom(ctx).Debug("Issued provisioning URI", zap.String("issuer", issuer), zap.String("account", account))
	fmt.Fprintln(ctx.App.Writer, uri)
	return nil
}
