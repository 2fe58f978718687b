package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/jhahn/go-otp/pkg/otp"
)

func codeCommand() cli.Command {
	return cli.Command{
		Name:      "code",
		Action:    cli.ActionFunc(codeAction),
		Usage:     "print the TOTP code for a secret",
		UsageText: "otp code --secret <path> [--time <time|duration>]",
		Flags: []cli.Flag{
			secretFlag,
			algFlag,
			digitsFlag,
			periodFlag,
			timeFlag,
		},
	}
}

func codeAction(ctx *cli.Context) error {
	key, err := readKeyFile(ctx)
	if err != nil {
		return err
	}
	opts, err := resolveOptions(ctx, key)
	if err != nil {
		return err
	}
	at, err := parseTime(ctx.String("time"), time.Now())
	if err != nil {
		return err
	}

	code, err := otp.TOTP(key.secret, at.Unix(), opts)
	if err != nil {
		return errors.Wrap(err, "error generating code")
	}
	fmt.Fprintln(ctx.App.Writer, code)
	return nil
}
