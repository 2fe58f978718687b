package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/jhahn/go-otp/pkg/otp"
)

func verifyCommand() cli.Command {
	return cli.Command{
		Name:      "verify",
		Action:    cli.ActionFunc(verifyAction),
		Usage:     "verify a one-time password",
		UsageText: "otp verify --secret <path> --code <code> [--window <steps>] [--time <time|duration>]",
		Description: `Checks a TOTP code against the secret. Prints 'ok step=N', where N is the
clock drift in steps, and exits 0, or prints 'fail' and exits 1.

$ otp verify --secret alice.totp --code 614318
ok step=0`,
		Flags: []cli.Flag{
			secretFlag,
			cli.StringFlag{
				Name:  "code",
				Usage: "The one-time password to verify",
			},
			cli.UintFlag{
				Name: "window, skew",
				Usage: `Periods before or after the current time to allow. Defaults to 1.
Values greater than 1 require the '--insecure' flag.`,
			},
			algFlag,
			digitsFlag,
			periodFlag,
			timeFlag,
			cli.BoolFlag{
				Name:   "insecure",
				Hidden: true,
			},
		},
	}
}

func verifyAction(ctx *cli.Context) error {
	code := strings.TrimSpace(ctx.String("code"))
	if code == "" {
		return errors.Errorf("flag '--code' is required")
	}
	key, err := readKeyFile(ctx)
	if err != nil {
		return err
	}
	opts, err := resolveOptions(ctx, key)
	if err != nil {
		return err
	}
	if opts.Window > 1 && !ctx.Bool("insecure") {
		return errors.Errorf("'--window' values greater than 1 require the '--insecure' flag")
	}
	at, err := parseTime(ctx.String("time"), time.Now())
	if err != nil {
		return err
	}

	res, err := otp.Verify(key.secret, code, at.Unix(), opts)
	if err != nil {
		return errors.Wrap(err, "error verifying code")
	}

	logger := loggerFrom(ctx)
	if !res.Matched {
		logger.Debug("Verification failed", zap.Uint("window", opts.Window))
		fmt.Fprintln(ctx.App.Writer, "fail")
		return cli.NewExitError("", 1)
	}

	logger.Debug("Verification succeeded", zap.Int("step", res.Step), zap.Uint64("counter", res.Counter))
	fmt.Fprintf(ctx.App.Writer, "ok step=%d\n", res.Step)
	return nil
}
