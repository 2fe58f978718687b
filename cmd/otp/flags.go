package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/jhahn/go-otp/pkg/otp"
)

var (
	issuerFlag = cli.StringFlag{
		Name:  "issuer, iss",
		Usage: "Name of the issuing organization (e.g., example.com). Defaults to the configured issuer.",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "Name of the user's account (e.g., a username or email address)",
	}
	secretFlag = cli.StringFlag{
		Name:  "secret",
		Usage: "Path to a file containing a Base32 secret or an otpauth:// URI",
	}
	algFlag = cli.StringFlag{
		Name:  "alg, algorithm",
		Usage: "Algorithm to use for HMAC. Must be one of: SHA1, SHA256, SHA512. Defaults to SHA1.",
	}
	digitsFlag = cli.UintFlag{
		Name:  "digits, length",
		Usage: "Length of one-time passwords (6, 7 or 8). Defaults to 6.",
	}
	periodFlag = cli.UintFlag{
		Name:  "period",
		Usage: "Number of seconds a TOTP code is valid. Defaults to 30 seconds.",
	}
	timeFlag = cli.StringFlag{
		Name: "time",
		Usage: `The <time|duration> to use. A <time> is RFC 3339 or Unix seconds; a
<duration> such as "-30s" or "1m" is added to the current time. Defaults to now.`,
	}
	qrFlag = cli.StringFlag{
		Name:  "qr",
		Usage: "Write a QR code PNG of the provisioning URI to the specified path",
	}
)

// keyFile is the content of a secret file. Options and labels are only
// present when the file holds a provisioning URI.
type keyFile struct {
	secret  otp.Secret
	issuer  string
	account string
	opts    *otp.Options
}

func readKeyFile(ctx *cli.Context) (*keyFile, error) {
	name := ctx.String("secret")
	if name == "" {
		return nil, errors.Errorf("flag '--secret' is required")
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", name)
	}

	text := strings.TrimSpace(string(b))
	if strings.HasPrefix(text, "otpauth://") {
		key, err := otp.ParseKeyURI(text)
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing key URI in %s", name)
		}
		return &keyFile{
			secret:  key.Secret,
			issuer:  key.Issuer,
			account: key.AccountName,
			opts:    &key.Options,
		}, nil
	}

	secret, err := otp.DecodeSecret(text)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding secret in %s", name)
	}
	return &keyFile{secret: secret}, nil
}

// resolveOptions layers, in increasing priority, the config file and
// environment, the options of a key URI, and explicitly set flags.
func resolveOptions(ctx *cli.Context, key *keyFile) (otp.Options, error) {
	opts, err := configFrom(ctx).Options()
	if err != nil {
		return otp.Options{}, err
	}
	if key != nil && key.opts != nil {
		window := opts.Window
		opts = *key.opts
		opts.Window = window
	}

	if ctx.IsSet("alg") {
		if opts.Algorithm, err = otp.ParseAlgorithm(ctx.String("alg")); err != nil {
			return otp.Options{}, errors.Wrap(err, "invalid value for flag '--alg'")
		}
	}
	if ctx.IsSet("digits") {
		opts.Digits = ctx.Uint("digits")
	}
	if ctx.IsSet("period") {
		opts.Period = ctx.Uint("period")
	}
	if ctx.IsSet("window") {
		opts.Window = ctx.Uint("window")
	}

	if err := opts.Validate(); err != nil {
		return otp.Options{}, err
	}
	return opts, nil
}

// parseTime interprets value relative to now; see timeFlag.
func parseTime(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if sec, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(d), nil
	}
	return time.Time{}, errors.Errorf("invalid value '%s' for flag '--time'", value)
}

func labels(ctx *cli.Context, key *keyFile) (issuer, account string, err error) {
	issuer = configFrom(ctx).Issuer
	if key != nil {
		if key.issuer != "" {
			issuer = key.issuer
		}
		account = key.account
	}
	if ctx.IsSet("issuer") {
		issuer = ctx.String("issuer")
	}
	if ctx.IsSet("account") {
		account = ctx.String("account")
	}

	switch {
	case issuer == "":
		return "", "", errors.Errorf("flag '--issuer' is required")
	case account == "":
		return "", "", errors.Errorf("flag '--account' is required")
	}
	return issuer, account, nil
}
