package otp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const uriPrefix = "otpauth://totp/"

// ProvisioningURI builds the otpauth://totp/ URI an authenticator app
// imports, in the form
//
//	otpauth://totp/ISSUER:ACCOUNT?secret=B32&issuer=ISSUER&algorithm=ALG&digits=D&period=P
//
// Issuer and account are percent-encoded per RFC 3986; the secret is the
// unpadded Base32 text. The Window field of opts is not part of the URI.
func ProvisioningURI(secret Secret, issuer, accountName string, opts Options) (string, error) {
	if issuer == "" {
		return "", fmt.Errorf("%w: issuer must not be empty", ErrInvalidLabel)
	}
	if accountName == "" {
		return "", fmt.Errorf("%w: account name must not be empty", ErrInvalidLabel)
	}
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: secret must not be empty", ErrInvalidConfig)
	}
	p, err := opts.resolve()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(uriPrefix)
	b.WriteString(escape(issuer))
	b.WriteByte(':')
	b.WriteString(escape(accountName))
	b.WriteString("?secret=")
	b.WriteString(EncodeSecret(secret))
	b.WriteString("&issuer=")
	b.WriteString(escape(issuer))
	b.WriteString("&algorithm=")
	b.WriteString(string(p.algorithm))
	b.WriteString("&digits=")
	b.WriteString(strconv.FormatUint(uint64(p.digits), 10))
	b.WriteString("&period=")
	b.WriteString(strconv.FormatUint(p.period, 10))
	return b.String(), nil
}

// escape percent-encodes everything except RFC 3986 unreserved characters.
// QueryEscape already does so, apart from writing spaces as '+'; a literal
// '+' has become %2B by then, so every remaining '+' is a space.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Key is the content of a TOTP provisioning URI.
type Key struct {
	Issuer      string
	AccountName string
	Secret      Secret
	Options     Options
}

// URI rebuilds the provisioning URI for the key.
func (k *Key) URI() (string, error) {
	if k == nil {
		return "", fmt.Errorf("%w: key is nil", ErrInvalidConfig)
	}
	return ProvisioningURI(k.Secret, k.Issuer, k.AccountName, k.Options)
}

// ParseKeyURI parses an otpauth://totp/ URI. Missing algorithm, digits and
// period parameters take their defaults; the window is always DefaultWindow.
// When the label has no "issuer:" prefix the issuer query parameter is used.
func ParseKeyURI(raw string) (*Key, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if u.Scheme != "otpauth" {
		return nil, fmt.Errorf("%w: scheme must be otpauth", ErrInvalidURI)
	}
	if u.Host != "totp" {
		return nil, fmt.Errorf("%w: only totp keys are supported", ErrInvalidURI)
	}

	label := strings.TrimPrefix(u.EscapedPath(), "/")
	var issuer, account string
	if i := strings.IndexByte(label, ':'); i >= 0 {
		issuer, account = label[:i], label[i+1:]
	} else {
		account = label
	}
	if issuer, err = url.PathUnescape(issuer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if account, err = url.PathUnescape(account); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}

	q := u.Query()
	if qi := q.Get("issuer"); qi != "" {
		if issuer != "" && issuer != qi {
			return nil, fmt.Errorf("%w: label issuer %q does not match issuer parameter %q", ErrInvalidURI, issuer, qi)
		}
		issuer = qi
	}

	secret, err := DecodeSecret(q.Get("secret"))
	if err != nil {
		return nil, err
	}

	opts := Options{Window: DefaultWindow}
	if v := q.Get("algorithm"); v != "" {
		if opts.Algorithm, err = ParseAlgorithm(v); err != nil {
			return nil, err
		}
	}
	if v := q.Get("digits"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: digits: %v", ErrInvalidURI, err)
		}
		opts.Digits = uint(n)
	}
	if v := q.Get("period"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("%w: period must be a positive integer", ErrInvalidURI)
		}
		opts.Period = uint(n)
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Key{
		Issuer:      issuer,
		AccountName: account,
		Secret:      secret,
		Options:     opts,
	}, nil
}
