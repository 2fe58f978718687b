package otp

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Type represents the OTP algorithm type.
type Type string

const (
	// TypeTOTP represents Time-based OTP (RFC 6238).
	TypeTOTP Type = "totp"
	// TypeHOTP represents Counter-based OTP (RFC 4226).
	TypeHOTP Type = "hotp"
)

// Clock supplies the current time to an Authenticator.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Config holds OTP authenticator configuration.
type Config struct {
	// Type specifies the OTP type (TOTP or HOTP).
	Type Type
	// Secret is the base32-encoded shared secret key (required).
	Secret string
	// Issuer is the name of the issuing organization (e.g., "MyApp").
	Issuer string
	// AccountName is the account identifier (e.g., "user@example.com").
	AccountName string
	// Digits specifies the number of digits in the OTP code (6, 7, or 8).
	// Default: 6
	Digits uint
	// Period specifies the time step in seconds for TOTP.
	// Default: 30
	Period uint
	// Counter specifies the counter value checked by Authenticate for HOTP.
	// Default: 0
	Counter uint64
	// Algorithm specifies the hash algorithm to use.
	// Default: SHA1
	Algorithm Algorithm
	// Skew specifies the number of periods to check before and after the
	// current time for TOTP, or after Counter for HOTP.
	// Default: 1
	Skew uint
	// DisableSkew forces a skew of zero, which would otherwise be replaced
	// by the default.
	DisableSkew bool
	// Clock supplies the current time for TOTP.
	// Default: SystemClock
	Clock Clock
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if c.Type != TypeTOTP && c.Type != TypeHOTP {
		return fmt.Errorf("%w: type must be 'totp' or 'hotp'", ErrInvalidConfig)
	}

	if strings.TrimSpace(c.Secret) == "" {
		return fmt.Errorf("%w: secret must not be empty", ErrInvalidConfig)
	}

	if c.Algorithm != "" {
		if _, err := c.Algorithm.Hash(); err != nil {
			return err
		}
	}

	return nil
}

// Authenticator validates OTP codes for a single enrolled secret.
// It is immutable after construction and safe for concurrent use.
type Authenticator struct {
	cfg      Config
	secret   Secret
	verifier Verifier
}

// NewAuthenticator creates a new OTP authenticator.
// The configuration is validated and an error is returned if invalid.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	secret, err := DecodeSecret(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: secret must be valid base32: %v", ErrInvalidConfig, err)
	}

	if cfg.Digits == 0 {
		cfg.Digits = DefaultDigits
	}
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmSHA1
	}
	if cfg.DisableSkew {
		cfg.Skew = 0
	} else if cfg.Skew == 0 {
		cfg.Skew = DefaultWindow
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}

	verifier, err := NewVerifier(cfg.options())
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		cfg:      cfg,
		secret:   secret,
		verifier: verifier,
	}, nil
}

func (c Config) options() Options {
	return Options{
		Algorithm: c.Algorithm,
		Digits:    c.Digits,
		Period:    c.Period,
		Window:    c.Skew,
	}
}

// Authenticate validates an OTP code.
// For TOTP, it validates against the current time with skew tolerance.
// For HOTP, it validates against the configured counter and look-ahead.
func (a *Authenticator) Authenticate(ctx context.Context, code string) error {
	res, err := a.Verify(ctx, code)
	if err != nil {
		return err
	}
	if !res.Matched {
		return ErrInvalidCode
	}
	return nil
}

// Verify is like Authenticate but returns the full Result so the caller
// can track drift or the last accepted counter.
func (a *Authenticator) Verify(ctx context.Context, code string) (Result, error) {
	if a == nil {
		return Result{}, ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if strings.TrimSpace(code) == "" {
		return Result{}, fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	if a.cfg.Type == TypeTOTP {
		return a.verifier.Verify(a.secret, code, a.cfg.Clock.Now().Unix())
	}

	return a.verifier.VerifyHOTP(a.secret, code, a.cfg.Counter), nil
}

// ValidateCounter validates an HOTP code and returns the new counter value.
// This method is only valid for HOTP authenticators.
// The returned counter should be stored and used for the next validation.
func (a *Authenticator) ValidateCounter(ctx context.Context, code string, counter uint64) (uint64, error) {
	if a == nil {
		return 0, ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if a.cfg.Type != TypeHOTP {
		return 0, fmt.Errorf("%w: ValidateCounter is only valid for HOTP", ErrInvalidConfig)
	}

	if strings.TrimSpace(code) == "" {
		return 0, fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	res := a.verifier.VerifyHOTP(a.secret, code, counter)
	if !res.Matched {
		return 0, ErrInvalidCode
	}

	return res.Counter + 1, nil
}

// Generate generates an OTP code.
// For TOTP, it generates the code for the current time.
// For HOTP, a counter value must be provided.
func (a *Authenticator) Generate(counter ...uint64) (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}

	opts := a.cfg.options()
	if a.cfg.Type == TypeTOTP {
		code, err := TOTP(a.secret, a.cfg.Clock.Now().Unix(), opts)
		if err != nil {
			return "", fmt.Errorf("otp: failed to generate TOTP code: %w", err)
		}
		return code, nil
	}

	if len(counter) == 0 {
		return "", fmt.Errorf("otp: counter required for HOTP generation")
	}

	code, err := HOTP(a.secret, counter[0], opts)
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate HOTP code: %w", err)
	}

	return code, nil
}

// GetProvisioningURI returns the otpauth:// URI for QR code generation.
// Only TOTP authenticators can be provisioned this way.
func (a *Authenticator) GetProvisioningURI() (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}
	if a.cfg.Type != TypeTOTP {
		return "", fmt.Errorf("%w: provisioning URIs are only built for TOTP", ErrInvalidConfig)
	}
	return ProvisioningURI(a.secret, a.cfg.Issuer, a.cfg.AccountName, a.cfg.options())
}
