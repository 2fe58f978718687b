package otp

import "errors"

// Common errors returned by the OTP engine.
var (
	// ErrInvalidConfig indicates invalid digits, period, window or algorithm,
	// or a negative timestamp.
	ErrInvalidConfig = errors.New("otp: invalid configuration")

	// ErrInvalidEncoding indicates malformed Base32 secret text.
	ErrInvalidEncoding = errors.New("otp: invalid encoding")

	// ErrInvalidLabel indicates an empty issuer or account name when
	// building a provisioning URI.
	ErrInvalidLabel = errors.New("otp: invalid label")

	// ErrEntropyUnavailable indicates the random source could not supply
	// secret bytes.
	ErrEntropyUnavailable = errors.New("otp: entropy unavailable")

	// ErrSecretSerialization is returned when a Secret is marshalled
	// directly instead of going through Encode.
	ErrSecretSerialization = errors.New("otp: secret must be encoded explicitly")

	// ErrInvalidURI indicates a provisioning URI that cannot be parsed.
	ErrInvalidURI = errors.New("otp: invalid provisioning uri")

	// ErrInvalidCode indicates the provided OTP code was rejected.
	ErrInvalidCode = errors.New("otp: invalid code")

	// ErrNilAuthenticator indicates a nil authenticator was used.
	ErrNilAuthenticator = errors.New("otp: authenticator is nil")
)
