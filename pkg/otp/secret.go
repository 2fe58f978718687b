package otp

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const (
	// DefaultSecretSize is the recommended secret length in bytes (160 bits).
	DefaultSecretSize = 20
	// MinSecretSize is the shortest secret GenerateSecret will produce (80 bits).
	MinSecretSize = 10
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Secret is the raw shared key between server and authenticator.
//
// A Secret never prints its bytes: String and GoString redact it and the
// Marshal methods fail. Use Encode to obtain the Base32 form for storage
// or display.
type Secret []byte

// String implements fmt.Stringer without revealing the key.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer without revealing the key.
func (s Secret) GoString() string {
	return "otp.Secret([REDACTED])"
}

// MarshalText always fails; call Encode instead.
func (s Secret) MarshalText() ([]byte, error) {
	return nil, ErrSecretSerialization
}

// MarshalJSON always fails; call Encode instead.
func (s Secret) MarshalJSON() ([]byte, error) {
	return nil, ErrSecretSerialization
}

// Encode returns the unpadded, uppercase Base32 form of the secret.
func (s Secret) Encode() string {
	return EncodeSecret(s)
}

// GenerateSecret returns size bytes from the system's secure random source.
// Callers that need to retry transient failures must do so themselves.
func GenerateSecret(size int) (Secret, error) {
	return GenerateSecretFrom(rand.Reader, size)
}

// GenerateSecretFrom returns size bytes read from r.
func GenerateSecretFrom(r io.Reader, size int) (Secret, error) {
	if size < MinSecretSize {
		return nil, fmt.Errorf("%w: secret size must be at least %d bytes", ErrInvalidConfig, MinSecretSize)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: no random source", ErrEntropyUnavailable)
	}

	secret := make(Secret, size)
	if _, err := io.ReadFull(r, secret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return secret, nil
}

// EncodeSecret encodes s with the standard Base32 alphabet, without padding.
func EncodeSecret(s Secret) string {
	return b32.EncodeToString(s)
}

// DecodeSecret parses Base32 secret text. Case is ignored, as is any
// whitespace (authenticator apps often display secrets in groups of four).
// Trailing '=' padding is tolerated.
func DecodeSecret(text string) (Secret, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		// ASCII only: unicode.ToUpper folds letters such as 'ı' and 'ſ'
		// onto the alphabet.
		if 'a' <= r && r <= 'z' {
			r -= 'a' - 'A'
		}
		return r
	}, text)
	clean = strings.TrimRight(clean, "=")

	if clean == "" {
		return nil, fmt.Errorf("%w: secret is empty", ErrInvalidEncoding)
	}
	// 1, 3 or 6 trailing characters carry fewer than 8 bits; the unpadded
	// decoder would silently drop them.
	switch len(clean) % 8 {
	case 1, 3, 6:
		return nil, fmt.Errorf("%w: length %d does not encode whole bytes", ErrInvalidEncoding, len(clean))
	}

	secret, err := b32.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return secret, nil
}
