package otp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
)

// Algorithm represents the HMAC hash function used for code generation.
type Algorithm string

const (
	// AlgorithmSHA1 uses SHA1. It is the RFC default and the only algorithm
	// every authenticator app supports.
	AlgorithmSHA1 Algorithm = "SHA1"
	// AlgorithmSHA256 uses SHA256.
	AlgorithmSHA256 Algorithm = "SHA256"
	// AlgorithmSHA512 uses SHA512.
	AlgorithmSHA512 Algorithm = "SHA512"
)

const (
	// DefaultDigits is the code length used when Options.Digits is zero.
	DefaultDigits = 6
	// DefaultPeriod is the TOTP time step in seconds used when Options.Period is zero.
	DefaultPeriod = 30
	// DefaultWindow is the drift window set by DefaultOptions.
	DefaultWindow = 1
	// MaxWindow bounds the drift window. Each extra step widens the replay
	// and brute-force surface by two codes.
	MaxWindow = 10

	minDigits = 6
	maxDigits = 8
)

// ParseAlgorithm converts a case-insensitive algorithm name into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToUpper(strings.TrimSpace(s))) {
	case AlgorithmSHA1:
		return AlgorithmSHA1, nil
	case AlgorithmSHA256:
		return AlgorithmSHA256, nil
	case AlgorithmSHA512:
		return AlgorithmSHA512, nil
	}
	return "", fmt.Errorf("%w: algorithm must be SHA1, SHA256, or SHA512", ErrInvalidConfig)
}

// Hash returns the hash constructor for the algorithm.
func (a Algorithm) Hash() (func() hash.Hash, error) {
	switch a {
	case AlgorithmSHA1:
		return sha1.New, nil
	case AlgorithmSHA256:
		return sha256.New, nil
	case AlgorithmSHA512:
		return sha512.New, nil
	}
	return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidConfig, string(a))
}

// String returns the algorithm name as used in provisioning URIs.
func (a Algorithm) String() string {
	return string(a)
}

// Options controls code generation and verification.
//
// Zero Algorithm, Digits and Period fields fall back to SHA1, 6 and 30.
// Window is used as given: zero accepts only the current step. Use
// DefaultOptions for the usual one-step drift tolerance.
type Options struct {
	// Algorithm is the HMAC hash function.
	Algorithm Algorithm
	// Digits is the code length (6, 7, or 8).
	Digits uint
	// Period is the TOTP time step in seconds.
	Period uint
	// Window is the number of steps checked on each side of the current
	// one during verification. Larger windows tolerate more clock skew at
	// the cost of accepting more codes at any instant.
	Window uint
}

// DefaultOptions returns SHA1, 6 digits, a 30 second period and a window of 1.
func DefaultOptions() Options {
	return Options{
		Algorithm: AlgorithmSHA1,
		Digits:    DefaultDigits,
		Period:    DefaultPeriod,
		Window:    DefaultWindow,
	}
}

func (o Options) withDefaults() Options {
	if o.Algorithm == "" {
		o.Algorithm = AlgorithmSHA1
	}
	if o.Digits == 0 {
		o.Digits = DefaultDigits
	}
	if o.Period == 0 {
		o.Period = DefaultPeriod
	}
	return o
}

// Validate reports whether the options, after defaults, are usable.
func (o Options) Validate() error {
	_, err := o.resolve()
	return err
}

// params is a validated, ready-to-use form of Options.
type params struct {
	newHash   func() hash.Hash
	algorithm Algorithm
	digits    uint
	modulus   uint32
	period    uint64
	window    uint
}

func (o Options) resolve() (params, error) {
	o = o.withDefaults()

	if o.Digits < minDigits || o.Digits > maxDigits {
		return params{}, fmt.Errorf("%w: digits must be 6, 7, or 8", ErrInvalidConfig)
	}
	if o.Window > MaxWindow {
		return params{}, fmt.Errorf("%w: window must not exceed %d", ErrInvalidConfig, MaxWindow)
	}
	newHash, err := o.Algorithm.Hash()
	if err != nil {
		return params{}, err
	}

	modulus := uint32(1)
	for i := uint(0); i < o.Digits; i++ {
		modulus *= 10
	}

	return params{
		newHash:   newHash,
		algorithm: o.Algorithm,
		digits:    o.Digits,
		modulus:   modulus,
		period:    uint64(o.Period),
		window:    o.Window,
	}, nil
}
