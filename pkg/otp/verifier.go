package otp

import (
	"crypto/subtle"
	"math"
)

// Result is the outcome of a verification. A rejected code is a normal
// Result with Matched set to false, never an error.
type Result struct {
	// Matched reports whether the code was accepted.
	Matched bool
	// Step is the signed offset between the matching counter and the
	// expected one. It is only meaningful when Matched is true and lets the
	// caller track clock drift.
	Step int
	// Counter is the counter value that produced the matching code. Callers
	// that want replay protection store it and reject codes at or below it.
	Counter uint64
}

// Verifier checks submitted codes against a drift window. It holds only
// validated configuration and is safe for concurrent use.
type Verifier struct {
	p params
}

// NewVerifier validates opts once so that later calls cannot fail on
// configuration.
func NewVerifier(opts Options) (Verifier, error) {
	p, err := opts.resolve()
	if err != nil {
		return Verifier{}, err
	}
	return Verifier{p: p}, nil
}

// Options returns the resolved options the verifier was built with.
func (v Verifier) Options() Options {
	return Options{
		Algorithm: v.p.algorithm,
		Digits:    v.p.digits,
		Period:    uint(v.p.period),
		Window:    v.p.window,
	}
}

// Verify checks code against the TOTP counters around now (Unix seconds).
//
// Offsets are tried nearest first (0, -1, +1, -2, +2, ...), so the reported
// Step is the smallest drift that matches. Only a negative now is an error.
func (v Verifier) Verify(secret Secret, code string, now int64) (Result, error) {
	current, err := v.p.counter(now)
	if err != nil {
		return Result{}, err
	}
	if !v.p.wellFormed(code) {
		return Result{}, nil
	}

	for _, step := range offsets(v.p.window) {
		counter, ok := shift(current, step)
		if !ok {
			continue
		}
		if v.p.equal(secret, counter, code) {
			return Result{Matched: true, Step: step, Counter: counter}, nil
		}
	}
	return Result{}, nil
}

// VerifyHOTP checks code against counter and up to Window counters after
// it (the RFC 4226 look-ahead window). Step reports how far ahead the
// match was; the caller stores Counter+1 as the next expected counter.
func (v Verifier) VerifyHOTP(secret Secret, code string, counter uint64) Result {
	if !v.p.wellFormed(code) {
		return Result{}
	}

	for step := 0; step <= int(v.p.window); step++ {
		c, ok := shift(counter, step)
		if !ok {
			break
		}
		if v.p.equal(secret, c, code) {
			return Result{Matched: true, Step: step, Counter: c}
		}
	}
	return Result{}
}

// Verify is a one-shot form of NewVerifier(opts).Verify.
func Verify(secret Secret, code string, now int64, opts Options) (Result, error) {
	v, err := NewVerifier(opts)
	if err != nil {
		return Result{}, err
	}
	return v.Verify(secret, code, now)
}

// VerifyHOTP is a one-shot form of NewVerifier(opts).VerifyHOTP.
func VerifyHOTP(secret Secret, code string, counter uint64, opts Options) (Result, error) {
	v, err := NewVerifier(opts)
	if err != nil {
		return Result{}, err
	}
	return v.VerifyHOTP(secret, code, counter), nil
}

// wellFormed reports whether code is exactly digits ASCII decimal characters.
func (p params) wellFormed(code string) bool {
	if uint(len(code)) != p.digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func (p params) equal(secret Secret, counter uint64, code string) bool {
	expected := p.code(secret, counter)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1
}

// offsets returns 0, -1, 1, -2, 2, ... up to ±window.
func offsets(window uint) []int {
	out := make([]int, 0, 2*window+1)
	out = append(out, 0)
	for i := 1; i <= int(window); i++ {
		out = append(out, -i, i)
	}
	return out
}

// shift applies a signed step to counter, reporting false on under- or overflow.
func shift(counter uint64, step int) (uint64, bool) {
	if step < 0 {
		d := uint64(-step)
		if d > counter {
			return 0, false
		}
		return counter - d, true
	}
	d := uint64(step)
	if counter > math.MaxUint64-d {
		return 0, false
	}
	return counter + d, true
}
