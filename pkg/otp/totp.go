package otp

import "fmt"

// Counter returns the RFC 6238 time step index floor(timestamp/period).
func Counter(timestamp int64, period uint) (uint64, error) {
	if period == 0 {
		return 0, fmt.Errorf("%w: period must be greater than zero", ErrInvalidConfig)
	}
	if timestamp < 0 {
		return 0, fmt.Errorf("%w: timestamp must not be negative", ErrInvalidConfig)
	}
	return uint64(timestamp) / uint64(period), nil
}

// TOTP computes the RFC 6238 code for secret at the given Unix time.
// The timestamp is always supplied by the caller; TOTP never reads the clock.
// Zero Algorithm, Digits and Period fields in opts mean the defaults (SHA1,
// 6 and 30 seconds); call Counter directly to reject a zero period.
func TOTP(secret Secret, timestamp int64, opts Options) (string, error) {
	p, err := opts.resolve()
	if err != nil {
		return "", err
	}
	counter, err := p.counter(timestamp)
	if err != nil {
		return "", err
	}
	return p.code(secret, counter), nil
}

func (p params) counter(timestamp int64) (uint64, error) {
	if timestamp < 0 {
		return 0, fmt.Errorf("%w: timestamp must not be negative", ErrInvalidConfig)
	}
	return uint64(timestamp) / p.period, nil
}
