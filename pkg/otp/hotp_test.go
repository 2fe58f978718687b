package otp

import (
	"encoding/hex"
	"errors"
	"testing"
)

// RFC 4226 Appendix D reference secret.
var rfc4226Secret = Secret("12345678901234567890")

// TestHOTPRFC4226 checks the RFC 4226 Appendix D test vectors
func TestHOTPRFC4226(t *testing.T) {
	want := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}

	for counter, code := range want {
		got, err := HOTP(rfc4226Secret, uint64(counter), Options{})
		if err != nil {
			t.Fatalf("counter %d: unexpected error: %v", counter, err)
		}
		if got != code {
			t.Errorf("counter %d: expected %s, got %s", counter, code, got)
		}
	}
}

// TestTruncate checks dynamic truncation against the RFC 4226 section 5.4 example
func TestTruncate(t *testing.T) {
	digest, err := hex.DecodeString("1f8698690e02ca16618550ef7f19da8e945b555a")
	if err != nil {
		t.Fatal(err)
	}

	if got := truncate(digest); got != 0x50ef7f19 {
		t.Errorf("expected 0x50ef7f19, got %#x", got)
	}
	if got := truncate(digest) % 1000000; got != 872921 {
		t.Errorf("expected 872921, got %d", got)
	}
}

// TestHOTPDigits tests code width and zero padding
func TestHOTPDigits(t *testing.T) {
	tests := []struct {
		digits uint
		want   string
	}{
		{6, "287082"},
		{7, "4287082"},
		{8, "94287082"},
	}

	for _, tt := range tests {
		got, err := HOTP(rfc4226Secret, 1, Options{Digits: tt.digits})
		if err != nil {
			t.Fatalf("digits %d: unexpected error: %v", tt.digits, err)
		}
		if got != tt.want {
			t.Errorf("digits %d: expected %s, got %s", tt.digits, tt.want, got)
		}
	}

	if got := format(42, 6); got != "000042" {
		t.Errorf("expected zero padded code, got %s", got)
	}
}

// TestHOTPInvalidConfig tests configuration errors
func TestHOTPInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"five digits", Options{Digits: 5}},
		{"nine digits", Options{Digits: 9}},
		{"unknown algorithm", Options{Algorithm: "MD5"}},
		{"lowercase algorithm", Options{Algorithm: "sha1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := HOTP(rfc4226Secret, 0, tt.opts)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if code != "" {
				t.Errorf("expected empty code, got %s", code)
			}
		})
	}
}
