package otp

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// TestProvisioningURI tests the exact URI layout
func TestProvisioningURI(t *testing.T) {
	uri, err := ProvisioningURI(rfc6238SHA1, "MyApp", "user@example.com", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "otpauth://totp/MyApp:user%40example.com" +
		"?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ" +
		"&issuer=MyApp&algorithm=SHA1&digits=6&period=30"
	if uri != want {
		t.Errorf("expected %s, got %s", want, uri)
	}
}

// TestProvisioningURIOptions tests that options are reflected in the URI
func TestProvisioningURIOptions(t *testing.T) {
	uri, err := ProvisioningURI(rfc6238SHA512, "Acme Corp", "bob smith", Options{
		Algorithm: AlgorithmSHA512,
		Digits:    8,
		Period:    60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(uri, "otpauth://totp/Acme%20Corp:bob%20smith?secret=") {
		t.Errorf("unexpected label in %s", uri)
	}
	if !strings.HasSuffix(uri, "&issuer=Acme%20Corp&algorithm=SHA512&digits=8&period=60") {
		t.Errorf("unexpected parameters in %s", uri)
	}
}

// TestEscape tests RFC 3986 percent-encoding of label segments
func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MyApp", "MyApp"},
		{"user@example.com", "user%40example.com"},
		{"My App", "My%20App"},
		{"a:b", "a%3Ab"},
		{"x+y", "x%2By"},
		{"a-b._~", "a-b._~"},
		{"/?#&=", "%2F%3F%23%26%3D"},
		{"ü", "%C3%BC"},
	}

	for _, tt := range tests {
		if got := escape(tt.in); got != tt.want {
			t.Errorf("escape(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

// TestProvisioningURIErrors tests label and configuration errors
func TestProvisioningURIErrors(t *testing.T) {
	tests := []struct {
		name    string
		secret  Secret
		issuer  string
		account string
		opts    Options
		wantErr error
	}{
		{"empty issuer", rfc6238SHA1, "", "user@example.com", Options{}, ErrInvalidLabel},
		{"empty account", rfc6238SHA1, "MyApp", "", Options{}, ErrInvalidLabel},
		{"empty secret", nil, "MyApp", "user@example.com", Options{}, ErrInvalidConfig},
		{"bad digits", rfc6238SHA1, "MyApp", "user@example.com", Options{Digits: 4}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := ProvisioningURI(tt.secret, tt.issuer, tt.account, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if uri != "" {
				t.Errorf("expected empty uri, got %s", uri)
			}
		})
	}
}

// TestParseKeyURI tests parsing provisioning URIs back into keys
func TestParseKeyURI(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		wantIssuer  string
		wantAccount string
		wantSecret  Secret
		wantOpts    Options
	}{
		{
			name:        "built uri",
			uri:         "otpauth://totp/MyApp:user%40example.com?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ&issuer=MyApp&algorithm=SHA1&digits=6&period=30",
			wantIssuer:  "MyApp",
			wantAccount: "user@example.com",
			wantSecret:  rfc6238SHA1,
			wantOpts:    DefaultOptions(),
		},
		{
			name:        "unescaped label and sorted parameters",
			uri:         "otpauth://totp/example.com:foo@example.com?algorithm=SHA256&digits=8&issuer=example.com&period=60&secret=JBSWY3DPEHPK3PXP",
			wantIssuer:  "example.com",
			wantAccount: "foo@example.com",
			wantSecret:  Secret("Hello!\xde\xad\xbe\xef"),
			wantOpts:    Options{Algorithm: AlgorithmSHA256, Digits: 8, Period: 60, Window: 1},
		},
		{
			name:        "issuer only in parameters",
			uri:         "otpauth://totp/alice?secret=jbswy3dpehpk3pxp&issuer=Acme",
			wantIssuer:  "Acme",
			wantAccount: "alice",
			wantSecret:  Secret("Hello!\xde\xad\xbe\xef"),
			wantOpts:    DefaultOptions(),
		},
		{
			name:        "escaped colon in issuer",
			uri:         "otpauth://totp/Acme%3ACorp:bob?secret=JBSWY3DPEHPK3PXP&issuer=Acme%3ACorp",
			wantIssuer:  "Acme:Corp",
			wantAccount: "bob",
			wantSecret:  Secret("Hello!\xde\xad\xbe\xef"),
			wantOpts:    DefaultOptions(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseKeyURI(tt.uri)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if key.Issuer != tt.wantIssuer {
				t.Errorf("expected issuer %q, got %q", tt.wantIssuer, key.Issuer)
			}
			if key.AccountName != tt.wantAccount {
				t.Errorf("expected account %q, got %q", tt.wantAccount, key.AccountName)
			}
			if !bytes.Equal(key.Secret, tt.wantSecret) {
				t.Error("unexpected secret")
			}
			if key.Options != tt.wantOpts {
				t.Errorf("expected options %+v, got %+v", tt.wantOpts, key.Options)
			}
		})
	}
}

// TestParseKeyURIRoundTrip tests that a parsed key rebuilds the same URI
func TestParseKeyURIRoundTrip(t *testing.T) {
	for _, issuer := range []string{"MyApp", "Acme Corp", "Acme:Corp", "a+b/c"} {
		uri, err := ProvisioningURI(rfc6238SHA256, issuer, "user@example.com", Options{Algorithm: AlgorithmSHA256, Digits: 7})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		key, err := ParseKeyURI(uri)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", issuer, err)
		}
		if key.Issuer != issuer {
			t.Errorf("expected issuer %q, got %q", issuer, key.Issuer)
		}
		rebuilt, err := key.URI()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rebuilt != uri {
			t.Errorf("expected %s, got %s", uri, rebuilt)
		}
	}
}

// TestParseKeyURIErrors tests malformed provisioning URIs
func TestParseKeyURIErrors(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr error
	}{
		{"wrong scheme", "https://totp/a:b?secret=JBSWY3DPEHPK3PXP", ErrInvalidURI},
		{"hotp key", "otpauth://hotp/a:b?secret=JBSWY3DPEHPK3PXP&counter=1", ErrInvalidURI},
		{"missing secret", "otpauth://totp/a:b?issuer=a", ErrInvalidEncoding},
		{"bad secret", "otpauth://totp/a:b?secret=!!!!", ErrInvalidEncoding},
		{"bad digits", "otpauth://totp/a:b?secret=JBSWY3DPEHPK3PXP&digits=4", ErrInvalidConfig},
		{"non numeric digits", "otpauth://totp/a:b?secret=JBSWY3DPEHPK3PXP&digits=six", ErrInvalidURI},
		{"zero period", "otpauth://totp/a:b?secret=JBSWY3DPEHPK3PXP&period=0", ErrInvalidURI},
		{"bad algorithm", "otpauth://totp/a:b?secret=JBSWY3DPEHPK3PXP&algorithm=MD5", ErrInvalidConfig},
		{"issuer mismatch", "otpauth://totp/a:b?secret=JBSWY3DPEHPK3PXP&issuer=c", ErrInvalidURI},
		{"unparseable", "otpauth://totp/%zz", ErrInvalidURI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseKeyURI(tt.uri)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if key != nil {
				t.Error("expected nil key")
			}
		})
	}

	var nilKey *Key
	if _, err := nilKey.URI(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
