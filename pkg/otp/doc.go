// Package otp implements HOTP (RFC 4226) and TOTP (RFC 6238) one-time
// passwords, Base32 secret handling, and otpauth:// provisioning URIs.
//
// The engine is a set of pure functions: callers pass the secret, the
// counter or Unix time, and Options explicitly on every call. Nothing in
// the package reads the clock except the optional Authenticator adapter,
// and nothing is logged.
//
// # Enrollment
//
// Generate a secret, store its Base32 form, and show the URI as a QR code:
//
//	secret, err := otp.GenerateSecret(otp.DefaultSecretSize)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stored := secret.Encode() // persist this, never the raw bytes
//
//	uri, err := otp.ProvisioningURI(secret, "MyApp", "user@example.com", otp.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Render uri as a QR code, or show stored for manual entry
//
// # Verification
//
// Build a Verifier once at startup so configuration errors surface early,
// then verify submitted codes:
//
//	verifier, err := otp.NewVerifier(otp.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	secret, err := otp.DecodeSecret(stored)
//	if err != nil {
//	    return err
//	}
//	res, err := verifier.Verify(secret, strings.TrimSpace(code), time.Now().Unix())
//	if err != nil {
//	    return err
//	}
//	if !res.Matched {
//	    // wrong or expired code; not an error
//	}
//	// res.Step is the clock drift in periods
//
// # Drift Window
//
// Options.Window sets how many periods on each side of the current one are
// accepted. A window of 1 (the default from DefaultOptions) accepts three
// codes at any instant; each additional step adds two more, which widens
// both the replay and the brute-force surface. Windows above MaxWindow are
// rejected rather than clamped.
//
// # Replay Protection
//
// The engine does not remember accepted codes, so a code stays valid for
// the whole window and can be submitted more than once. Callers that need
// single use should store Result.Counter for the account and reject any
// later result whose Counter is not greater. Attempt limits and lockout
// are likewise left to the caller.
//
// # Hash Algorithms
//
// The package supports multiple hash algorithms:
//   - AlgorithmSHA1 (default, widely supported)
//   - AlgorithmSHA256
//   - AlgorithmSHA512
//
// Note that not all authenticator apps support SHA256 and SHA512.
//
// # Thread Safety
//
// All functions are safe for concurrent use. Verifier and Authenticator
// values are immutable after construction.
package otp
