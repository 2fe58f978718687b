package otp_test

import (
	"fmt"

	"github.com/jhahn/go-otp/pkg/otp"
)

func ExampleHOTP() {
	secret := otp.Secret("12345678901234567890")

	code, err := otp.HOTP(secret, 1, otp.DefaultOptions())
	if err != nil {
		panic(err)
	}
	fmt.Println(code)
	// Output: 287082
}

func ExampleVerify() {
	secret := otp.Secret("12345678901234567890")

	res, err := otp.Verify(secret, "980357", 1234567890, otp.DefaultOptions())
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Matched, res.Step)
	// Output: true -1
}

func ExampleProvisioningURI() {
	secret, err := otp.DecodeSecret("JBSW Y3DP EHPK 3PXP")
	if err != nil {
		panic(err)
	}

	uri, err := otp.ProvisioningURI(secret, "My App", "alice@example.com", otp.DefaultOptions())
	if err != nil {
		panic(err)
	}
	fmt.Println(uri)
	// Output: otpauth://totp/My%20App:alice%40example.com?secret=JBSWY3DPEHPK3PXP&issuer=My%20App&algorithm=SHA1&digits=6&period=30
}
