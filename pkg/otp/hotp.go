package otp

import (
	"crypto/hmac"
	"encoding/binary"
	"fmt"
	"hash"
)

// HOTP computes the RFC 4226 code for secret at counter. Only the
// Algorithm and Digits fields of opts are used.
func HOTP(secret Secret, counter uint64, opts Options) (string, error) {
	p, err := opts.resolve()
	if err != nil {
		return "", err
	}
	return p.code(secret, counter), nil
}

func (p params) code(secret Secret, counter uint64) string {
	return format(truncate(sum(p.newHash, secret, counter))%p.modulus, p.digits)
}

// sum returns HMAC(secret, counter) with the counter as 8 big-endian bytes.
func sum(newHash func() hash.Hash, secret Secret, counter uint64) []byte {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(newHash, secret)
	mac.Write(msg[:])
	return mac.Sum(nil)
}

// truncate implements RFC 4226 dynamic truncation: the low nibble of the
// last byte selects four bytes, read big-endian with the top bit cleared.
func truncate(digest []byte) uint32 {
	offset := digest[len(digest)-1] & 0x0f
	return binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7fffffff
}

func format(code uint32, digits uint) string {
	return fmt.Sprintf("%0*d", int(digits), code)
}
