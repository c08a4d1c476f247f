package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Alphabet without lookalike characters (0/O, 1/I) so codes survive being
// read aloud or retyped from a printed certificate.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateVerificationCode returns a code like "K7QD-P2MX-9RFA". Uniqueness is
// enforced by the database index, not here.
func GenerateVerificationCode() string {
	var b strings.Builder
	for group := 0; group < 3; group++ {
		if group > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < 4; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			if err != nil {
				// crypto/rand failing means the platform is broken; there is
				// nothing sensible to fall back to.
				panic(err)
			}
			b.WriteByte(codeAlphabet[n.Int64()])
		}
	}
	return b.String()
}
