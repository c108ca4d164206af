// Package shared provides small helpers for one-time codes and for wiping
// secrets from memory.
package shared

import (
	"crypto/rand"
	"math/big"
)

const digits = "0123456789"

// RandomDigits returns a string of n uniformly random decimal digits.
//
// It returns an error if the random number generator fails.
func RandomDigits(n int) (string, error) {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(digits)))
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = digits[v.Int64()]
	}
	return string(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// It is used to drop passwords read from the terminal once they have been
// sent.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
