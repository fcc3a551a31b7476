// Package stringutil provides some string based helpers.
package stringutil

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const randomStringChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SecureRandomString generates a random string of length n using the crypto rand source.
func SecureRandomString(n int) string {
	buf := make([]byte, n)

	for i := range buf {
		idx, errInt := rand.Int(rand.Reader, big.NewInt(int64(len(randomStringChars))))
		if errInt != nil {
			panic(errInt)
		}

		buf[i] = randomStringChars[idx.Int64()]
	}

	return string(buf)
}

// StringToIntOrZero handles converting a string to an integer that is within 32bit bounds.
// Returns 0 on an out of bounds or invalid value.
func StringToIntOrZero(desired string) int {
	parsed, err := strconv.ParseInt(desired, 10, 32)
	if err != nil {
		return 0
	}

	return int(parsed)
}
