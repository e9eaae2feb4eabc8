// Package common provides utility functions shared by the auth service:
// random hex strings and short verification codes.
package common

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// CodeAlphabet is the unambiguous alphabet used for recovery codes.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter is the number of random bytes, so the resulting string
// is twice as long. It returns an error if the random generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeRandCode generates a fixed-length code drawn from CodeAlphabet using
// crypto/rand. Used for recovery/email-verification codes.
func MakeRandCode(length int) (string, error) {
	max := big.NewInt(int64(len(CodeAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = CodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
