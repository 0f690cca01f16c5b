package utils

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed length of report verification codes.
const CodeLength = 6

// GenerateVerificationCode returns a random uppercase alphanumeric secret
// used to mark a report claimed or recovered.
func GenerateVerificationCode() string {
	code := make([]byte, CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process has bigger problems.
			panic(err)
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}
