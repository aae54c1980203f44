package utils

import (
	"crypto/rand"
	"math/big"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomToken(length int) string {
	token := make([]byte, length)
	for i := range token {
		token[i] = charset[randInt(len(charset))]
	}
	return string(token)
}

// GenerateOTPCode returns a zero-padded numeric code of the given length.
func GenerateOTPCode(digits int) string {
	code := make([]byte, digits)
	for i := range code {
		code[i] = byte('0' + randInt(10))
	}
	return string(code)
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}
