package utils

import (
	"crypto/rand"
	"fmt"
)

const (
	keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keyLength   = 48
	// largest multiple of len(keyAlphabet) below 256; bytes at or above it are redrawn
	keyByteLimit = 256 - 256%len(keyAlphabet)
)

// GenerateKey returns prefix followed by 48 random base62 characters.
func GenerateKey(prefix string) (string, error) {
	out := make([]byte, 0, len(prefix)+keyLength)
	out = append(out, prefix...)

	buf := make([]byte, keyLength)
	for len(out) < len(prefix)+keyLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= keyByteLimit {
				continue
			}
			out = append(out, keyAlphabet[int(b)%len(keyAlphabet)])
			if len(out) == len(prefix)+keyLength {
				break
			}
		}
	}
	return string(out), nil
}
