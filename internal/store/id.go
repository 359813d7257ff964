package store

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Suffix alphabet omits 0/O/1/I to keep the numbers readable on paper forms.
const idAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const idSuffixLen = 6

// GenerateNumber builds a human-readable registration identifier like
// "M2026-K7Q3ZD": prefix, current year, random suffix.
func GenerateNumber(prefix string) (string, error) {
	suffix := make([]byte, idSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(idAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate number: %w", err)
		}
		suffix[i] = idAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s%d-%s", prefix, time.Now().Year(), string(suffix)), nil
}
