package validation

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
)

// RandSource yields uniform integers in [0, n). *math/rand/v2.Rand satisfies it,
// which lets tests inject a seeded or scripted source.
type RandSource interface {
	IntN(n int) int
}

// CryptoSource draws from crypto/rand. It is the default source for shortcodes
// and fabricated click analytics.
type CryptoSource struct{}

// IntN returns a uniform integer in [0, n) using crypto/rand.
// If the system entropy source fails, it falls back to math/rand/v2.
func (CryptoSource) IntN(n int) int {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mathrand.IntN(n)
	}
	return int(num.Int64())
}
