// Package validation holds the pure input checks and the expiry arithmetic used
// when shortening and resolving links.
package validation

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// Alphabet is the 62-character set shortcodes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// DefaultShortcodeLength is used when no explicit length is given.
	DefaultShortcodeLength = 6

	// DefaultValidityMinutes applies when the validity input is blank.
	DefaultValidityMinutes = 30

	// MaxValidityMinutes caps the validity window at one hundred years.
	MaxValidityMinutes = 100 * 365 * 24 * 60
)

// IsValidURL reports whether s parses as an absolute URL with a scheme.
func IsValidURL(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != "" || strings.HasPrefix(u.Path, "/")
}

// IsValidPositiveInteger reports whether s is a base-10 integer greater than zero.
// Signs, whitespace and decimal points are rejected.
func IsValidPositiveInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

// IsAlphanumeric reports whether s is non-empty and made only of [A-Za-z0-9].
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// GenerateShortcode draws length characters uniformly from Alphabet.
// The result is not guaranteed to be unique; the store rejects collisions.
func GenerateShortcode(src RandSource, length int) string {
	if length <= 0 {
		length = DefaultShortcodeLength
	}
	code := make([]byte, length)
	for i := range code {
		code[i] = Alphabet[src.IntN(len(Alphabet))]
	}
	return string(code)
}

// ParseValidityMinutes converts the raw validity input into minutes.
// A blank input yields DefaultValidityMinutes; ok is false for anything that is
// not a positive integer or that exceeds MaxValidityMinutes.
func ParseValidityMinutes(s string) (minutes int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultValidityMinutes, true
	}
	if !IsValidPositiveInteger(s) {
		return 0, false
	}
	n, _ := strconv.Atoi(s)
	if n > MaxValidityMinutes {
		return 0, false
	}
	return n, true
}

// ComputeExpiry returns createdAt plus the validity window.
// A non-positive validity falls back to DefaultValidityMinutes and anything
// above MaxValidityMinutes is clamped to it.
func ComputeExpiry(createdAt time.Time, validityMinutes int) time.Time {
	if validityMinutes <= 0 {
		validityMinutes = DefaultValidityMinutes
	}
	if validityMinutes > MaxValidityMinutes {
		validityMinutes = MaxValidityMinutes
	}
	return createdAt.Add(time.Duration(validityMinutes) * time.Minute)
}

// IsExpired reports whether now is strictly after expiry.
func IsExpired(expiry, now time.Time) bool {
	return now.After(expiry)
}
