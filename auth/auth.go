// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAccessKey = errors.New("invalid access key")
	ErrWeakPassword     = errors.New("password does not meet strength requirements")
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAccessKey creates an HMAC-based access key for an account.
// This is deterministic and verifiable, so no server-side session state
// is needed: the key is recomputed and compared on every request.
func GenerateAccessKey(accountID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(accountID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAccessKey checks if the provided access key is valid for the account
func ValidateAccessKey(accountID, accessKey, salt string) error {
	expected := GenerateAccessKey(accountID, salt)
	if !hmac.Equal([]byte(accessKey), []byte(expected)) {
		return ErrInvalidAccessKey
	}
	return nil
}

// GenerateCode creates a uniformly random 6-digit one-time code.
// Leading zeros are allowed, so the code is a fixed-width string,
// never a number.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewVoterPublicID generates a public voter identifier.
// Format: VOTER_YYYYMMDD_NNNN, e.g. VOTER_20260127_3847.
// Assigned once at approval and immutable afterwards; uniqueness is
// enforced by the database, callers retry on collision.
func NewVoterPublicID(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate voter id: %w", err)
	}
	return fmt.Sprintf("VOTER_%s_%04d", now.Format("20060102"), n.Int64()), nil
}

// IsVoterPublicID reports whether the identifier matches the public
// voter id pattern. Used to pick the lookup field during the voting
// flow: pattern match wins over email lookup.
func IsVoterPublicID(identifier string) bool {
	return strings.HasPrefix(identifier, "VOTER_")
}

// HashPassword hashes a password with bcrypt at the default cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash against a candidate password
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces minimum password strength: at least 8
// characters with an upper-case letter, a lower-case letter, a digit,
// and a special character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	var upper, lower, digit, special bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune("!@#$%^&*()-_=+[]{}|;:,.<>?", c):
			special = true
		}
	}

	if !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}

// IsDigits reports whether s is exactly n characters long and all digits.
// Used for phone number and national id validation.
func IsDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
