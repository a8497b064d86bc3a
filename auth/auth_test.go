// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAccessKey(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		salt      string
	}{
		{"standard", "account123", "secret-salt"},
		{"empty account id", "", "salt"},
		{"empty salt", "account456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAccessKey(tt.accountID, tt.salt)

			// Should not be empty
			if key == "" {
				t.Error("GenerateAccessKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAccessKey(tt.accountID, tt.salt)
			if key != key2 {
				t.Error("GenerateAccessKey() is not deterministic")
			}

			// Different inputs should produce different keys
			if tt.accountID != "" && tt.salt != "" {
				differentKey := GenerateAccessKey(tt.accountID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAccessKey() produced same key for different accounts")
				}
			}

			// Should be URL-safe (no padding)
			if strings.Contains(key, "=") {
				t.Error("GenerateAccessKey() contains padding characters")
			}
		})
	}
}

func TestValidateAccessKey(t *testing.T) {
	accountID := "test-account-123"
	salt := "test-salt"
	validKey := GenerateAccessKey(accountID, salt)

	tests := []struct {
		name      string
		accountID string
		accessKey string
		salt      string
		wantErr   bool
	}{
		{"valid key", accountID, validKey, salt, false},
		{"wrong key", accountID, "wrong-key", salt, true},
		{"wrong account id", "different-account", validKey, salt, true},
		{"wrong salt", accountID, validKey, "different-salt", true},
		{"empty key", accountID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccessKey(tt.accountID, tt.accessKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAccessKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAccessKey {
				t.Errorf("ValidateAccessKey() error = %v, want %v", err, ErrInvalidAccessKey)
			}
		})
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("GenerateCode() length = %d, want %d (code %q)", len(code), CodeLength, code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("GenerateCode() contains non-digit: %q", code)
			}
		}
	}
}

func TestNewVoterPublicID(t *testing.T) {
	now := time.Date(2026, 1, 27, 12, 0, 0, 0, time.UTC)

	id, err := NewVoterPublicID(now)
	if err != nil {
		t.Fatalf("NewVoterPublicID() error = %v", err)
	}

	if !strings.HasPrefix(id, "VOTER_20260127_") {
		t.Errorf("NewVoterPublicID() = %q, want VOTER_20260127_ prefix", id)
	}
	if len(id) != len("VOTER_20260127_0000") {
		t.Errorf("NewVoterPublicID() length = %d, want %d", len(id), len("VOTER_20260127_0000"))
	}
	if !IsVoterPublicID(id) {
		t.Errorf("IsVoterPublicID(%q) = false, want true", id)
	}
}

func TestIsVoterPublicID(t *testing.T) {
	tests := []struct {
		identifier string
		want       bool
	}{
		{"VOTER_20260127_3847", true},
		{"VOTER_anything", true},
		{"voter_20260127_3847", false},
		{"someone@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsVoterPublicID(tt.identifier); got != tt.want {
			t.Errorf("IsVoterPublicID(%q) = %v, want %v", tt.identifier, got, tt.want)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Sw0rdfish!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "Sw0rdfish!" {
		t.Error("HashPassword() returned plaintext")
	}
	if !CheckPassword(hash, "Sw0rdfish!") {
		t.Error("CheckPassword() rejected correct password")
	}
	if CheckPassword(hash, "sw0rdfish!") {
		t.Error("CheckPassword() accepted wrong password")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sw0rdfish!", false},
		{"too short", "Ab1!", true},
		{"no upper", "sw0rdfish!", true},
		{"no lower", "SW0RDFISH!", true},
		{"no digit", "Swordfish!", true},
		{"no special", "Sw0rdfish1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want bool
	}{
		{"5550001234", 10, true},
		{"555000123", 10, false},
		{"555000123a", 10, false},
		{"123456789012", 12, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		if got := IsDigits(tt.s, tt.n); got != tt.want {
			t.Errorf("IsDigits(%q, %d) = %v, want %v", tt.s, tt.n, got, tt.want)
		}
	}
}
