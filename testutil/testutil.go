// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"ballotbox/auth"
	"ballotbox/cliparse"
	"ballotbox/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// A single connection keeps SQLite's writer serialization from
// surfacing as lock errors in concurrent tests.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          4270,
		DatabaseType:  "sqlite",
		AccessKeySalt: "test-access-salt",
		CodeTTL:       10 * time.Minute,
	}
}

// TestPassword satisfies the registration strength rules
const TestPassword = "Sw0rdfish!"

// CreateTestAccount inserts an account with a bcrypt-hashed TestPassword
// and returns its ID.
func CreateTestAccount(t *testing.T, conn *sql.DB, email, name, role string) string {
	t.Helper()

	accountID, _ := auth.GenerateID(16)
	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	_, err = conn.Exec(`
		INSERT INTO user_account (id, email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, accountID, email, name, role, hash, now, now)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return accountID
}

// CreateTestVoter creates an account plus voter profile. Approved
// voters get a public id assigned. Returns the voter row id and the
// public id (empty unless approved).
func CreateTestVoter(t *testing.T, conn *sql.DB, email, nationalID, status string) (voterID, publicID string) {
	t.Helper()

	accountID := CreateTestAccount(t, conn, email, "Test Voter", "voter")
	voterID, _ = auth.GenerateID(16)

	var pubID *string
	if status == "approved" {
		p, err := auth.NewVoterPublicID(time.Now())
		if err != nil {
			t.Fatalf("Failed to generate public id: %v", err)
		}
		pubID = &p
		publicID = p
	}

	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO voter (id, user_id, public_id, phone_number, national_id, status, is_approved, has_voted, created_at, updated_at)
		VALUES ($1, $2, $3, '5550001234', $4, $5, $6, FALSE, $7, $8)
	`, voterID, accountID, pubID, nationalID, status, status == "approved", now, now)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterID, publicID
}

// CreateTestCandidate creates an account plus candidate nomination and
// returns the candidate row id.
func CreateTestCandidate(t *testing.T, conn *sql.DB, email, name, party string, approved bool) string {
	t.Helper()

	accountID := CreateTestAccount(t, conn, email, name, "candidate")
	candidateID, _ := auth.GenerateID(16)

	status := "pending"
	if approved {
		status = "approved"
	}

	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, user_id, party, nomination_status, is_approved, total_votes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
	`, candidateID, accountID, party, status, approved, now, now)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// CreateTestAdmin creates an admin account and returns its id together
// with a valid access key for the test config salt.
func CreateTestAdmin(t *testing.T, conn *sql.DB, cfg cliparse.Config) (accountID, accessKey string) {
	t.Helper()

	accountID = CreateTestAccount(t, conn, "admin@example.com", "Test Admin", "admin")
	accessKey = auth.GenerateAccessKey(accountID, cfg.AccessKeySalt)
	return accountID, accessKey
}

// InsertTestCode inserts a one-time code row directly, bypassing the
// verifier. Useful for expiry scenarios.
func InsertTestCode(t *testing.T, conn *sql.DB, voterID, code string, createdAt, expiresAt time.Time, verified bool) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO otp_code (id, voter_id, code, verified, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, voterID, code, verified, createdAt, expiresAt)
	if err != nil {
		t.Fatalf("Failed to create test code: %v", err)
	}

	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
