// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"ballotbox/auth"
	"ballotbox/election"
	"ballotbox/models"
	"ballotbox/testutil"
)

func newRegistrationHandler(conn *sql.DB) *RegistrationHandler {
	return NewRegistrationHandler(conn, testutil.GetTestConfig(), election.NewLedger(conn))
}

func validVoterRequest() models.RegisterVoterRequest {
	return models.RegisterVoterRequest{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Password:    testutil.TestPassword,
		PhoneNumber: "5550001234",
		NationalID:  "123456789012",
	}
}

func TestRegisterVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	req := testutil.MakeRequest("POST", "/auth/register-voter", validVoterRequest(), nil)
	w := httptest.NewRecorder()
	h.RegisterVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.RegisterResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.AccountID == "" {
		t.Error("expected account_id in response")
	}

	// Voter profile exists and awaits approval
	var status string
	var isApproved bool
	var publicID sql.NullString
	err := conn.QueryRow(`
		SELECT status, is_approved, public_id FROM voter WHERE user_id = $1
	`, resp.AccountID).Scan(&status, &isApproved, &publicID)
	if err != nil {
		t.Fatalf("voter row missing: %v", err)
	}
	if status != "pending" || isApproved {
		t.Errorf("new voter status = %s, is_approved = %v, want pending/false", status, isApproved)
	}
	if publicID.Valid {
		t.Error("public id assigned before approval")
	}
}

func TestRegisterVoterValidation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	tests := []struct {
		name   string
		mutate func(*models.RegisterVoterRequest)
	}{
		{"missing name", func(r *models.RegisterVoterRequest) { r.Name = "" }},
		{"missing email", func(r *models.RegisterVoterRequest) { r.Email = "" }},
		{"bad email", func(r *models.RegisterVoterRequest) { r.Email = "not-an-email" }},
		{"weak password", func(r *models.RegisterVoterRequest) { r.Password = "password" }},
		{"short phone", func(r *models.RegisterVoterRequest) { r.PhoneNumber = "555" }},
		{"non-digit phone", func(r *models.RegisterVoterRequest) { r.PhoneNumber = "555000123a" }},
		{"short national id", func(r *models.RegisterVoterRequest) { r.NationalID = "12345" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validVoterRequest()
			tt.mutate(&body)

			req := testutil.MakeRequest("POST", "/auth/register-voter", body, nil)
			w := httptest.NewRecorder()
			h.RegisterVoter(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}

	// Nothing was persisted
	var accounts int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM user_account`).Scan(&accounts); err != nil {
		t.Fatal(err)
	}
	if accounts != 0 {
		t.Errorf("accounts = %d, want 0 after rejected registrations", accounts)
	}
}

func TestRegisterVoterDuplicateEmail(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	req := testutil.MakeRequest("POST", "/auth/register-voter", validVoterRequest(), nil)
	w := httptest.NewRecorder()
	h.RegisterVoter(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Same email, different national id
	dup := validVoterRequest()
	dup.NationalID = "999999999999"
	req = testutil.MakeRequest("POST", "/auth/register-voter", dup, nil)
	w = httptest.NewRecorder()
	h.RegisterVoter(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestRegisterVoterDuplicateNationalID(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	req := testutil.MakeRequest("POST", "/auth/register-voter", validVoterRequest(), nil)
	w := httptest.NewRecorder()
	h.RegisterVoter(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	dup := validVoterRequest()
	dup.Email = "other@example.com"
	req = testutil.MakeRequest("POST", "/auth/register-voter", dup, nil)
	w = httptest.NewRecorder()
	h.RegisterVoter(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// The conflicting account insert was rolled back with it
	var accounts int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM user_account WHERE email = 'other@example.com'`).Scan(&accounts); err != nil {
		t.Fatal(err)
	}
	if accounts != 0 {
		t.Errorf("orphaned account rows = %d, want 0", accounts)
	}
}

func TestRegisterCandidate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	body := models.RegisterCandidateRequest{
		Name:     "Grace Hopper",
		Email:    "grace@example.com",
		Password: testutil.TestPassword,
		Party:    "Unity Party",
	}
	req := testutil.MakeRequest("POST", "/auth/register-candidate", body, nil)
	w := httptest.NewRecorder()
	h.RegisterCandidate(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.RegisterResponse
	testutil.AssertJSON(t, w, &resp)

	var status string
	var isApproved bool
	err := conn.QueryRow(`
		SELECT nomination_status, is_approved FROM candidate WHERE user_id = $1
	`, resp.AccountID).Scan(&status, &isApproved)
	if err != nil {
		t.Fatalf("candidate row missing: %v", err)
	}
	if status != "pending" || isApproved {
		t.Errorf("new candidate status = %s, is_approved = %v, want pending/false", status, isApproved)
	}
}

func TestRegisterCandidateRequiresParty(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	body := models.RegisterCandidateRequest{
		Name:     "Grace Hopper",
		Email:    "grace@example.com",
		Password: testutil.TestPassword,
	}
	req := testutil.MakeRequest("POST", "/auth/register-candidate", body, nil)
	w := httptest.NewRecorder()
	h.RegisterCandidate(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := newRegistrationHandler(conn)

	voterID, _ := testutil.CreateTestVoter(t, conn, "v1@example.com", "111111111111", "approved")

	body := models.LoginRequest{Email: "v1@example.com", Password: testutil.TestPassword}
	req := testutil.MakeRequest("POST", "/auth/login", body, nil)
	w := httptest.NewRecorder()
	h.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LoginResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Role != models.RoleVoter {
		t.Errorf("role = %s, want voter", resp.Role)
	}
	if err := auth.ValidateAccessKey(resp.AccountID, resp.AccessKey, cfg.AccessKeySalt); err != nil {
		t.Errorf("returned access key does not validate: %v", err)
	}

	// Voter login shows up in the audit trail
	var count int
	err := conn.QueryRow(`
		SELECT COUNT(*) FROM audit_log WHERE voter_id = $1 AND action = 'login'
	`, voterID).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("login audit entries = %d, want 1", count)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	testutil.CreateTestVoter(t, conn, "v1@example.com", "111111111111", "approved")

	body := models.LoginRequest{Email: "v1@example.com", Password: "Wr0ngpass!"}
	req := testutil.MakeRequest("POST", "/auth/login", body, nil)
	w := httptest.NewRecorder()
	h.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	body := models.LoginRequest{Email: "nobody@example.com", Password: testutil.TestPassword}
	req := testutil.MakeRequest("POST", "/auth/login", body, nil)
	w := httptest.NewRecorder()
	h.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestLoginRoleMismatch(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := newRegistrationHandler(conn)

	// An admin account cannot log in under the default voter role
	testutil.CreateTestAdmin(t, conn, testutil.GetTestConfig())

	body := models.LoginRequest{Email: "admin@example.com", Password: testutil.TestPassword}
	req := testutil.MakeRequest("POST", "/auth/login", body, nil)
	w := httptest.NewRecorder()
	h.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// With the role stated it succeeds
	body.Role = models.RoleAdmin
	req = testutil.MakeRequest("POST", "/auth/login", body, nil)
	w = httptest.NewRecorder()
	h.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
}
