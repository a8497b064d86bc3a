// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ballotbox/auth"
	"ballotbox/cliparse"
	"ballotbox/db"
	"ballotbox/election"
	"ballotbox/middleware"
	"ballotbox/models"
)

type RegistrationHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	ledger *election.Ledger
}

func NewRegistrationHandler(database *sql.DB, cfg cliparse.Config, ledger *election.Ledger) *RegistrationHandler {
	return &RegistrationHandler{db: database, cfg: cfg, ledger: ledger}
}

// RegisterVoter handles POST /auth/register-voter
// Creates an account plus a pending voter profile awaiting admin approval.
func (h *RegistrationHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" ||
		req.PhoneNumber == "" || req.NationalID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "all fields are required")
		return
	}
	if !isValidEmail(req.Email) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"password must be 8+ characters with upper, lower, digit, and special character")
		return
	}
	if !auth.IsDigits(req.PhoneNumber, 10) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "phone number must be 10 digits")
		return
	}
	if !auth.IsDigits(req.NationalID, 12) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "national id must be 12 digits")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	accountID, _ := auth.GenerateID(16)
	voterID, _ := auth.GenerateID(16)
	now := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO user_account (id, email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, 'voter', $4, $5, $6)
	`, accountID, req.Email, req.Name, hash, now, now)
	if err != nil {
		if db.IsUniqueViolation(err, "email") {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO voter (id, user_id, phone_number, national_id, status, is_approved, has_voted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'pending', FALSE, FALSE, $5, $6)
	`, voterID, accountID, req.PhoneNumber, req.NationalID, now, now)
	if err != nil {
		if db.IsUniqueViolation(err, "national_id") {
			middleware.ErrorResponse(w, http.StatusConflict, "National id already registered")
			return
		}
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	slog.Info("voter registered", "account_id", accountID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		AccountID: accountID,
		Message:   "Registration submitted, awaiting admin approval",
	})
}

// RegisterCandidate handles POST /auth/register-candidate
// Creates an account plus a pending nomination awaiting admin approval.
func (h *RegistrationHandler) RegisterCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Party == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "all fields are required")
		return
	}
	if !isValidEmail(req.Email) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"password must be 8+ characters with upper, lower, digit, and special character")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	accountID, _ := auth.GenerateID(16)
	candidateID, _ := auth.GenerateID(16)
	now := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO user_account (id, email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, 'candidate', $4, $5, $6)
	`, accountID, req.Email, req.Name, hash, now, now)
	if err != nil {
		if db.IsUniqueViolation(err, "email") {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO candidate (id, user_id, party, nomination_status, is_approved, total_votes, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', FALSE, 0, $4, $5)
	`, candidateID, accountID, req.Party, now, now)
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	slog.Info("candidate registered", "account_id", accountID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		AccountID: accountID,
		Message:   "Nomination submitted, awaiting admin approval",
	})
}

// Login handles POST /auth/login
// Verifies credentials and returns a deterministic access key. There is
// no server-side session; subsequent requests present the key.
func (h *RegistrationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleVoter
	}

	var accountID, hash string
	err := h.db.QueryRow(`
		SELECT id, password_hash FROM user_account WHERE email = $1 AND role = $2
	`, req.Email, req.Role).Scan(&accountID, &hash)

	if err == sql.ErrNoRows || (err == nil && !auth.CheckPassword(hash, req.Password)) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email, password, or role")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Voter logins land in the audit trail
	if req.Role == models.RoleVoter {
		var voterID string
		if err := h.db.QueryRow(`SELECT id FROM voter WHERE user_id = $1`, accountID).Scan(&voterID); err == nil {
			origin := middleware.GetClientIP(r)
			if err := h.ledger.Append(r.Context(), &voterID, models.ActionLogin, "voter login", origin); err != nil {
				slog.Warn("failed to record login audit entry", "error", err)
			}
		}
	}

	slog.Info("login", "account_id", accountID, "role", req.Role)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		AccountID: accountID,
		Role:      req.Role,
		AccessKey: auth.GenerateAccessKey(accountID, h.cfg.AccessKeySalt),
	})
}

// isValidEmail does a minimal structural check: an @ followed by a dot.
func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	return strings.Contains(email[at:], ".")
}
