// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ballotbox/auth"
	"ballotbox/cliparse"
	"ballotbox/db"
	"ballotbox/election"
	"ballotbox/middleware"
	"ballotbox/models"
)

type AdminHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	ledger *election.Ledger
}

func NewAdminHandler(database *sql.DB, cfg cliparse.Config, ledger *election.Ledger) *AdminHandler {
	return &AdminHandler{db: database, cfg: cfg, ledger: ledger}
}

// requireAdmin validates the access key headers and checks the account's
// role against the database. The role check happens per request - there
// is no ambient logged-in user.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	accountID := r.Header.Get("X-Account-ID")
	accessKey := r.Header.Get("X-Access-Key")
	if accountID == "" || accessKey == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Account-ID and X-Access-Key headers required")
		return false
	}

	if err := auth.ValidateAccessKey(accountID, accessKey, h.cfg.AccessKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid access key")
		return false
	}

	var role string
	err := h.db.QueryRow(`SELECT role FROM user_account WHERE id = $1`, accountID).Scan(&role)
	if err == sql.ErrNoRows || (err == nil && role != models.RoleAdmin) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin only")
		return false
	}
	if err != nil {
		slog.Error("failed to query account role", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}

	return true
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var stats models.AdminStatsResponse
	err := h.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM voter),
			(SELECT COUNT(*) FROM voter WHERE is_approved = TRUE),
			(SELECT COUNT(*) FROM voter WHERE status = 'pending'),
			(SELECT COUNT(*) FROM voter WHERE status = 'rejected'),
			(SELECT COUNT(*) FROM candidate),
			(SELECT COUNT(*) FROM candidate WHERE is_approved = TRUE),
			(SELECT COUNT(*) FROM ballot)
	`).Scan(&stats.TotalVoters, &stats.ApprovedVoters, &stats.PendingVoters,
		&stats.RejectedVoters, &stats.TotalCandidates, &stats.ApprovedCandidates,
		&stats.TotalVotes)
	if err != nil {
		slog.Error("failed to query stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// PendingVoters handles GET /admin/voters/pending
func (h *AdminHandler) PendingVoters(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	rows, err := h.db.Query(`
		SELECT v.id, u.name, u.email, v.phone_number, v.national_id, v.created_at
		FROM voter v
		JOIN user_account u ON v.user_id = u.id
		WHERE v.status = 'pending'
		ORDER BY v.created_at ASC
	`)
	if err != nil {
		slog.Error("failed to query pending voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	voters := []models.PendingVoter{}
	for rows.Next() {
		var v models.PendingVoter
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.PhoneNumber, &v.NationalID, &v.AppliedOn); err != nil {
			slog.Error("failed to scan voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		voters = append(voters, v)
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}

// ApproveVoter handles POST /admin/voters/{id}/approve
// Approval assigns the public voter id; it is generated here, never
// changed afterwards.
func (h *AdminHandler) ApproveVoter(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	voterID := r.PathValue("id")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	var existing sql.NullString
	err := h.db.QueryRow(`SELECT public_id FROM voter WHERE id = $1`, voterID).Scan(&existing)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Re-approving after rejection keeps an already-assigned id.
	if existing.Valid {
		_, err = h.db.Exec(`
			UPDATE voter SET status = 'approved', is_approved = TRUE, updated_at = $1 WHERE id = $2
		`, time.Now(), voterID)
		if err != nil {
			slog.Error("failed to approve voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Approval failed")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.ApproveVoterResponse{
			PublicID: existing.String,
			Message:  "Voter approved",
		})
		return
	}

	// The random suffix can collide; retry a few times against the
	// unique constraint.
	var publicID string
	for attempt := 0; attempt < 5; attempt++ {
		publicID, err = auth.NewVoterPublicID(time.Now())
		if err != nil {
			slog.Error("failed to generate public id", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Approval failed")
			return
		}

		_, err = h.db.Exec(`
			UPDATE voter SET public_id = $1, status = 'approved', is_approved = TRUE, updated_at = $2
			WHERE id = $3
		`, publicID, time.Now(), voterID)
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err, "public_id") {
			slog.Error("failed to approve voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Approval failed")
			return
		}
	}
	if err != nil {
		slog.Error("failed to assign public id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Approval failed")
		return
	}

	slog.Info("voter approved", "voter_id", voterID, "public_id", publicID)

	middleware.JSONResponse(w, http.StatusOK, models.ApproveVoterResponse{
		PublicID: publicID,
		Message:  "Voter approved",
	})
}

// RejectVoter handles POST /admin/voters/{id}/reject
func (h *AdminHandler) RejectVoter(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	voterID := r.PathValue("id")
	res, err := h.db.Exec(`
		UPDATE voter SET status = 'rejected', is_approved = FALSE, updated_at = $1 WHERE id = $2
	`, time.Now(), voterID)
	if err != nil {
		slog.Error("failed to reject voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}

	slog.Info("voter rejected", "voter_id", voterID)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Voter registration rejected"})
}

// PendingCandidates handles GET /admin/candidates/pending
func (h *AdminHandler) PendingCandidates(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	rows, err := h.db.Query(`
		SELECT c.id, u.name, u.email, c.party, c.nomination_status, c.created_at
		FROM candidate c
		JOIN user_account u ON c.user_id = u.id
		WHERE c.nomination_status IN ('pending', 'rejected')
		ORDER BY c.created_at ASC
	`)
	if err != nil {
		slog.Error("failed to query pending candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.PendingCandidate{}
	for rows.Next() {
		var c models.PendingCandidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Party, &c.Status, &c.AppliedOn); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// ApproveCandidate handles POST /admin/candidates/{id}/approve
func (h *AdminHandler) ApproveCandidate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	h.setCandidateStatus(w, r, models.StatusApproved, true, "Candidate approved")
}

// RejectCandidate handles POST /admin/candidates/{id}/reject
// Revoking approval mid-vote is caught by the coordinator's re-check at
// cast time.
func (h *AdminHandler) RejectCandidate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	h.setCandidateStatus(w, r, models.StatusRejected, false, "Candidate rejected")
}

func (h *AdminHandler) setCandidateStatus(w http.ResponseWriter, r *http.Request, status string, approved bool, message string) {
	candidateID := r.PathValue("id")
	res, err := h.db.Exec(`
		UPDATE candidate SET nomination_status = $1, is_approved = $2, updated_at = $3 WHERE id = $4
	`, status, approved, time.Now(), candidateID)
	if err != nil {
		slog.Error("failed to update candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	slog.Info("candidate status changed", "candidate_id", candidateID, "status", status)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": message})
}

// RemoveCandidate handles POST /admin/candidates/{id}/remove
// Removes the candidate and the ballots cast for them; remaining
// tallies are recomputed from ballot rows.
func (h *AdminHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	candidateID := r.PathValue("id")
	err := h.ledger.RemoveCandidate(r.Context(), candidateID)
	if errors.Is(err, election.ErrInvalidCandidate) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to remove candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Candidate removed from election"})
}

// AuditLog handles GET /admin/audit-log?limit=N
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	entries, err := h.ledger.AuditTrail(r.Context(), limit)
	if err != nil {
		slog.Error("failed to query audit trail", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// ResetElection handles POST /admin/election/reset
// Destructive and irreversible.
func (h *AdminHandler) ResetElection(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	origin := middleware.GetClientIP(r)
	if err := h.ledger.ResetElection(r.Context(), origin); err != nil {
		slog.Error("failed to reset election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Reset failed")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Election has been reset"})
}
