// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"ballotbox/election"
	"ballotbox/middleware"
	"ballotbox/models"
)

type ResultsHandler struct {
	db     *sql.DB
	ledger *election.Ledger
}

func NewResultsHandler(database *sql.DB, ledger *election.Ledger) *ResultsHandler {
	return &ResultsHandler{db: database, ledger: ledger}
}

// Candidates handles GET /candidates
// The public ballot view: approved candidates only, in nomination order.
func (h *ResultsHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT c.id, u.name, c.party
		FROM candidate c
		JOIN user_account u ON c.user_id = u.id
		WHERE c.is_approved = TRUE
		ORDER BY c.created_at ASC
	`)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.CandidateListing{}
	for rows.Next() {
		var c models.CandidateListing
		if err := rows.Scan(&c.ID, &c.Name, &c.Party); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// Tally handles GET /results/tally
// Vote counts per approved candidate, highest first.
func (h *ResultsHandler) Tally(w http.ResponseWriter, r *http.Request) {
	entries, total, err := h.ledger.Tally(r.Context())
	if err != nil {
		slog.Error("failed to query tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if entries == nil {
		entries = []models.TallyEntry{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		Rankings:   entries,
		TotalVotes: total,
	})
}
