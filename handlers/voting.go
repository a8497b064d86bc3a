// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"ballotbox/election"
	"ballotbox/middleware"
	"ballotbox/models"
)

type VotingHandler struct {
	coord *election.Coordinator
}

func NewVotingHandler(coord *election.Coordinator) *VotingHandler {
	return &VotingHandler{coord: coord}
}

// Identify handles POST /vote/identify
// Step 1: resolve a public voter id or email to an approved voter and
// open a voting session.
func (h *VotingHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var req models.IdentifyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Identifier == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "identifier is required")
		return
	}

	origin := middleware.GetClientIP(r)
	token, err := h.coord.Identify(r.Context(), req.Identifier, origin)
	if err != nil {
		votingErrorResponse(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.IdentifyResponse{
		SessionToken: token,
	})
}

// RequestCode handles POST /vote/code
// Step 2a: issue the one-time code for an identified session.
func (h *VotingHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req models.RequestCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SessionToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_token is required")
		return
	}

	code, expiresAt, err := h.coord.RequestCode(r.Context(), req.SessionToken)
	if err != nil {
		votingErrorResponse(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RequestCodeResponse{
		Code:      code,
		ExpiresAt: expiresAt,
	})
}

// VerifyCode handles POST /vote/verify
// Step 2b: check the submitted code. Failures leave the session
// retryable.
func (h *VotingHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SessionToken == "" || req.Code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_token and code are required")
		return
	}

	if err := h.coord.VerifyCode(r.Context(), req.SessionToken, req.Code); err != nil {
		votingErrorResponse(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VerifyCodeResponse{
		Message: "Code verified",
	})
}

// Cast handles POST /vote/cast
// Step 3: record the ballot. The session is gone afterwards, whether
// the cast succeeded or failed terminally.
func (h *VotingHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SessionToken == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_token and candidate_id are required")
		return
	}

	ballotID, err := h.coord.Cast(r.Context(), req.SessionToken, req.CandidateID)
	if err != nil {
		votingErrorResponse(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		BallotID: ballotID,
		Message:  "Vote recorded",
	})
}

// votingErrorResponse maps the coordinator's typed failures to HTTP
// statuses. Anything unrecognized is a storage-level failure.
func votingErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, election.ErrVoterNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter id or email not found")
	case errors.Is(err, election.ErrNotApproved):
		middleware.ErrorResponse(w, http.StatusForbidden, "Your registration is not approved yet")
	case errors.Is(err, election.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted")
	case errors.Is(err, election.ErrInvalidCandidate):
		middleware.ErrorResponse(w, http.StatusConflict, "Invalid candidate selected")
	case errors.Is(err, election.ErrNoCodeIssued):
		middleware.ErrorResponse(w, http.StatusConflict, "No code generated, request one first")
	case errors.Is(err, election.ErrCodeExpired):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Code has expired, request a new one")
	case errors.Is(err, election.ErrCodeMismatch):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Code is incorrect")
	case errors.Is(err, election.ErrSessionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voting session not found, start again")
	case errors.Is(err, election.ErrWrongState):
		middleware.ErrorResponse(w, http.StatusConflict, "Voting session is not at this step")
	default:
		slog.Error("voting operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
