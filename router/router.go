// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ballotbox/cliparse"
	"ballotbox/election"
	"ballotbox/handlers"
	"ballotbox/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize the voting core and handlers
	coordinator := election.NewCoordinator(db, cfg.CodeTTL)
	ledger := election.NewLedger(db)

	registrationHandler := handlers.NewRegistrationHandler(db, cfg, ledger)
	votingHandler := handlers.NewVotingHandler(coordinator)
	adminHandler := handlers.NewAdminHandler(db, cfg, ledger)
	resultsHandler := handlers.NewResultsHandler(db, ledger)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Registration and login (public)
	mux.HandleFunc("POST /auth/register-voter", middleware.WithLogging(registrationHandler.RegisterVoter))
	mux.HandleFunc("POST /auth/register-candidate", middleware.WithLogging(registrationHandler.RegisterCandidate))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(registrationHandler.Login))

	// Voting flow (public, session-token based)
	mux.HandleFunc("POST /vote/identify", middleware.WithLogging(votingHandler.Identify))
	mux.HandleFunc("POST /vote/code", middleware.WithLogging(votingHandler.RequestCode))
	mux.HandleFunc("POST /vote/verify", middleware.WithLogging(votingHandler.VerifyCode))
	mux.HandleFunc("POST /vote/cast", middleware.WithLogging(votingHandler.Cast))

	// Results (public)
	mux.HandleFunc("GET /candidates", middleware.WithLogging(resultsHandler.Candidates))
	mux.HandleFunc("GET /results/tally", middleware.WithLogging(resultsHandler.Tally))

	// Administration (access key + admin role)
	mux.HandleFunc("GET /admin/stats", middleware.WithLogging(adminHandler.Stats))
	mux.HandleFunc("GET /admin/voters/pending", middleware.WithLogging(adminHandler.PendingVoters))
	mux.HandleFunc("POST /admin/voters/{id}/approve", middleware.WithLogging(adminHandler.ApproveVoter))
	mux.HandleFunc("POST /admin/voters/{id}/reject", middleware.WithLogging(adminHandler.RejectVoter))
	mux.HandleFunc("GET /admin/candidates/pending", middleware.WithLogging(adminHandler.PendingCandidates))
	mux.HandleFunc("POST /admin/candidates/{id}/approve", middleware.WithLogging(adminHandler.ApproveCandidate))
	mux.HandleFunc("POST /admin/candidates/{id}/reject", middleware.WithLogging(adminHandler.RejectCandidate))
	mux.HandleFunc("POST /admin/candidates/{id}/remove", middleware.WithLogging(adminHandler.RemoveCandidate))
	mux.HandleFunc("GET /admin/audit-log", middleware.WithLogging(adminHandler.AuditLog))
	mux.HandleFunc("POST /admin/election/reset", middleware.WithLogging(adminHandler.ResetElection))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
