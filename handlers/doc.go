// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP surfaces of the election service.

# Handler Structure

Each handler is a struct created with its dependencies:

	registrationHandler := handlers.NewRegistrationHandler(db, cfg, ledger)
	votingHandler := handlers.NewVotingHandler(coordinator)
	adminHandler := handlers.NewAdminHandler(db, cfg, ledger)
	resultsHandler := handlers.NewResultsHandler(db, ledger)

# Endpoints

Registration (public):

  - POST /auth/register-voter: account + pending voter profile
  - POST /auth/register-candidate: account + pending nomination
  - POST /auth/login: credentials -> access key

Voting (public, session-token based):

  - POST /vote/identify: voter id or email -> session token
  - POST /vote/code: issue one-time code
  - POST /vote/verify: verify code
  - POST /vote/cast: cast the ballot

Administration (X-Account-ID + X-Access-Key, role checked per request):

  - GET /admin/stats, /admin/voters/pending, /admin/candidates/pending
  - POST /admin/voters/{id}/approve | reject
  - POST /admin/candidates/{id}/approve | reject | remove
  - GET /admin/audit-log?limit=N
  - POST /admin/election/reset

Results (public):

  - GET /candidates: approved candidates for the ballot
  - GET /results/tally: vote counts, highest first

# Error Mapping

The voting handlers translate the election package's typed errors:
not found -> 404, not approved -> 403, already voted / invalid
candidate / wrong step -> 409, bad or expired code -> 401.
*/
package handlers
