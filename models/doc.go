// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterVoterRequest: name, email, password, phone_number, national_id
  - RegisterCandidateRequest: name, email, password, party
  - LoginRequest: email, password, role
  - IdentifyRequest: identifier (public voter id or account email)
  - RequestCodeRequest / VerifyCodeRequest / CastVoteRequest: voting flow

# Response Types

Types for JSON responses:

  - RegisterResponse: account_id, message
  - LoginResponse: account_id, role, access_key
  - IdentifyResponse: session_token
  - RequestCodeResponse: code, expires_at
  - CastVoteResponse: ballot_id, message
  - ApproveVoterResponse: public_id, message
  - AdminStatsResponse: dashboard counts
  - TallyResponse: rankings, total_votes
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Account: credentials and role
  - Voter: approval state, public id, has_voted flag
  - Candidate: nomination state and vote tally
  - Ballot: immutable cast-vote record
  - AuditEntry: append-only action record
  - TallyEntry: per-candidate result row

# Constants

Roles:

	RoleAdmin     = "admin"
	RoleVoter     = "voter"
	RoleCandidate = "candidate"

Status values:

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

Audit actions:

	ActionLogin         = "login"
	ActionVoteCast      = "vote_cast"
	ActionElectionReset = "election_reset"
*/
package models
