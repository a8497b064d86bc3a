// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "errors"

// Typed failures surfaced by the voting flow. All of these are
// recoverable by the caller; storage is left unchanged when they occur.
var (
	ErrVoterNotFound    = errors.New("voter not found")
	ErrNotApproved      = errors.New("voter registration not approved")
	ErrAlreadyVoted     = errors.New("voter has already voted")
	ErrInvalidCandidate = errors.New("candidate not found or not approved")
	ErrNoCodeIssued     = errors.New("no one-time code issued")
	ErrCodeExpired      = errors.New("one-time code expired")
	ErrCodeMismatch     = errors.New("one-time code mismatch")
	ErrSessionNotFound  = errors.New("voting session not found")
	ErrWrongState       = errors.New("voting session in wrong state")
)
