// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ballotbox/auth"
	"ballotbox/db"
	"ballotbox/metrics"
)

// Coordinator orchestrates the three-step voting flow and enforces the
// single-vote rule. It is the sole writer of ballot rows and of
// voter.has_voted / voted_at.
//
// Each in-flight attempt is a session: Identified -> CodePending ->
// CodeVerified, then Cast commits the ballot and forgets the session.
// Multiple requests may run concurrently against shared storage;
// coordination happens through the database transaction plus the
// UNIQUE constraint on ballot.voter_id.
type Coordinator struct {
	db       *sql.DB
	verifier *CodeVerifier
	sessions *sessionRegistry
}

func NewCoordinator(database *sql.DB, codeTTL time.Duration) *Coordinator {
	return &Coordinator{
		db:       database,
		verifier: NewCodeVerifier(database, codeTTL),
		sessions: newSessionRegistry(),
	}
}

// Verifier exposes the code verifier for surfaces that only need code
// operations.
func (c *Coordinator) Verifier() *CodeVerifier {
	return c.verifier
}

// Identify resolves a voter identifier and opens a voting session.
// Identifiers matching the public voter id pattern are looked up by
// that field; anything else is treated as an account email with role
// voter. Fails with ErrVoterNotFound, ErrNotApproved, or
// ErrAlreadyVoted; no session is created on failure.
func (c *Coordinator) Identify(ctx context.Context, identifier, origin string) (string, error) {
	var voterID string
	var isApproved, hasVoted bool
	var err error

	if auth.IsVoterPublicID(identifier) {
		err = c.db.QueryRowContext(ctx, `
			SELECT id, is_approved, has_voted FROM voter WHERE public_id = $1
		`, identifier).Scan(&voterID, &isApproved, &hasVoted)
	} else {
		err = c.db.QueryRowContext(ctx, `
			SELECT v.id, v.is_approved, v.has_voted
			FROM voter v
			JOIN user_account u ON v.user_id = u.id
			WHERE u.email = $1 AND u.role = 'voter'
		`, identifier).Scan(&voterID, &isApproved, &hasVoted)
	}

	if err == sql.ErrNoRows {
		return "", ErrVoterNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve voter: %w", err)
	}

	if !isApproved {
		return "", ErrNotApproved
	}
	if hasVoted {
		return "", ErrAlreadyVoted
	}

	token := c.sessions.create(voterID, origin)
	slog.Info("voting session opened", "voter_id", voterID)
	return token, nil
}

// RequestCode issues the session's one-time code and moves the session
// to CodePending. Requesting again before expiry returns the same code;
// a fresh code is only generated once the prior one has expired.
func (c *Coordinator) RequestCode(ctx context.Context, token string) (string, time.Time, error) {
	sess, ok := c.sessions.get(token)
	if !ok {
		return "", time.Time{}, ErrSessionNotFound
	}
	if sess.state == StateCodeVerified {
		return "", time.Time{}, ErrWrongState
	}

	code, expiresAt, err := c.verifier.Issue(ctx, sess.voterID)
	if err != nil {
		return "", time.Time{}, err
	}

	c.sessions.setState(token, StateCodePending)
	return code, expiresAt, nil
}

// VerifyCode checks the submitted code. On any verifier failure the
// session stays in CodePending and the caller may retry.
func (c *Coordinator) VerifyCode(ctx context.Context, token, code string) error {
	sess, ok := c.sessions.get(token)
	if !ok {
		return ErrSessionNotFound
	}
	if sess.state == StateIdentified {
		return ErrNoCodeIssued
	}
	if sess.state != StateCodePending {
		return ErrWrongState
	}

	if err := c.verifier.Verify(ctx, sess.voterID, code); err != nil {
		return err
	}

	c.sessions.setState(token, StateCodeVerified)
	return nil
}

// Cast records the vote. Candidate approval and the voter's has_voted
// flag are both re-checked inside the transaction: time has passed
// since Identify and other sessions or an administrator may have raced.
// On success four writes commit as one atomic unit: the ballot insert,
// the voter flag update, the tally increment, and the audit entry.
// The session is forgotten on success and on any terminal failure.
func (c *Coordinator) Cast(ctx context.Context, token, candidateID string) (string, error) {
	sess, ok := c.sessions.get(token)
	if !ok {
		return "", ErrSessionNotFound
	}
	if sess.state != StateCodeVerified {
		return "", ErrWrongState
	}

	ballotID, err := c.castTx(ctx, sess.voterID, candidateID, sess.origin)
	switch err {
	case nil:
		c.sessions.drop(token)
		metrics.VotesCastTotal.Inc()
		slog.Info("vote cast", "voter_id", sess.voterID, "candidate_id", candidateID)
		return ballotID, nil
	case ErrAlreadyVoted, ErrInvalidCandidate:
		// Terminal for this attempt: the voter must not be able to retry.
		c.sessions.drop(token)
		metrics.VoteAttemptsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return "", err
	default:
		return "", err
	}
}

func (c *Coordinator) castTx(ctx context.Context, voterID, candidateID, origin string) (string, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var candidateApproved bool
	err = tx.QueryRowContext(ctx, `
		SELECT is_approved FROM candidate WHERE id = $1
	`, candidateID).Scan(&candidateApproved)
	if err == sql.ErrNoRows || (err == nil && !candidateApproved) {
		return "", ErrInvalidCandidate
	}
	if err != nil {
		return "", fmt.Errorf("failed to check candidate: %w", err)
	}

	now := time.Now()

	// Guarded update doubles as the has_voted re-check: zero rows
	// affected means another transaction won the race.
	res, err := tx.ExecContext(ctx, `
		UPDATE voter SET has_voted = TRUE, voted_at = $1, updated_at = $2
		WHERE id = $3 AND has_voted = FALSE
	`, now, now, voterID)
	if err != nil {
		return "", fmt.Errorf("failed to update voter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrAlreadyVoted
	}

	ballotID, err := auth.GenerateID(16)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO ballot (id, voter_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4)
	`, ballotID, voterID, candidateID, now)
	if err != nil {
		if db.IsUniqueViolation(err, "voter_id") {
			return "", ErrAlreadyVoted
		}
		return "", fmt.Errorf("failed to insert ballot: %w", err)
	}

	// Increment happens in SQL inside the same transaction - never a
	// read-modify-write across transaction boundaries.
	_, err = tx.ExecContext(ctx, `
		UPDATE candidate SET total_votes = total_votes + 1, updated_at = $1
		WHERE id = $2
	`, now, candidateID)
	if err != nil {
		return "", fmt.Errorf("failed to update tally: %w", err)
	}

	auditID, err := auth.GenerateID(16)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (id, voter_id, action, detail, ip_address, created_at)
		VALUES ($1, $2, 'vote_cast', $3, $4, $5)
	`, auditID, voterID, "voted for candidate "+candidateID, origin, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		// Under concurrent casts the losing transaction may only see
		// the unique violation at commit time.
		if db.IsUniqueViolation(err, "voter_id") {
			return "", ErrAlreadyVoted
		}
		return "", fmt.Errorf("failed to commit vote: %w", err)
	}

	return ballotID, nil
}

func rejectReason(err error) string {
	switch err {
	case ErrAlreadyVoted:
		return "already_voted"
	case ErrInvalidCandidate:
		return "invalid_candidate"
	default:
		return "error"
	}
}
