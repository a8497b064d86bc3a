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
	"ballotbox/models"
)

// Ledger exposes the read and administrative sides of the ballot store:
// tallies, the audit trail, election reset, and candidate removal.
//
// candidate.total_votes is a cache; the count of ballot rows is the
// source of truth. Any path that deletes ballots outside the normal
// cast flow recomputes the cache from ballot rows instead of
// decrementing it.
type Ledger struct {
	db *sql.DB
}

func NewLedger(database *sql.DB) *Ledger {
	return &Ledger{db: database}
}

// Tally returns approved candidates ordered by vote count descending,
// ties broken by nomination creation order.
func (l *Ledger) Tally(ctx context.Context) ([]models.TallyEntry, int, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT c.id, u.name, c.party, c.total_votes
		FROM candidate c
		JOIN user_account u ON c.user_id = u.id
		WHERE c.is_approved = TRUE
		ORDER BY c.total_votes DESC, c.created_at ASC
	`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	var entries []models.TallyEntry
	total := 0
	for rows.Next() {
		var e models.TallyEntry
		if err := rows.Scan(&e.CandidateID, &e.Name, &e.Party, &e.Votes); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tally row: %w", err)
		}
		e.Rank = len(entries) + 1
		total += e.Votes
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read tally rows: %w", err)
	}

	return entries, total, nil
}

// AuditTrail returns up to limit audit entries, most recent first.
func (l *Ledger) AuditTrail(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, voter_id, action, detail, ip_address, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.VoterID, &e.Action, &e.Detail, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit rows: %w", err)
	}

	return entries, nil
}

// Append writes a single audit entry outside the cast path, e.g. for
// authentication events.
func (l *Ledger) Append(ctx context.Context, voterID *string, action, detail, origin string) error {
	id, err := auth.GenerateID(16)
	if err != nil {
		return err
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, voter_id, action, detail, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, voterID, action, detail, origin, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ResetElection deletes all ballots, zeroes every tally, and clears
// every voter's has_voted flag. Destructive and irreversible;
// administration-only. Voters themselves are kept.
func (l *Ledger) ResetElection(ctx context.Context, origin string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ballot`); err != nil {
		return fmt.Errorf("failed to delete ballots: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE voter SET has_voted = FALSE, voted_at = NULL, updated_at = $1
	`, now); err != nil {
		return fmt.Errorf("failed to reset voters: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE candidate SET total_votes = 0, updated_at = $1
	`, now); err != nil {
		return fmt.Errorf("failed to reset tallies: %w", err)
	}

	auditID, err := auth.GenerateID(16)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO audit_log (id, voter_id, action, detail, ip_address, created_at)
		VALUES ($1, NULL, 'election_reset', 'all ballots deleted', $2, $3)
	`, auditID, origin, now); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	slog.Warn("election reset", "origin", origin)
	return nil
}

// RemoveCandidate deletes a candidate together with the ballots cast
// for them, then recomputes every remaining tally from ballot rows.
// Affected voters keep has_voted: a voter does not regain a vote
// because their candidate was struck from the election.
func (l *Ledger) RemoveCandidate(ctx context.Context, candidateID string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidate WHERE id = $1)
	`, candidateID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check candidate: %w", err)
	}
	if !exists {
		return ErrInvalidCandidate
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM ballot WHERE candidate_id = $1
	`, candidateID); err != nil {
		return fmt.Errorf("failed to delete ballots: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM candidate WHERE id = $1
	`, candidateID); err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}

	// Ballots were deleted out of band, so recompute caches from the
	// ballot rows rather than decrementing.
	if err := recountTallies(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit removal: %w", err)
	}

	slog.Info("candidate removed", "candidate_id", candidateID)
	return nil
}

// RecountTallies recomputes every candidate's total_votes from ballot
// rows. Derived-state repair for anything that touched ballots outside
// the cast path.
func (l *Ledger) RecountTallies(ctx context.Context) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := recountTallies(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recount: %w", err)
	}
	return nil
}

func recountTallies(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE candidate SET total_votes = (
			SELECT COUNT(*) FROM ballot WHERE ballot.candidate_id = candidate.id
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to recount tallies: %w", err)
	}
	return nil
}
