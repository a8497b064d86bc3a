// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ballotbox/auth"
	"ballotbox/metrics"
)

// CodeVerifier issues and validates short-lived one-time codes tied to a
// voter. It is the only writer of otp_code.verified.
type CodeVerifier struct {
	db  *sql.DB
	ttl time.Duration
}

func NewCodeVerifier(db *sql.DB, ttl time.Duration) *CodeVerifier {
	return &CodeVerifier{db: db, ttl: ttl}
}

// Issue returns the voter's current one-time code, creating one if no
// unverified, unexpired code exists. Re-issuing before expiry returns
// the same code unchanged; older unverified codes are orphaned on
// regeneration, not deleted.
func (v *CodeVerifier) Issue(ctx context.Context, voterID string) (string, time.Time, error) {
	var code string
	var expiresAt time.Time
	err := v.db.QueryRowContext(ctx, `
		SELECT code, expires_at FROM otp_code
		WHERE voter_id = $1 AND verified = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`, voterID).Scan(&code, &expiresAt)

	now := time.Now()
	if err == nil && now.Before(expiresAt) {
		return code, expiresAt, nil
	}
	if err != nil && err != sql.ErrNoRows {
		return "", time.Time{}, fmt.Errorf("failed to query current code: %w", err)
	}

	code, err = auth.GenerateCode()
	if err != nil {
		return "", time.Time{}, err
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt = now.Add(v.ttl)
	_, err = v.db.ExecContext(ctx, `
		INSERT INTO otp_code (id, voter_id, code, verified, created_at, expires_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
	`, id, voterID, code, now, expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store code: %w", err)
	}

	metrics.CodesIssuedTotal.Inc()
	return code, expiresAt, nil
}

// Verify checks the submitted code against the voter's most recently
// created unverified code. Comparison is an exact string compare, no
// normalization. On success the code is marked verified and can never
// satisfy a later Verify call, even if resubmitted.
func (v *CodeVerifier) Verify(ctx context.Context, voterID, submitted string) error {
	var id, code string
	var expiresAt time.Time
	err := v.db.QueryRowContext(ctx, `
		SELECT id, code, expires_at FROM otp_code
		WHERE voter_id = $1 AND verified = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`, voterID).Scan(&id, &code, &expiresAt)

	if err == sql.ErrNoRows {
		metrics.CodeVerificationsTotal.WithLabelValues("no_code").Inc()
		return ErrNoCodeIssued
	}
	if err != nil {
		return fmt.Errorf("failed to query code: %w", err)
	}

	if time.Now().After(expiresAt) {
		metrics.CodeVerificationsTotal.WithLabelValues("expired").Inc()
		return ErrCodeExpired
	}

	if submitted != code {
		metrics.CodeVerificationsTotal.WithLabelValues("mismatch").Inc()
		return ErrCodeMismatch
	}

	_, err = v.db.ExecContext(ctx, `
		UPDATE otp_code SET verified = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark code verified: %w", err)
	}

	metrics.CodeVerificationsTotal.WithLabelValues("ok").Inc()
	return nil
}
