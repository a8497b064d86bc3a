// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and driver error translation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - user_account: credentials and role (admin, voter, candidate)
  - voter: voter profile, approval state, has_voted flag
  - candidate: nomination state and denormalized vote tally
  - otp_code: one-time codes with expiry for the voting flow
  - ballot: one immutable ballot per voter
  - audit_log: append-only record of security-relevant actions

# Relationships

	user_account 1──1 voter
	user_account 1──1 candidate
	voter 1──* otp_code
	voter 1──1 ballot
	candidate 1──* ballot
	voter 1──* audit_log

ballot.voter_id carries a UNIQUE constraint: even if two concurrent cast
transactions pass the application-level has_voted check, only one insert can
commit. The loser surfaces as a unique violation which callers translate to
an "already voted" failure via IsUniqueViolation.

# Drivers

Both PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite) are supported; the
DDL and all queries stay inside the dialect subset both understand.
*/
package db
