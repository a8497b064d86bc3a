// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the vote-casting core: the one-time code
verifier, the voting transaction coordinator, and the ballot ledger.

# Voting Flow

A voting attempt is a session moving through three states:

	Identified -> CodePending -> CodeVerified -> (cast, session forgotten)

Identify resolves a public voter id or account email to an approved,
not-yet-voted voter and opens a session. RequestCode issues the one-time
code (idempotent while a current code exists). VerifyCode checks it;
failures leave the session retryable. Cast re-checks candidate approval
and the has_voted flag inside a transaction and commits four writes
atomically: ballot insert, voter flag update, tally increment, audit
entry. Either all four commit or none do.

# Single-Vote Enforcement

Two mechanisms back the one-ballot-per-voter rule, because a flag check
alone is not race-free under concurrent requests:

 1. A guarded UPDATE of voter.has_voted inside the cast transaction
    (zero rows affected means another attempt won).
 2. The UNIQUE constraint on ballot.voter_id as the final arbiter; a
    violation is translated to ErrAlreadyVoted, never surfaced as a
    generic storage failure.

For N concurrent cast attempts by one voter, exactly one commits and
the rest observe ErrAlreadyVoted.

# Tallies

candidate.total_votes is a denormalized cache of the ballot count. The
cast path increments it in SQL inside the same transaction as the
ballot insert. Candidate removal and election reset delete ballots out
of band and therefore recompute the cache from ballot rows.

# Errors

All failures are typed sentinels (ErrVoterNotFound, ErrNotApproved,
ErrAlreadyVoted, ErrInvalidCandidate, ErrNoCodeIssued, ErrCodeExpired,
ErrCodeMismatch, ErrSessionNotFound, ErrWrongState) and leave storage
unchanged.
*/
package election
