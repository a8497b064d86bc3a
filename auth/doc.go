// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation and credential validation.

# Identifiers

GenerateID creates random hex IDs for database rows. NewVoterPublicID
creates the public voter identifier assigned at approval time
(VOTER_YYYYMMDD_NNNN); IsVoterPublicID recognizes the pattern so the
voting flow can decide whether an identifier is a public id or an email.

# Access Keys

Access keys replace server-side login sessions. GenerateAccessKey derives
a deterministic HMAC-SHA256 key from the account id and a server salt;
ValidateAccessKey recomputes and compares with hmac.Equal. Admin
endpoints require a valid key plus an explicit role check against the
database on every request - there is no ambient "current user".

# One-Time Codes

GenerateCode produces a uniformly random 6-digit code from crypto/rand.
The code is a fixed-width string so leading zeros survive.

# Passwords

HashPassword / CheckPassword wrap bcrypt. ValidatePassword enforces the
registration strength rules (length, case mix, digit, special character).
*/
package auth
