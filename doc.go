// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

Ballotbox runs a single election: voters register and get approved,
authenticate with a one-time code, and cast exactly one vote each;
candidates register nominations; administrators approve registrations
and view tallies and the audit trail.

# Starting the Server

The server reads configuration from environment variables (a .env file
is loaded if present) or CLI flags:

	DATABASE_URL=postgres://... ACCESS_KEY_SALT=... go run main.go

Or with flags:

	go run main.go -p 4270 -d "postgres://..." -access-salt "..."

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string
  - ACCESS_KEY_SALT (-access-salt): secret for access key HMAC

Optional settings:

  - PORT (-p): server port (default: 4270)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - CODE_TTL_MINUTES (-code-ttl): one-time code validity (default: 10)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - election: voting transaction coordinator, code verifier, ledger
  - handlers: HTTP request handlers (registration, voting, admin, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, JSON helpers, client IP
  - models: Request/response types
  - auth: identifiers, access keys, codes, passwords
  - db: Schema creation and driver error translation
  - metrics: Prometheus counters
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
