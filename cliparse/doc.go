// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4270)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AccessKeySalt: Secret for access key HMAC (required)
  - CodeTTL: One-time code validity window (default: 10 minutes)

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type
	-code-ttl    Code validity in minutes
	-access-salt Access key salt

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	CODE_TTL_MINUTES → -code-ttl
	ACCESS_KEY_SALT  → -access-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ACCESS_KEY_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
