// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Logging

WithLogging wraps a handler with structured start/complete log lines and
records the request counter and duration histogram in the metrics
package.

# JSON Helpers

JSONResponse and ErrorResponse write consistent JSON bodies;
ParseJSONBody decodes a request body and closes it.

# Client IP

GetClientIP resolves the caller's network origin (X-Forwarded-For,
X-Real-IP, then RemoteAddr). The result feeds audit entries, so the
same resolution order is used everywhere.
*/
package middleware
