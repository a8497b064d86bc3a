// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table.

NewRouter wires the election coordinator, the ledger, and all handlers
onto a stock http.ServeMux using Go 1.22+ method and path-value
routing:

	mux := router.NewRouter(db, cfg)
	http.ListenAndServe(":4270", mux)

Every application route is wrapped in middleware.WithLogging, which also
records request metrics. /health and /metrics are served unwrapped.
*/
package router
