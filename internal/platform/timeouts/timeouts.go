// Package timeouts defines shared timeout constants used across the
// service. Centralizing these values prevents drift between the HTTP
// surface and the background projector and makes the durations
// discoverable.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 10 * time.Second

// SQLiteBusy caps how long a SQLite connection waits on a locked
// database before failing the statement.
const SQLiteBusy = 5 * time.Second
