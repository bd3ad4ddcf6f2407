// internal/app/system/timeouts/timeouts.go

// Package timeouts centralizes the context deadlines used for database
// work inside HTTP handlers.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or lookups
//   - Medium: list queries and moderate writes
//   - Long: multi-collection writes (e.g. house delete cascade)
package timeouts

import "time"

const (
	// Ping is the deadline for health-check pings.
	Ping = 2 * time.Second
	// Short is the deadline for single-document reads.
	Short = 5 * time.Second
	// Medium is the deadline for list queries and moderate writes.
	Medium = 10 * time.Second
	// Long is the deadline for writes touching multiple collections.
	Long = 30 * time.Second
)
