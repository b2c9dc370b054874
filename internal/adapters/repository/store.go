// Package repository holds the assigned-hours ledger: the only shared mutable
// state of the engine. Reads go through immutable, versioned snapshots; writes
// are serialized and publish a new snapshot atomically.
package repository

import (
	"context"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
)

// Load is one row of the workload ranking.
type Load struct {
	Rank     int
	PersonID string
	Hours    float64
}

// Store provides snapshot reads and serialized commits.
type Store interface {
	// Snapshot returns the current read-only view. It never blocks on writers.
	Snapshot() *Snapshot
	// Commit applies an accepted assignment and returns the snapshot it produced.
	Commit(ctx context.Context, a model.Assignment) (*Snapshot, error)
	// Seed loads baseline hours and busy windows, typically at startup.
	Seed(ctx context.Context, entries []SeedEntry) (*Snapshot, error)
}
