package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/quota"
	"github.com/Anurag9000/Gram-Connect/pkg/metrics"
)

// SeedEntry is a baseline load. With a window it records a busy interval and
// its per-week hours; without one it adds Hours to Week.
type SeedEntry struct {
	PersonID string
	Window   *quota.Interval
	Week     quota.Week
	Hours    float64
}

var _ Store = (*Ledger)(nil)

// Ledger is an in-memory Store. Writers serialize on mu and publish a
// copy-on-write snapshot; readers load the pointer without locking.
type Ledger struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

// NewLedger constructs an empty ledger at version 0.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.current.Store(emptySnapshot(l.now()))
	return l
}

// Snapshot implements Store.Snapshot.
func (l *Ledger) Snapshot() *Snapshot {
	return l.current.Load()
}

// Commit implements Store.Commit.
func (l *Ledger) Commit(ctx context.Context, a model.Assignment) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAssignment, err)
	}
	if len(a.PersonIDs) == 0 {
		return nil, fmt.Errorf("%w: no members", ErrInvalidAssignment)
	}

	iv := quota.Interval{Start: a.Start, End: a.End}
	split := quota.Split(iv)

	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.current.Load().clone(l.now())
	for _, id := range a.PersonIDs {
		next.addHours(id, split)
		if iv.End.After(iv.Start) {
			next.addBusy(id, iv)
		}
	}
	next.Commits++
	l.current.Store(next)
	metrics.RecordCommit(next.Version)
	return next, nil
}

// Seed implements Store.Seed. All entries land in a single new version.
func (l *Ledger) Seed(ctx context.Context, entries []SeedEntry) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if e.PersonID == "" || e.Hours < 0 || (e.Window != nil && e.Window.End.Before(e.Window.Start)) {
			return nil, fmt.Errorf("%w: entry %d", ErrInvalidSeed, i)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.current.Load().clone(l.now())
	for _, e := range entries {
		if e.Window != nil {
			next.addHours(e.PersonID, quota.Split(*e.Window))
			next.addBusy(e.PersonID, *e.Window)
			continue
		}
		if e.Hours > 0 {
			next.addHours(e.PersonID, map[quota.Week]decimal.Decimal{e.Week: decimal.NewFromFloat(e.Hours)})
		}
	}
	l.current.Store(next)
	return next, nil
}
