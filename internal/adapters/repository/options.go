package repository

import "time"

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now, used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}
