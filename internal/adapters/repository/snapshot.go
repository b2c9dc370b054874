package repository

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Anurag9000/Gram-Connect/internal/domain/quota"
)

// Snapshot is an immutable view of the ledger at one version. Maps are shared
// with later snapshots for untouched people and must never be written.
type Snapshot struct {
	Version   uint64
	CreatedAt time.Time
	Commits   int

	hours map[string]map[quota.Week]decimal.Decimal
	busy  map[string][]quota.Interval
}

func emptySnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		CreatedAt: now,
		hours:     map[string]map[quota.Week]decimal.Decimal{},
		busy:      map[string][]quota.Interval{},
	}
}

// AssignedHours returns the committed hours of a person in one week.
func (s *Snapshot) AssignedHours(personID string, w quota.Week) decimal.Decimal {
	return s.hours[personID][w]
}

// Overage returns how many hours the task split would push the person past quota.
func (s *Snapshot) Overage(personID string, task map[quota.Week]decimal.Decimal, weeklyQuota decimal.Decimal) decimal.Decimal {
	return quota.Overage(s.hours[personID], task, weeklyQuota)
}

// Conflicts reports whether the person is already busy during the window.
func (s *Snapshot) Conflicts(personID string, iv quota.Interval) bool {
	for _, b := range s.busy[personID] {
		if b.Overlaps(iv) {
			return true
		}
	}
	return false
}

// People returns the number of people with any recorded load.
func (s *Snapshot) People() int {
	return len(s.hours)
}

// TopLoaded ranks people by hours in week w: hours desc, then id asc.
// Tied hours share a rank.
func (s *Snapshot) TopLoaded(w quota.Week, limit int) ([]Load, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	loads := make([]Load, 0, len(s.hours))
	for id, weeks := range s.hours {
		if h, ok := weeks[w]; ok && h.IsPositive() {
			loads = append(loads, Load{PersonID: id, Hours: h.InexactFloat64()})
		}
	}
	sort.Slice(loads, func(i, j int) bool {
		if loads[i].Hours != loads[j].Hours {
			return loads[i].Hours > loads[j].Hours
		}
		return loads[i].PersonID < loads[j].PersonID
	})
	if len(loads) > limit {
		loads = loads[:limit]
	}
	for i := range loads {
		if i > 0 && loads[i].Hours == loads[i-1].Hours {
			loads[i].Rank = loads[i-1].Rank
			continue
		}
		loads[i].Rank = i + 1
	}
	return loads, nil
}

// clone copies the outer maps so a writer can replace entries for the people it touches.
func (s *Snapshot) clone(now time.Time) *Snapshot {
	next := &Snapshot{
		Version:   s.Version + 1,
		CreatedAt: now,
		Commits:   s.Commits,
		hours:     make(map[string]map[quota.Week]decimal.Decimal, len(s.hours)+1),
		busy:      make(map[string][]quota.Interval, len(s.busy)+1),
	}
	for k, v := range s.hours {
		next.hours[k] = v
	}
	for k, v := range s.busy {
		next.busy[k] = v
	}
	return next
}

// addHours replaces the person's week map with a copy that includes extra.
func (s *Snapshot) addHours(personID string, extra map[quota.Week]decimal.Decimal) {
	prev := s.hours[personID]
	weeks := make(map[quota.Week]decimal.Decimal, len(prev)+len(extra))
	for w, h := range prev {
		weeks[w] = h
	}
	for w, h := range extra {
		weeks[w] = weeks[w].Add(h)
	}
	s.hours[personID] = weeks
}

// addBusy replaces the person's busy list with a copy that includes iv.
func (s *Snapshot) addBusy(personID string, iv quota.Interval) {
	prev := s.busy[personID]
	list := make([]quota.Interval, len(prev), len(prev)+1)
	copy(list, prev)
	s.busy[personID] = append(list, iv)
}
