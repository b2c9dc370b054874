package model

import (
	"sort"
	"time"
)

// Factors are the multiplicative terms applied to a compatibility score.
type Factors struct {
	Availability float64
	Distance     float64
	Overwork     float64
}

// Candidate is a person annotated for a single recommendation request.
type Candidate struct {
	Person        Person
	Compatibility float64
	WAdj          float64
	Factors       Factors
	DistanceKM    float64
	DistanceKnown bool
	OverworkHours float64
	// Rank is the 1-based position in the request's candidate ordering.
	Rank int
}

// TeamMetrics is the metric vector of a candidate team.
type TeamMetrics struct {
	Goodness            float64
	Coverage            float64
	KRobustness         int
	Redundancy          float64
	SizeFit             float64
	WillingnessAvg      float64
	WillingnessMin      float64
	TeamSize            int
	AggregateDistanceKM float64
}

// Team is an unordered set of candidates and its metrics. Members are kept in
// candidate rank order.
type Team struct {
	Members []Candidate
	Metrics TeamMetrics
}

// MemberIDs returns the sorted member identifiers.
func (t Team) MemberIDs() []string {
	ids := make([]string, len(t.Members))
	for i, m := range t.Members {
		ids[i] = m.Person.ID
	}
	sort.Strings(ids)
	return ids
}

// Assignment is an accepted team committed against the hours ledger.
type Assignment struct {
	ID         string
	ProposalID string
	Title      string
	Village    string
	PersonIDs  []string
	Start      time.Time
	End        time.Time
}

// Hours returns the assignment duration in hours.
func (a Assignment) Hours() float64 {
	return a.End.Sub(a.Start).Hours()
}

// Validate checks the assignment is committable.
func (a Assignment) Validate() error {
	if a.ID == "" {
		return ErrEmptyID
	}
	if a.End.Before(a.Start) {
		return ErrInvalidWindow
	}
	for _, id := range a.PersonIDs {
		if id == "" {
			return ErrEmptyID
		}
	}
	return nil
}
