// Package scoring turns a compatibility probability into the adjusted weight
// W_adj used for team selection.
//
//	W_adj = compatibility
//	        × availability_factor(availability, severity)
//	        × exp(-distance_km / decay)          (1 when the distance is unknown)
//	        × exp(-overwork_strength × overage)  (1 within quota)
//
// Every factor lies in [0,1], so 0 ≤ W_adj ≤ compatibility.
package scoring

import (
	"math"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultDecayKM            = 30
	defaultOverworkStrength   = 0.1
	defaultHighSeveritySpread = 2
	defaultLowSeveritySpread  = 0.5
)

// DefaultAvailability holds the base multipliers per category.
var DefaultAvailability = map[model.Availability]float64{
	model.Rarely:      0.6,
	model.Generally:   0.85,
	model.Immediately: 1,
}

// Input is one candidate's raw signals.
type Input struct {
	Compatibility float64
	Availability  model.Availability
	Severity      model.Severity
	DistanceKM    float64
	DistanceKnown bool
	// Overage is the number of hours by which the task would exceed quota.
	Overage float64
}

// Result is the adjusted weight and the factors that produced it.
type Result struct {
	WAdj    float64
	Factors model.Factors
}

// Scorer is a pure, immutable function of its configuration.
type Scorer struct {
	base             map[model.Availability]float64
	decayKM          float64
	overworkStrength float64
	highSpread       float64
	lowSpread        float64
}

// New builds a scorer with defaults overridden by opts.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		base:             copyMultipliers(DefaultAvailability),
		decayKM:          defaultDecayKM,
		overworkStrength: defaultOverworkStrength,
		highSpread:       defaultHighSeveritySpread,
		lowSpread:        defaultLowSeveritySpread,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes W_adj for one candidate.
func (s *Scorer) Score(in Input) Result {
	compat := clamp01(in.Compatibility)
	f := model.Factors{
		Availability: s.AvailabilityFactor(in.Availability, in.Severity),
		Distance:     s.DistanceFactor(in.DistanceKM, in.DistanceKnown),
		Overwork:     s.OverworkPenalty(in.Overage),
	}
	w := compat * f.Availability * f.Distance * f.Overwork
	return Result{WAdj: math.Min(clamp01(w), compat), Factors: f}
}

// AvailabilityFactor scales the category's shortfall from 1 by a severity
// dependent spread: HIGH widens it, LOW narrows it, NORMAL keeps the base.
func (s *Scorer) AvailabilityFactor(a model.Availability, sev model.Severity) float64 {
	base, ok := s.base[a]
	if !ok {
		base = s.base[model.Generally]
	}
	spread := 1.0
	switch sev {
	case model.SeverityHigh:
		spread = s.highSpread
	case model.SeverityLow:
		spread = s.lowSpread
	}
	return clamp01(1 - (1-base)*spread)
}

// DistanceFactor is exp(-d/decay), or exactly 1 when the distance is unknown
// or not a finite number.
func (s *Scorer) DistanceFactor(km float64, known bool) float64 {
	if !known || km <= 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		return 1
	}
	return math.Exp(-km / s.decayKM)
}

// OverworkPenalty is 1 within quota and decays exponentially with the overage.
func (s *Scorer) OverworkPenalty(overage float64) float64 {
	if overage <= 0 {
		return 1
	}
	return math.Exp(-s.overworkStrength * overage)
}

// Overage is the number of hours by which assigned+task exceeds quota.
func Overage(assigned, task, quota float64) float64 {
	return math.Max(0, assigned+task-quota)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func copyMultipliers(in map[model.Availability]float64) map[model.Availability]float64 {
	out := make(map[model.Availability]float64, len(in))
	for k, v := range in {
		out[k] = clamp01(v)
	}
	return out
}
