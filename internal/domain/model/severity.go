package model

import (
	"fmt"
	"strings"
)

// Severity is the urgency of a reported problem.
type Severity int

// Severity levels.
const (
	SeverityLow Severity = iota
	SeverityNormal
	SeverityHigh
)

// Level returns the ordinal used by feature extraction (0..2).
func (s Severity) Level() int { return int(s) }

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityHigh:
		return "HIGH"
	default:
		return "NORMAL"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity parses a level name, accepting a few common aliases.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW", "MINOR":
		return SeverityLow, nil
	case "NORMAL", "MEDIUM", "MODERATE":
		return SeverityNormal, nil
	case "HIGH", "CRITICAL", "URGENT":
		return SeverityHigh, nil
	}
	return SeverityNormal, fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
}

// Source tells where a severity assessment came from.
type Source string

// Assessment sources.
const (
	SourceAuto     Source = "AUTO"
	SourceOverride Source = "OVERRIDE"
)

// SeverityAssessment is either an automatic detection or a manual override.
// The interface is sealed; use Auto or Override to construct one.
type SeverityAssessment interface {
	Level() Severity
	Source() Source
	Confidence() float64
	sealed()
}

// AutoSeverity is a keyword-based detection with the share of matched cues
// that agreed with the chosen level.
type AutoSeverity struct {
	Value Severity
	Score float64
}

func (a AutoSeverity) Level() Severity     { return a.Value }
func (a AutoSeverity) Source() Source      { return SourceAuto }
func (a AutoSeverity) Confidence() float64 { return a.Score }
func (AutoSeverity) sealed()               {}

// OverrideSeverity is a level supplied by the reporter.
type OverrideSeverity struct {
	Value Severity
}

func (o OverrideSeverity) Level() Severity   { return o.Value }
func (OverrideSeverity) Source() Source      { return SourceOverride }
func (OverrideSeverity) Confidence() float64 { return 1 }
func (OverrideSeverity) sealed()             {}

// Auto builds an automatic assessment.
func Auto(level Severity, confidence float64) SeverityAssessment {
	return AutoSeverity{Value: level, Score: confidence}
}

// Override builds a manual assessment.
func Override(level Severity) SeverityAssessment {
	return OverrideSeverity{Value: level}
}
