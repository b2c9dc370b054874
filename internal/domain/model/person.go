// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Availability is a volunteer's declared responsiveness.
type Availability int

// Availability categories ordered from least to most responsive.
const (
	Rarely Availability = iota
	Generally
	Immediately
)

// Level returns the ordinal used by feature extraction (0..2).
func (a Availability) Level() int { return int(a) }

func (a Availability) String() string {
	switch a {
	case Rarely:
		return "rarely"
	case Immediately:
		return "immediately"
	default:
		return "generally"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Availability) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Availability) UnmarshalText(b []byte) error {
	v, err := ParseAvailability(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAvailability accepts the category names as well as the phrasing found in
// roster exports ("immediately available", "rarely free", ...).
func ParseAvailability(s string) (Availability, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "immediate"):
		return Immediately, nil
	case strings.Contains(v, "rare"), strings.Contains(v, "seldom"):
		return Rarely, nil
	case strings.Contains(v, "general"), strings.Contains(v, "usual"), strings.Contains(v, "regular"):
		return Generally, nil
	}
	return Generally, fmt.Errorf("%w: %q", ErrUnknownAvailability, s)
}

// Person is a volunteer on the roster.
type Person struct {
	ID               string
	Name             string
	Skills           []string
	Availability     Availability
	HomeLocation     string
	WeeklyQuotaHours float64
	// AssignedHours is the baseline already committed this week when the roster was exported.
	AssignedHours float64
}

// SkillProfile is the text the compatibility model embeds for this person.
func (p Person) SkillProfile() string {
	return strings.Join(p.Skills, " ; ")
}

// HasSkill reports whether the person lists the (normalized) skill.
func (p Person) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Validate checks the invariants a roster entry must satisfy.
func (p Person) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if len(p.Skills) == 0 {
		return fmt.Errorf("%w: person %s", ErrNoSkills, p.ID)
	}
	if p.WeeklyQuotaHours < 0 || p.AssignedHours < 0 {
		return fmt.Errorf("%w: person %s", ErrNegativeHours, p.ID)
	}
	return nil
}
