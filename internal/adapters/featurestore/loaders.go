package featurestore

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/textnorm"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

// ScheduleEntry is a pre-existing busy window for a person.
type ScheduleEntry struct {
	PersonID string
	Start    time.Time
	End      time.Time
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// ParseTime accepts RFC 3339 and the common spreadsheet layouts (UTC).
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable time %q", ErrMalformedDataset, s)
}

func parseFloat(t *table, row int, col int, field string, def float64) (float64, error) {
	v := cell(t.rows[row], col)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s row %d: %s=%q", ErrMalformedDataset, t.path, row+2, field, v)
	}
	return f, nil
}

// LoadPeople reads the roster. Rows without skills are skipped with a warning;
// unknown availability falls back to "generally".
func LoadPeople(ctx context.Context, path string, defaultQuota float64) ([]model.Person, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	idCol, err := t.require("id", "person_id", "volunteer_id")
	if err != nil {
		return nil, err
	}
	skillsCol, err := t.require("skills", "skill_set", "skill")
	if err != nil {
		return nil, err
	}
	nameCol, _ := t.column("name", "full_name")
	availCol, _ := t.column("availability", "availability_level", "available")
	homeCol, _ := t.column("home_location", "village", "location", "home_village")
	quotaCol, _ := t.column("weekly_quota", "weekly_quota_hours", "quota_hours")
	assignedCol, _ := t.column("assigned_hours", "hours_assigned", "hours_this_week")

	log := logger.Named("featurestore")
	people := make([]model.Person, 0, len(t.rows))
	seen := make(map[string]struct{}, len(t.rows))
	for i, rec := range t.rows {
		p := model.Person{
			ID:           cell(rec, idCol),
			Name:         cell(rec, nameCol),
			HomeLocation: cell(rec, homeCol),
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		for _, s := range splitList(cell(rec, skillsCol)) {
			if n := textnorm.Phrase(s); n != "" && !p.HasSkill(n) {
				p.Skills = append(p.Skills, n)
			}
		}
		if raw := cell(rec, availCol); raw != "" {
			a, perr := model.ParseAvailability(raw)
			if perr != nil {
				log.Warn(ctx, "unknown availability, using generally", logger.String("person", p.ID), logger.String("value", raw))
			}
			p.Availability = a
		} else {
			p.Availability = model.Generally
		}
		if p.WeeklyQuotaHours, err = parseFloat(t, i, quotaCol, "weekly_quota", defaultQuota); err != nil {
			return nil, err
		}
		if p.AssignedHours, err = parseFloat(t, i, assignedCol, "assigned_hours", 0); err != nil {
			return nil, err
		}

		if verr := p.Validate(); verr != nil {
			log.Warn(ctx, "skipping roster row", logger.Int("row", i+2), logger.Error(verr))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			log.Warn(ctx, "skipping duplicate person", logger.String("person", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		people = append(people, p)
	}
	return people, nil
}

// LoadProposals reads historical proposals.
func LoadProposals(path string) ([]model.Proposal, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	idCol, err := t.require("id", "proposal_id")
	if err != nil {
		return nil, err
	}
	textCol, err := t.require("text", "description", "proposal_text")
	if err != nil {
		return nil, err
	}
	catCol, _ := t.column("category", "severity")
	villageCol, _ := t.column("village", "location", "village_name")
	skillsCol, _ := t.column("required_skills", "skills")

	out := make([]model.Proposal, 0, len(t.rows))
	for _, rec := range t.rows {
		p := model.Proposal{
			ID:             cell(rec, idCol),
			Text:           cell(rec, textCol),
			Category:       cell(rec, catCol),
			Village:        cell(rec, villageCol),
			RequiredSkills: splitList(cell(rec, skillsCol)),
		}
		if p.ID == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadPairs reads labelled (person, proposal) outcomes.
func LoadPairs(path string) ([]model.HistoricalPair, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	personCol, err := t.require("person_id", "volunteer_id")
	if err != nil {
		return nil, err
	}
	proposalCol, err := t.require("proposal_id", "problem_id")
	if err != nil {
		return nil, err
	}
	labelCol, err := t.require("label", "match", "outcome")
	if err != nil {
		return nil, err
	}

	out := make([]model.HistoricalPair, 0, len(t.rows))
	for i, rec := range t.rows {
		label, err := parseLabel(cell(rec, labelCol))
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", ErrMalformedDataset, t.path, i+2, err)
		}
		out = append(out, model.HistoricalPair{
			PersonID:   cell(rec, personCol),
			ProposalID: cell(rec, proposalCol),
			Label:      label,
		})
	}
	return out, nil
}

func parseLabel(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "good", "1.0":
		return true, nil
	case "0", "false", "no", "n", "bad", "0.0":
		return false, nil
	}
	return false, fmt.Errorf("bad label %q", s)
}

// LoadVillages reads the gazetteer with coordinates.
func LoadVillages(path string) ([]model.Village, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	nameCol, err := t.require("name", "village", "village_name")
	if err != nil {
		return nil, err
	}
	latCol, _ := t.column("lat", "latitude")
	lngCol, _ := t.column("lng", "lon", "long", "longitude")

	out := make([]model.Village, 0, len(t.rows))
	for i, rec := range t.rows {
		v := model.Village{Name: cell(rec, nameCol)}
		if v.Name == "" {
			continue
		}
		if v.Lat, err = parseFloat(t, i, latCol, "lat", 0); err != nil {
			return nil, err
		}
		if v.Lng, err = parseFloat(t, i, lngCol, "lng", 0); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadDistances reads the village distance table.
func LoadDistances(path string) ([]model.DistanceEntry, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	aCol, err := t.require("village_a", "from", "source")
	if err != nil {
		return nil, err
	}
	bCol, err := t.require("village_b", "to", "destination")
	if err != nil {
		return nil, err
	}
	dCol, err := t.require("distance_km", "distance", "km")
	if err != nil {
		return nil, err
	}
	minCol, _ := t.column("travel_time_min", "travel_minutes")

	out := make([]model.DistanceEntry, 0, len(t.rows))
	for i, rec := range t.rows {
		e := model.DistanceEntry{VillageA: cell(rec, aCol), VillageB: cell(rec, bCol)}
		if e.DistanceKM, err = parseFloat(t, i, dCol, "distance_km", -1); err != nil {
			return nil, err
		}
		if e.TravelMinutes, err = parseFloat(t, i, minCol, "travel_time_min", 0); err != nil {
			return nil, err
		}
		if math.IsNaN(e.DistanceKM) || math.IsInf(e.DistanceKM, 0) {
			logger.Named("featurestore").Warn(context.Background(), "ignoring non-finite distance",
				logger.String("file", path),
				logger.Int("row", i+2),
				logger.String("value", cell(rec, dCol)),
			)
			continue
		}
		if e.VillageA == "" || e.VillageB == "" || e.DistanceKM < 0 {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// LoadAvailabilityLegend reads category multipliers.
func LoadAvailabilityLegend(path string) (map[model.Availability]float64, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	catCol, err := t.require("category", "availability", "level")
	if err != nil {
		return nil, err
	}
	mulCol, err := t.require("multiplier", "factor", "weight")
	if err != nil {
		return nil, err
	}

	out := make(map[model.Availability]float64, len(t.rows))
	for i, rec := range t.rows {
		a, err := model.ParseAvailability(cell(rec, catCol))
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", ErrMalformedDataset, t.path, i+2, err)
		}
		m, err := parseFloat(t, i, mulCol, "multiplier", 1)
		if err != nil {
			return nil, err
		}
		out[a] = m
	}
	return out, nil
}

// LoadSchedule reads existing busy windows.
func LoadSchedule(path string) ([]ScheduleEntry, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	personCol, err := t.require("person_id", "volunteer_id", "id")
	if err != nil {
		return nil, err
	}
	startCol, err := t.require("start", "start_time", "task_start")
	if err != nil {
		return nil, err
	}
	endCol, err := t.require("end", "end_time", "task_end")
	if err != nil {
		return nil, err
	}

	out := make([]ScheduleEntry, 0, len(t.rows))
	for _, rec := range t.rows {
		start, err := ParseTime(cell(rec, startCol))
		if err != nil {
			return nil, err
		}
		end, err := ParseTime(cell(rec, endCol))
		if err != nil {
			return nil, err
		}
		if !end.After(start) {
			continue
		}
		out = append(out, ScheduleEntry{PersonID: cell(rec, personCol), Start: start, End: end})
	}
	return out, nil
}
