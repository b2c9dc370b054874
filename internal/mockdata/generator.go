// Package mockdata generates deterministic synthetic reference datasets with a
// learnable match signal, for demos, benchmarks and end-to-end tests.
package mockdata

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/featurestore"
	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
)

const (
	earthRadiusKM = 6371.0
	roadFactor    = 1.3
	kmPerMinute   = 0.6
)

// namespace derives stable proposal ids from the seed.
var namespace = uuid.MustParse("6f1c7d4e-2b1a-4c55-9a0e-5d7c1f3b8e21")

// Dataset is one generated set of reference tables.
type Dataset struct {
	People    []model.Person
	Proposals []model.Proposal
	Pairs     []model.HistoricalPair
	Villages  []model.Village
	Distances []model.DistanceEntry
	Legend    map[model.Availability]float64
	Schedule  []featurestore.ScheduleEntry
}

// Store wraps the dataset as an in-memory feature store.
func (d *Dataset) Store() *featurestore.Store {
	return featurestore.New(d.People, d.Proposals, d.Pairs, d.Villages, d.Distances, d.Legend, d.Schedule,
		featurestore.DefaultFallbackSkills)
}

// Generate builds a dataset. The same config always yields the same dataset.
func Generate(cfg Config) *Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed))
	d := &Dataset{Legend: make(map[model.Availability]float64, len(legend))}

	for _, v := range villages {
		d.Villages = append(d.Villages, model.Village{Name: v.name, Lat: v.lat, Lng: v.lng})
	}
	for _, l := range legend {
		a, _ := model.ParseAvailability(l.category)
		d.Legend[a] = l.multiplier
	}
	dist := make(map[[2]string]float64)
	for i := 0; i < len(villages); i++ {
		for j := i + 1; j < len(villages); j++ {
			a, b := villages[i], villages[j]
			km := math.Round(haversine(a.lat, a.lng, b.lat, b.lng)*roadFactor*10) / 10
			dist[[2]string{a.name, b.name}] = km
			dist[[2]string{b.name, a.name}] = km
			if rng.Float64() < cfg.MissingDistanceRate {
				continue
			}
			d.Distances = append(d.Distances, model.DistanceEntry{
				VillageA:      a.name,
				VillageB:      b.name,
				DistanceKM:    km,
				TravelMinutes: math.Round(km / kmPerMinute),
			})
		}
	}

	for i := 0; i < cfg.People; i++ {
		p := model.Person{
			ID:               fmt.Sprintf("P%03d", i+1),
			Name:             firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			Availability:     model.Availability(rng.Intn(3)),
			HomeLocation:     villages[rng.Intn(len(villages))].name,
			WeeklyQuotaHours: 5,
			AssignedHours:    float64(rng.Intn(5)),
		}
		n := 1 + rng.Intn(3)
		for _, k := range rng.Perm(len(skillPool))[:n] {
			p.Skills = append(p.Skills, skillPool[k])
		}
		d.People = append(d.People, p)
	}

	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for i, p := range d.People {
		if i%4 != 0 {
			continue
		}
		start := base.Add(time.Duration(rng.Intn(5*24)) * time.Hour)
		d.Schedule = append(d.Schedule, featurestore.ScheduleEntry{
			PersonID: p.ID,
			Start:    start,
			End:      start.Add(time.Duration(1+rng.Intn(4)) * time.Hour),
		})
	}

	for i := 0; i < cfg.Proposals; i++ {
		tpl := templates[rng.Intn(len(templates))]
		village := villages[rng.Intn(len(villages))].name
		prop := model.Proposal{
			ID:             uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%d/%d", cfg.Seed, i))).String(),
			Text:           fmt.Sprintf(tpl.text, village),
			Category:       tpl.severity,
			Village:        village,
			RequiredSkills: tpl.skills,
		}
		d.Proposals = append(d.Proposals, prop)

		for _, k := range rng.Perm(len(d.People))[:min(cfg.PairsPerProposal, len(d.People))] {
			person := d.People[k]
			km := dist[[2]string{person.HomeLocation, village}]
			d.Pairs = append(d.Pairs, model.HistoricalPair{
				PersonID:   person.ID,
				ProposalID: prop.ID,
				Label:      affinity(person, tpl.skills, km)+rng.NormFloat64()*0.4 > 1,
			})
		}
	}
	return d
}

// affinity is the hidden signal a model should recover: skill overlap first,
// then responsiveness and proximity.
func affinity(p model.Person, required []string, km float64) float64 {
	overlap := 0
	for _, r := range required {
		if p.HasSkill(r) {
			overlap++
		}
	}
	return 1.5*float64(overlap) + 0.3*float64(p.Availability.Level()) - km/60
}

func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

func sortedLegend(m map[model.Availability]float64) []model.Availability {
	keys := make([]model.Availability, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func joinSkills(skills []string) string { return strings.Join(skills, ";") }
