// Package featurestore loads the engine's reference datasets and serves them
// read-only for the lifetime of the process.
package featurestore

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/textnorm"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

// DefaultFallbackSkills are the skills typically needed for village work.
var DefaultFallbackSkills = []string{
	"plumbing", "masonry", "electrical", "carpentry", "first aid", "nursing",
	"teaching", "agriculture", "water management", "sanitation", "construction",
	"solar installation", "community outreach", "data entry", "driving",
}

// Paths names the dataset files. Empty paths are skipped.
type Paths struct {
	People       string
	Proposals    string
	Pairs        string
	Villages     string
	Distances    string
	Availability string
	Schedule     string
}

type villagePair struct{ a, b string }

func pairKey(a, b string) villagePair {
	a, b = textnorm.Phrase(a), textnorm.Phrase(b)
	if b < a {
		a, b = b, a
	}
	return villagePair{a, b}
}

// Store is an immutable snapshot of the reference datasets.
type Store struct {
	people    []model.Person
	byID      map[string]int
	proposals []model.Proposal
	byProp    map[string]int
	pairs     []model.HistoricalPair
	villages  []model.Village
	names     []string
	distances map[villagePair]float64
	legend    map[model.Availability]float64
	schedule  []ScheduleEntry
	vocab     []string
	fallback  []string
}

// Load reads every configured dataset concurrently.
func Load(ctx context.Context, paths Paths, opts ...Option) (*Store, error) {
	s := settings{defaultQuota: 5, fallbackSkills: DefaultFallbackSkills}
	for _, opt := range opts {
		opt(&s)
	}

	var (
		people    []model.Person
		proposals []model.Proposal
		pairs     []model.HistoricalPair
		villages  []model.Village
		distances []model.DistanceEntry
		legend    map[model.Availability]float64
		schedule  []ScheduleEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	load := func(path string, fn func() error) {
		if path == "" {
			return
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}
	load(paths.People, func() (err error) {
		people, err = LoadPeople(gctx, paths.People, s.defaultQuota)
		return err
	})
	load(paths.Proposals, func() (err error) {
		proposals, err = LoadProposals(paths.Proposals)
		return err
	})
	load(paths.Pairs, func() (err error) {
		pairs, err = LoadPairs(paths.Pairs)
		return err
	})
	load(paths.Villages, func() (err error) {
		villages, err = LoadVillages(paths.Villages)
		return err
	})
	load(paths.Distances, func() (err error) {
		distances, err = LoadDistances(paths.Distances)
		return err
	})
	load(paths.Availability, func() (err error) {
		legend, err = LoadAvailabilityLegend(paths.Availability)
		return err
	})
	load(paths.Schedule, func() (err error) {
		schedule, err = LoadSchedule(paths.Schedule)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := New(people, proposals, pairs, villages, distances, legend, schedule, s.fallbackSkills)
	logger.Named("featurestore").Info(ctx, "datasets loaded",
		logger.Int("people", len(st.people)),
		logger.Int("proposals", len(st.proposals)),
		logger.Int("pairs", len(st.pairs)),
		logger.Int("villages", len(st.names)),
		logger.Int("distances", len(st.distances)),
		logger.Int("schedule", len(st.schedule)),
	)
	return st, nil
}

// New builds a store from in-memory datasets.
func New(
	people []model.Person,
	proposals []model.Proposal,
	pairs []model.HistoricalPair,
	villages []model.Village,
	distances []model.DistanceEntry,
	legend map[model.Availability]float64,
	schedule []ScheduleEntry,
	fallback []string,
) *Store {
	st := &Store{
		people:    people,
		byID:      make(map[string]int, len(people)),
		proposals: proposals,
		byProp:    make(map[string]int, len(proposals)),
		pairs:     pairs,
		villages:  villages,
		distances: make(map[villagePair]float64, len(distances)),
		legend:    legend,
		schedule:  schedule,
	}
	for i, p := range people {
		st.byID[p.ID] = i
	}
	for i, p := range proposals {
		st.byProp[p.ID] = i
	}

	names := make(map[string]string)
	addName := func(n string) {
		if k := textnorm.Phrase(n); k != "" {
			if _, ok := names[k]; !ok {
				names[k] = strings.TrimSpace(n)
			}
		}
	}
	for _, v := range villages {
		addName(v.Name)
	}
	for _, d := range distances {
		addName(d.VillageA)
		addName(d.VillageB)
		if d.DistanceKM < 0 || math.IsNaN(d.DistanceKM) || math.IsInf(d.DistanceKM, 0) {
			continue
		}
		st.distances[pairKey(d.VillageA, d.VillageB)] = d.DistanceKM
	}
	for _, n := range names {
		st.names = append(st.names, n)
	}
	sort.Strings(st.names)

	vocab := make(map[string]struct{})
	for _, p := range people {
		for _, sk := range p.Skills {
			vocab[sk] = struct{}{}
		}
	}
	for _, sk := range fallback {
		if n := textnorm.Phrase(sk); n != "" {
			vocab[n] = struct{}{}
			st.fallback = append(st.fallback, n)
		}
	}
	for sk := range vocab {
		st.vocab = append(st.vocab, sk)
	}
	sort.Strings(st.vocab)
	return st
}

// People returns the roster in file order.
func (s *Store) People() []model.Person { return s.people }

// Person looks up a roster entry.
func (s *Store) Person(id string) (model.Person, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Person{}, false
	}
	return s.people[i], true
}

// Proposals returns historical proposals.
func (s *Store) Proposals() []model.Proposal { return s.proposals }

// Proposal looks up a historical proposal.
func (s *Store) Proposal(id string) (model.Proposal, bool) {
	i, ok := s.byProp[id]
	if !ok {
		return model.Proposal{}, false
	}
	return s.proposals[i], true
}

// Pairs returns labelled historical pairs.
func (s *Store) Pairs() []model.HistoricalPair { return s.pairs }

// Villages returns the gazetteer rows that carry coordinates.
func (s *Store) Villages() []model.Village { return s.villages }

// VillageNames returns every known village spelling, sorted.
func (s *Store) VillageNames() []string { return s.names }

// Distance returns the symmetric distance between two villages. The same
// village is at distance 0; unknown pairs report false.
func (s *Store) Distance(a, b string) (float64, bool) {
	k := pairKey(a, b)
	if k.a == "" || k.b == "" {
		return 0, false
	}
	if k.a == k.b {
		return 0, true
	}
	d, ok := s.distances[k]
	return d, ok
}

// AvailabilityLegend returns the category multipliers from the legend file, if any.
func (s *Store) AvailabilityLegend() map[model.Availability]float64 { return s.legend }

// Schedule returns pre-existing busy windows.
func (s *Store) Schedule() []ScheduleEntry { return s.schedule }

// SkillVocabulary returns every known skill (roster and fallback), sorted.
func (s *Store) SkillVocabulary() []string { return s.vocab }

// FallbackSkills returns the normalized village fallback skills.
func (s *Store) FallbackSkills() []string { return s.fallback }

// DeriveSkills infers required skills from free text: vocabulary skills whose
// phrase occurs in the text, otherwise fallback skills sharing a content token.
func (s *Store) DeriveSkills(text string) []string {
	text = textnorm.Phrase(text)
	var out []string
	for _, sk := range s.vocab {
		if textnorm.ContainsPhrase(text, sk) {
			out = append(out, sk)
		}
	}
	if len(out) > 0 {
		return out
	}
	tokens := make(map[string]struct{})
	for _, t := range textnorm.ContentTokens(text) {
		tokens[t] = struct{}{}
	}
	for _, sk := range s.fallback {
		for _, t := range textnorm.ContentTokens(sk) {
			if _, ok := tokens[t]; ok {
				out = append(out, sk)
				break
			}
		}
	}
	return out
}
