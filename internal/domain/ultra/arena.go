package ultra

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/textnorm"
)

// arena holds the restricted pool and per-member precomputations.
type arena struct {
	sel      *Selector
	pool     []model.Candidate
	size     int
	required int
	// covers[i] lists the required-skill indices member i has.
	covers [][]int
	ids    []string
}

type scoredTeam struct {
	members []int // ascending pool indices
	metrics model.TeamMetrics
	key     string
}

func newArena(sel *Selector, pool []model.Candidate, required []string, size int) *arena {
	reqIndex := make(map[string]int)
	for _, r := range required {
		p := textnorm.Phrase(r)
		if p == "" {
			continue
		}
		if _, ok := reqIndex[p]; !ok {
			reqIndex[p] = len(reqIndex)
		}
	}

	a := &arena{
		sel:      sel,
		pool:     pool,
		size:     size,
		required: len(reqIndex),
		covers:   make([][]int, len(pool)),
		ids:      make([]string, len(pool)),
	}
	for i, c := range pool {
		a.ids[i] = c.Person.ID
		seen := make(map[int]struct{})
		for _, skill := range c.Person.Skills {
			if idx, ok := reqIndex[textnorm.Phrase(skill)]; ok {
				if _, dup := seen[idx]; !dup {
					seen[idx] = struct{}{}
					a.covers[i] = append(a.covers[i], idx)
				}
			}
		}
		sort.Ints(a.covers[i])
	}
	return a
}

// evaluate computes the metric vector of a member index set.
func (a *arena) evaluate(members []int) scoredTeam {
	s := a.sel
	m := model.TeamMetrics{TeamSize: len(members), WillingnessMin: math.Inf(1)}

	counts := make([]int, a.required)
	var willSum float64
	for _, i := range members {
		for _, r := range a.covers[i] {
			counts[r]++
		}
		w := a.pool[i].WAdj
		willSum += w
		if w < m.WillingnessMin {
			m.WillingnessMin = w
		}
		if a.pool[i].DistanceKnown {
			m.AggregateDistanceKM += a.pool[i].DistanceKM
		}
	}
	if len(members) > 0 {
		m.WillingnessAvg = willSum / float64(len(members))
	} else {
		m.WillingnessMin = 0
	}

	robustness := 1.0
	if a.required == 0 {
		m.Coverage = 1
		m.KRobustness = len(members)
	} else {
		covered := 0
		minCount := math.MaxInt
		excess := 0
		for _, c := range counts {
			if c > 0 {
				covered++
			}
			if c < minCount {
				minCount = c
			}
			if c > s.robustTarget {
				excess += c - s.robustTarget
			}
		}
		m.Coverage = float64(covered) / float64(a.required)
		m.KRobustness = minCount
		robustness = math.Min(float64(minCount), float64(s.robustTarget)) / float64(s.robustTarget)

		slack := len(members) - s.robustTarget
		if slack < 1 {
			slack = 1
		}
		m.Redundancy = math.Min(1, float64(excess)/float64(a.required*slack))
	}
	m.SizeFit = 1 / (1 + math.Abs(float64(len(members)-a.size)))

	den := s.coverageWeight + s.robustnessWeight + s.lambdaWillingness + s.lambdaSize
	if den > 0 {
		m.Goodness = (s.coverageWeight*m.Coverage +
			s.robustnessWeight*robustness +
			s.lambdaWillingness*m.WillingnessAvg +
			s.lambdaSize*m.SizeFit -
			s.lambdaRedundancy*m.Redundancy) / den
	}

	return scoredTeam{members: members, metrics: m, key: a.key(members)}
}

func (a *arena) key(members []int) string {
	var b strings.Builder
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(m))
	}
	return b.String()
}

// sortedIDs returns the member ids in lexicographic order.
func (a *arena) sortedIDs(members []int) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = a.ids[m]
	}
	sort.Strings(ids)
	return ids
}

// sortTeams orders by goodness desc, aggregate distance asc, then the
// lexicographically smallest sorted member-id tuple.
func (a *arena) sortTeams(teams []scoredTeam) {
	sort.SliceStable(teams, func(i, j int) bool {
		ti, tj := teams[i].metrics, teams[j].metrics
		if ti.Goodness != tj.Goodness {
			return ti.Goodness > tj.Goodness
		}
		if ti.AggregateDistanceKM != tj.AggregateDistanceKM {
			return ti.AggregateDistanceKM < tj.AggregateDistanceKM
		}
		return lessIDs(a.sortedIDs(teams[i].members), a.sortedIDs(teams[j].members))
	})
}

func lessIDs(x, y []string) bool {
	for i := 0; i < len(x) && i < len(y); i++ {
		if x[i] != y[i] {
			return x[i] < y[i]
		}
	}
	return len(x) < len(y)
}

// team materializes a scored index set.
func (a *arena) team(t scoredTeam) model.Team {
	members := make([]model.Candidate, len(t.members))
	for i, m := range t.members {
		members[i] = a.pool[m]
	}
	return model.Team{Members: members, Metrics: t.metrics}
}
