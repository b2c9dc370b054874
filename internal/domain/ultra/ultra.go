// Package ultra builds candidate teams of a fixed size and ranks them by a
// composite of coverage, robustness, redundancy, size fit and willingness.
//
// Candidates live in an arena indexed by their position in the W_adj order;
// teams are index subsets. Search is exhaustive while C(M, k) stays under the
// enumeration ceiling and falls back to greedy construction plus local swaps.
package ultra

import (
	"sort"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
)

// Strategy names how teams were generated.
type Strategy string

// Generation strategies.
const (
	StrategyExhaustive Strategy = "exhaustive"
	StrategyHeuristic  Strategy = "heuristic"
	StrategyNone       Strategy = "none"
)

// Request is one selection problem.
type Request struct {
	Candidates     []model.Candidate
	RequiredSkills []string
	TeamSize       int
	NumTeams       int
	// UniqueMembers skips teams that share a member with a better-ranked team.
	UniqueMembers bool
}

// Shortfall reports a candidate pool smaller than the team size.
type Shortfall struct {
	Requested int
	Available int
	Deficit   int
}

// Result is the ranked selection.
type Result struct {
	Teams     []model.Team
	Strategy  Strategy
	Evaluated int
	PoolSize  int
	Shortfall *Shortfall
}

// Selector is immutable configuration; Select is safe for concurrent use.
type Selector struct {
	poolCap           int
	ceiling           int
	robustTarget      int
	coverageWeight    float64
	robustnessWeight  float64
	lambdaRedundancy  float64
	lambdaSize        float64
	lambdaWillingness float64
}

// New creates a selector with defaults overridden by opts.
func New(opts ...Option) *Selector {
	s := &Selector{
		poolCap:           DefaultPoolCap,
		ceiling:           DefaultEnumerationCeiling,
		robustTarget:      DefaultRobustnessTarget,
		coverageWeight:    DefaultCoverageWeight,
		robustnessWeight:  DefaultRobustnessWeight,
		lambdaRedundancy:  DefaultLambdaRedundancy,
		lambdaSize:        DefaultLambdaSize,
		lambdaWillingness: DefaultLambdaWillingness,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select generates, scores and ranks teams.
func (s *Selector) Select(req Request) (Result, error) {
	if req.TeamSize < 1 {
		return Result{}, ErrInvalidTeamSize
	}
	if req.NumTeams < 1 {
		return Result{}, ErrInvalidNumTeams
	}

	pool := rankPool(req.Candidates)
	if len(pool) < req.TeamSize {
		return Result{
			Strategy: StrategyNone,
			PoolSize: len(pool),
			Shortfall: &Shortfall{
				Requested: req.TeamSize,
				Available: len(pool),
				Deficit:   req.TeamSize - len(pool),
			},
		}, nil
	}

	limit := s.poolCap
	if limit < req.TeamSize {
		limit = req.TeamSize
	}
	if len(pool) > limit {
		pool = pool[:limit]
	}

	a := newArena(s, pool, req.RequiredSkills, req.TeamSize)
	var scored []scoredTeam
	strategy := StrategyExhaustive
	if binomial(len(pool), req.TeamSize, s.ceiling) <= s.ceiling {
		scored = a.enumerate()
	} else {
		strategy = StrategyHeuristic
		scored = a.search(req.NumTeams)
	}

	a.sortTeams(scored)
	picked := pick(scored, req.NumTeams, req.UniqueMembers)

	teams := make([]model.Team, len(picked))
	for i, t := range picked {
		teams[i] = a.team(t)
	}
	return Result{Teams: teams, Strategy: strategy, Evaluated: len(scored), PoolSize: len(pool)}, nil
}

// rankPool orders candidates by W_adj desc, then compatibility desc, then id
// asc, dropping repeated person ids.
func rankPool(in []model.Candidate) []model.Candidate {
	pool := make([]model.Candidate, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		if _, dup := seen[c.Person.ID]; dup {
			continue
		}
		seen[c.Person.ID] = struct{}{}
		pool = append(pool, c)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.WAdj != b.WAdj {
			return a.WAdj > b.WAdj
		}
		if a.Compatibility != b.Compatibility {
			return a.Compatibility > b.Compatibility
		}
		return a.Person.ID < b.Person.ID
	})
	return pool
}

// pick returns the first n teams, optionally skipping member overlaps.
func pick(sorted []scoredTeam, n int, unique bool) []scoredTeam {
	out := make([]scoredTeam, 0, n)
	used := make(map[int]struct{})
	for _, t := range sorted {
		if len(out) == n {
			break
		}
		if unique {
			clash := false
			for _, m := range t.members {
				if _, ok := used[m]; ok {
					clash = true
					break
				}
			}
			if clash {
				continue
			}
			for _, m := range t.members {
				used[m] = struct{}{}
			}
		}
		out = append(out, t)
	}
	return out
}

// binomial returns C(n, k), or limit+1 as soon as the value exceeds limit.
func binomial(n, k, limit int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
		if result > limit {
			return limit + 1
		}
	}
	return result
}
