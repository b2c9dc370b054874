package ultra

import "sort"

const improvementEpsilon = 1e-12

// enumerate scores every k-subset of the pool in lexicographic index order.
func (a *arena) enumerate() []scoredTeam {
	n, k := len(a.pool), a.size
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	var out []scoredTeam
	for {
		members := make([]int, k)
		copy(members, idx)
		out = append(out, a.evaluate(members))

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// search builds teams greedily from several seeds and improves each with
// single-member swaps. Every full-size team it scores becomes a candidate.
func (a *arena) search(numTeams int) []scoredTeam {
	seen := make(map[string]scoredTeam)
	record := func(t scoredTeam) {
		if _, ok := seen[t.key]; !ok {
			seen[t.key] = t
		}
	}

	seeds := 2 * numTeams
	if seeds < minSeeds {
		seeds = minSeeds
	}
	if seeds > len(a.pool) {
		seeds = len(a.pool)
	}

	for s := 0; s < seeds; s++ {
		team := a.greedy(s)
		record(team)
		a.improve(team, record)
	}

	out := make([]scoredTeam, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	// Map iteration order is random; fix an order before the stable ranking sort.
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// greedy starts from the seed member and repeatedly adds the member that
// maximizes the partial team's goodness, breaking ties by lower index.
func (a *arena) greedy(seed int) scoredTeam {
	in := make([]bool, len(a.pool))
	members := []int{seed}
	in[seed] = true

	for len(members) < a.size {
		best, bestScore := -1, 0.0
		for j := range a.pool {
			if in[j] {
				continue
			}
			score := a.evaluate(withMember(members, j)).metrics.Goodness
			if best < 0 || score > bestScore+improvementEpsilon {
				best, bestScore = j, score
			}
		}
		in[best] = true
		members = withMember(members, best)
	}
	return a.evaluate(members)
}

// improve applies the best single swap until no swap helps or the round cap hits.
func (a *arena) improve(t scoredTeam, record func(scoredTeam)) {
	current := t
	for round := 0; round < maxSwapRounds; round++ {
		in := make([]bool, len(a.pool))
		for _, m := range current.members {
			in[m] = true
		}

		best := current
		for pos := range current.members {
			for j := range a.pool {
				if in[j] {
					continue
				}
				cand := a.evaluate(swapMember(current.members, pos, j))
				record(cand)
				if cand.metrics.Goodness > best.metrics.Goodness+improvementEpsilon {
					best = cand
				}
			}
		}
		if best.key == current.key {
			return
		}
		current = best
	}
}

// withMember returns a sorted copy of members plus j.
func withMember(members []int, j int) []int {
	out := make([]int, 0, len(members)+1)
	out = append(out, members...)
	out = append(out, j)
	sort.Ints(out)
	return out
}

// swapMember returns a sorted copy of members with position pos replaced by j.
func swapMember(members []int, pos, j int) []int {
	out := make([]int, len(members))
	copy(out, members)
	out[pos] = j
	sort.Ints(out)
	return out
}
