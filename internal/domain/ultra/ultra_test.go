package ultra

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
)

func cand(id string, w float64, skills ...string) model.Candidate {
	return model.Candidate{
		Person:        model.Person{ID: id, Name: "name-" + id, Skills: skills},
		Compatibility: w,
		WAdj:          w,
	}
}

func roster(n int) []model.Candidate {
	skills := []string{"plumbing", "masonry", "first aid", "electrical", "teaching"}
	out := make([]model.Candidate, n)
	for i := 0; i < n; i++ {
		out[i] = cand(fmt.Sprintf("p%02d", i), 0.3+0.5*float64((i*7)%n)/float64(n),
			skills[i%len(skills)], skills[(i+2)%len(skills)])
		out[i].DistanceKM = float64(i % 4)
		out[i].DistanceKnown = true
	}
	return out
}

func checkTeams(res Result, size int) {
	seen := map[string]bool{}
	for i, team := range res.Teams {
		So(team.Members, ShouldHaveLength, size)
		So(team.Metrics.TeamSize, ShouldEqual, size)

		ids := map[string]bool{}
		for _, m := range team.Members {
			ids[m.Person.ID] = true
		}
		So(ids, ShouldHaveLength, size)

		key := fmt.Sprint(team.MemberIDs())
		So(seen[key], ShouldBeFalse)
		seen[key] = true

		if i > 0 {
			So(team.Metrics.Goodness, ShouldBeLessThanOrEqualTo, res.Teams[i-1].Metrics.Goodness)
		}
	}
}

func TestSelectExhaustive(t *testing.T) {
	Convey("Given a small roster", t, func() {
		s := New()
		req := Request{
			Candidates:     roster(8),
			RequiredSkills: []string{"plumbing", "First Aid"},
			TeamSize:       3,
			NumTeams:       5,
		}

		Convey("When selecting teams", func() {
			res, err := s.Select(req)
			So(err, ShouldBeNil)

			Convey("Then every team is full, distinct and ranked", func() {
				So(res.Strategy, ShouldEqual, StrategyExhaustive)
				So(res.Evaluated, ShouldEqual, 56)
				So(res.Shortfall, ShouldBeNil)
				So(res.Teams, ShouldHaveLength, 5)
				checkTeams(res, 3)
			})

			Convey("Then a repeat request gives the identical ranking", func() {
				again, err := s.Select(req)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, res)
			})
		})

		Convey("When members must be unique across teams", func() {
			req.UniqueMembers = true
			res, err := s.Select(req)
			So(err, ShouldBeNil)

			Convey("Then no person appears twice", func() {
				So(len(res.Teams), ShouldBeLessThanOrEqualTo, 2)
				used := map[string]bool{}
				for _, team := range res.Teams {
					for _, m := range team.Members {
						So(used[m.Person.ID], ShouldBeFalse)
						used[m.Person.ID] = true
					}
				}
			})
		})
	})
}

func TestSelectHeuristic(t *testing.T) {
	Convey("Given a pool too large to enumerate", t, func() {
		s := New(WithPoolCap(30), WithEnumerationCeiling(100))
		req := Request{
			Candidates:     roster(40),
			RequiredSkills: []string{"plumbing", "masonry", "electrical"},
			TeamSize:       4,
			NumTeams:       6,
		}

		res, err := s.Select(req)
		So(err, ShouldBeNil)

		Convey("Then the heuristic still returns full, distinct, ranked teams", func() {
			So(res.Strategy, ShouldEqual, StrategyHeuristic)
			So(res.PoolSize, ShouldEqual, 30)
			So(res.Teams, ShouldHaveLength, 6)
			checkTeams(res, 4)
		})

		Convey("Then the best team covers every required skill", func() {
			So(res.Teams[0].Metrics.Coverage, ShouldEqual, 1)
		})

		Convey("Then the result is deterministic", func() {
			again, err := s.Select(req)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, res)
		})
	})
}

func TestShortfall(t *testing.T) {
	Convey("Given three eligible candidates", t, func() {
		res, err := New().Select(Request{
			Candidates: []model.Candidate{cand("a", 0.9, "x"), cand("b", 0.8, "x"), cand("c", 0.7, "x")},
			TeamSize:   4,
			NumTeams:   5,
		})

		Convey("When four members are requested the deficit is reported", func() {
			So(err, ShouldBeNil)
			So(res.Teams, ShouldBeEmpty)
			So(res.Shortfall, ShouldResemble, &Shortfall{Requested: 4, Available: 3, Deficit: 1})
		})
	})

	Convey("Given repeated person ids", t, func() {
		res, err := New().Select(Request{
			Candidates: []model.Candidate{cand("a", 0.9, "x"), cand("a", 0.8, "x")},
			TeamSize:   2,
			NumTeams:   1,
		})
		So(err, ShouldBeNil)
		So(res.Shortfall, ShouldNotBeNil)
		So(res.Shortfall.Available, ShouldEqual, 1)
	})
}

func TestMetrics(t *testing.T) {
	Convey("Given required skills", t, func() {
		s := New()
		pool := []model.Candidate{
			cand("a", 0.9, "Plumbing", "masonry"),
			cand("b", 0.8, "plumbing"),
			cand("c", 0.7, "cooking"),
			cand("d", 0.6, "singing"),
		}

		Convey("When a team's skills are a superset of the requirement", func() {
			a := newArena(s, pool, []string{"plumbing", "masonry"}, 2)
			m := a.evaluate([]int{0, 1}).metrics
			So(m.Coverage, ShouldEqual, 1)
			So(m.KRobustness, ShouldEqual, 1)
			So(m.WillingnessAvg, ShouldAlmostEqual, 0.85, 1e-12)
			So(m.WillingnessMin, ShouldEqual, 0.8)
			So(m.SizeFit, ShouldEqual, 1)
		})

		Convey("When no member has a required skill", func() {
			a := newArena(s, pool, []string{"plumbing", "masonry"}, 2)
			m := a.evaluate([]int{2, 3}).metrics
			So(m.Coverage, ShouldEqual, 0)
			So(m.KRobustness, ShouldEqual, 0)
		})

		Convey("When no skills are required", func() {
			a := newArena(s, pool, nil, 2)
			m := a.evaluate([]int{2, 3}).metrics
			So(m.Coverage, ShouldEqual, 1)
			So(m.KRobustness, ShouldEqual, 2)
			So(m.Redundancy, ShouldEqual, 0)
		})

		Convey("When every member duplicates the same skill", func() {
			dup := []model.Candidate{cand("a", 0.5, "x"), cand("b", 0.5, "x"), cand("c", 0.5, "x"), cand("d", 0.5, "x")}
			a := newArena(New(WithRobustnessTarget(1)), dup, []string{"x"}, 4)
			m := a.evaluate([]int{0, 1, 2, 3}).metrics
			So(m.KRobustness, ShouldEqual, 4)
			So(m.Redundancy, ShouldEqual, 1)
		})

		Convey("When redundancy weighs in, diverse teams beat interchangeable ones", func() {
			div := []model.Candidate{cand("a", 0.5, "x"), cand("b", 0.5, "x"), cand("c", 0.5, "y")}
			a := newArena(New(WithRobustnessTarget(1)), div, []string{"x", "y"}, 2)
			same := a.evaluate([]int{0, 1}).metrics
			mixed := a.evaluate([]int{0, 2}).metrics
			So(mixed.Goodness, ShouldBeGreaterThan, same.Goodness)
		})
	})
}

func TestTieBreaks(t *testing.T) {
	Convey("Given equally good teams", t, func() {
		p1, p2, p3 := cand("p1", 0.5), cand("p2", 0.5), cand("p3", 0.5)
		p1.DistanceKM, p1.DistanceKnown = 1, true
		p2.DistanceKM, p2.DistanceKnown = 1, true
		p3.DistanceKM, p3.DistanceKnown = 5, true

		res, err := New().Select(Request{Candidates: []model.Candidate{p3, p2, p1}, TeamSize: 2, NumTeams: 3})
		So(err, ShouldBeNil)

		Convey("Then lower aggregate distance wins, then the smaller id tuple", func() {
			So(res.Teams, ShouldHaveLength, 3)
			So(res.Teams[0].MemberIDs(), ShouldResemble, []string{"p1", "p2"})
			So(res.Teams[1].MemberIDs(), ShouldResemble, []string{"p1", "p3"})
			So(res.Teams[2].MemberIDs(), ShouldResemble, []string{"p2", "p3"})
		})
	})
}

func TestInvalidRequests(t *testing.T) {
	s := New()
	if _, err := s.Select(Request{TeamSize: 0, NumTeams: 1}); !errors.Is(err, ErrInvalidTeamSize) {
		t.Fatalf("expected ErrInvalidTeamSize, got %v", err)
	}
	if _, err := s.Select(Request{TeamSize: 1, NumTeams: 0}); !errors.Is(err, ErrInvalidNumTeams) {
		t.Fatalf("expected ErrInvalidNumTeams, got %v", err)
	}
}

func TestBinomial(t *testing.T) {
	cases := []struct{ n, k, limit, want int }{
		{12, 3, 5000, 220},
		{12, 0, 5000, 1},
		{3, 4, 5000, 0},
		{60, 10, 5000, 5001},
	}
	for _, c := range cases {
		if got := binomial(c.n, c.k, c.limit); got != c.want {
			t.Fatalf("binomial(%d,%d) = %d, want %d", c.n, c.k, got, c.want)
		}
	}
}

func BenchmarkSelectHeuristic(b *testing.B) {
	s := New(WithPoolCap(40))
	req := Request{Candidates: roster(60), RequiredSkills: []string{"plumbing", "masonry"}, TeamSize: 5, NumTeams: 5}
	for i := 0; i < b.N; i++ {
		if _, err := s.Select(req); err != nil {
			b.Fatal(err)
		}
	}
}
