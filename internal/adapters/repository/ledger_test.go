package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/quota"
)

var monday = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func assignment(id string, start time.Time, hours int, people ...string) model.Assignment {
	return model.Assignment{
		ID:        id,
		PersonIDs: people,
		Start:     start,
		End:       start.Add(time.Duration(hours) * time.Hour),
	}
}

func TestLedgerCommit(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty ledger", t, func() {
		l := NewLedger(WithClock(func() time.Time { return monday }))
		v0 := l.Snapshot()
		So(v0.Version, ShouldEqual, 0)

		Convey("When an assignment is committed", func() {
			snap, err := l.Commit(ctx, assignment("a1", monday, 5, "p1", "p2"))
			So(err, ShouldBeNil)

			Convey("Then a new version is published", func() {
				So(snap.Version, ShouldEqual, 1)
				So(l.Snapshot(), ShouldEqual, snap)
				So(snap.Commits, ShouldEqual, 1)
				So(snap.AssignedHours("p1", quota.WeekOf(monday)).Equal(decimal.NewFromInt(5)), ShouldBeTrue)
			})

			Convey("Then the previous snapshot is unchanged", func() {
				So(v0.AssignedHours("p1", quota.WeekOf(monday)).IsZero(), ShouldBeTrue)
				So(v0.Conflicts("p1", quota.Interval{Start: monday, End: monday.Add(time.Hour)}), ShouldBeFalse)
			})

			Convey("Then a 3h task in the same week is 3h over a 5h quota", func() {
				task := quota.Split(quota.Interval{Start: monday.Add(24 * time.Hour), End: monday.Add(27 * time.Hour)})
				over := snap.Overage("p1", task, decimal.NewFromInt(5))
				So(over.Equal(decimal.NewFromInt(3)), ShouldBeTrue)
				So(snap.Overage("p3", task, decimal.NewFromInt(5)).IsZero(), ShouldBeTrue)
			})

			Convey("Then overlapping windows conflict", func() {
				So(snap.Conflicts("p2", quota.Interval{Start: monday.Add(4 * time.Hour), End: monday.Add(6 * time.Hour)}), ShouldBeTrue)
				So(snap.Conflicts("p2", quota.Interval{Start: monday.Add(5 * time.Hour), End: monday.Add(6 * time.Hour)}), ShouldBeFalse)
			})
		})

		Convey("When an assignment is invalid", func() {
			bad := assignment("a1", monday, 2, "p1")
			bad.End = monday.Add(-time.Hour)
			_, err := l.Commit(ctx, bad)
			So(errors.Is(err, ErrInvalidAssignment), ShouldBeTrue)

			_, err = l.Commit(ctx, assignment("a2", monday, 2))
			So(errors.Is(err, ErrInvalidAssignment), ShouldBeTrue)
			So(l.Snapshot().Version, ShouldEqual, 0)
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := l.Commit(cctx, assignment("a1", monday, 2, "p1"))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestLedgerSeed(t *testing.T) {
	ctx := context.Background()

	Convey("Given baseline load", t, func() {
		l := NewLedger()
		week := quota.WeekOf(monday)
		busy := quota.Interval{Start: monday.Add(48 * time.Hour), End: monday.Add(50 * time.Hour)}

		snap, err := l.Seed(ctx, []SeedEntry{
			{PersonID: "p1", Week: week, Hours: 4.5},
			{PersonID: "p2", Window: &busy},
			{PersonID: "p3", Week: week, Hours: 0},
		})
		So(err, ShouldBeNil)

		Convey("Then hours and busy windows are visible in one version", func() {
			So(snap.Version, ShouldEqual, 1)
			So(snap.AssignedHours("p1", week).Equal(decimal.RequireFromString("4.5")), ShouldBeTrue)
			So(snap.AssignedHours("p2", week).Equal(decimal.NewFromInt(2)), ShouldBeTrue)
			So(snap.Conflicts("p2", busy), ShouldBeTrue)
			So(snap.People(), ShouldEqual, 2)
		})

		Convey("Then invalid entries are rejected", func() {
			_, err := l.Seed(ctx, []SeedEntry{{PersonID: "", Hours: 1}})
			So(errors.Is(err, ErrInvalidSeed), ShouldBeTrue)
		})
	})
}

func TestTopLoaded(t *testing.T) {
	ctx := context.Background()

	Convey("Given several loaded people", t, func() {
		l := NewLedger()
		week := quota.WeekOf(monday)
		_, err := l.Seed(ctx, []SeedEntry{
			{PersonID: "c", Week: week, Hours: 3},
			{PersonID: "a", Week: week, Hours: 3},
			{PersonID: "b", Week: week, Hours: 7},
			{PersonID: "d", Week: quota.Week{Year: 2023, Week: 1}, Hours: 9},
		})
		So(err, ShouldBeNil)

		Convey("Then the ranking orders by hours then id with shared ranks", func() {
			loads, err := l.Snapshot().TopLoaded(week, 10)
			So(err, ShouldBeNil)
			So(loads, ShouldResemble, []Load{
				{Rank: 1, PersonID: "b", Hours: 7},
				{Rank: 2, PersonID: "a", Hours: 3},
				{Rank: 2, PersonID: "c", Hours: 3},
			})
		})

		Convey("Then the limit truncates and must be positive", func() {
			loads, err := l.Snapshot().TopLoaded(week, 1)
			So(err, ShouldBeNil)
			So(loads, ShouldHaveLength, 1)

			_, err = l.Snapshot().TopLoaded(week, 0)
			So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestLedgerConcurrentReadersAndWriters(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	week := quota.WeekOf(monday)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				start := monday.Add(time.Duration(i) * time.Hour)
				a := model.Assignment{ID: fmt.Sprintf("%d-%d", w, i), PersonIDs: []string{"shared"}, Start: start, End: start.Add(time.Hour)}
				if _, err := l.Commit(ctx, a); err != nil {
					t.Errorf("commit: %v", err)
					return
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last uint64
			for i := 0; i < 200; i++ {
				s := l.Snapshot()
				if s.Version < last {
					t.Errorf("version went backwards: %d < %d", s.Version, last)
					return
				}
				last = s.Version
				_ = s.AssignedHours("shared", week)
			}
		}()
	}
	wg.Wait()

	final := l.Snapshot()
	if final.Version != 200 || final.Commits != 200 {
		t.Fatalf("expected 200 versions and commits, got %d/%d", final.Version, final.Commits)
	}
	if !final.AssignedHours("shared", week).Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200 hours, got %s", final.AssignedHours("shared", week))
	}
}

func BenchmarkLedgerCommit(b *testing.B) {
	ctx := context.Background()
	l := NewLedger()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		start := monday.Add(time.Duration(i%100) * time.Hour)
		a := model.Assignment{ID: "bench", PersonIDs: []string{fmt.Sprintf("p%d", i%500)}, Start: start, End: start.Add(time.Hour)}
		if _, err := l.Commit(ctx, a); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSnapshotOverage(b *testing.B) {
	ctx := context.Background()
	l := NewLedger()
	for i := 0; i < 500; i++ {
		_, _ = l.Commit(ctx, assignment("seed", monday, 2, fmt.Sprintf("p%d", i)))
	}
	task := quota.Split(quota.Interval{Start: monday, End: monday.Add(3 * time.Hour)})
	limit := decimal.NewFromInt(5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.Snapshot().Overage(fmt.Sprintf("p%d", i%500), task, limit)
	}
}
