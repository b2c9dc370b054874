package mockdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

// Write stores every table as CSV under dir, one goroutine per file.
func Write(ctx context.Context, dir string, d *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tables := map[string]func() [][]string{
		PeopleFile:       d.peopleRows,
		ProposalsFile:    d.proposalRows,
		PairsFile:        d.pairRows,
		VillagesFile:     d.villageRows,
		DistancesFile:    d.distanceRows,
		AvailabilityFile: d.legendRows,
		ScheduleFile:     d.scheduleRows,
	}
	g, gctx := errgroup.WithContext(ctx)
	for name, rows := range tables {
		name, rows := name, rows
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return writeCSV(filepath.Join(dir, name), rows())
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Named("mockdata").Info(ctx, "dataset written",
		logger.String("dir", dir),
		logger.Int("people", len(d.People)),
		logger.Int("proposals", len(d.Proposals)),
		logger.Int("pairs", len(d.Pairs)),
	)
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (d *Dataset) peopleRows() [][]string {
	rows := [][]string{{"person_id", "name", "skills", "availability", "home_location", "weekly_quota", "assigned_hours"}}
	for _, p := range d.People {
		rows = append(rows, []string{p.ID, p.Name, joinSkills(p.Skills), p.Availability.String(),
			p.HomeLocation, ftoa(p.WeeklyQuotaHours), ftoa(p.AssignedHours)})
	}
	return rows
}

func (d *Dataset) proposalRows() [][]string {
	rows := [][]string{{"proposal_id", "text", "category", "village", "required_skills"}}
	for _, p := range d.Proposals {
		rows = append(rows, []string{p.ID, p.Text, p.Category, p.Village, joinSkills(p.RequiredSkills)})
	}
	return rows
}

func (d *Dataset) pairRows() [][]string {
	rows := [][]string{{"person_id", "proposal_id", "label"}}
	for _, p := range d.Pairs {
		label := "0"
		if p.Label {
			label = "1"
		}
		rows = append(rows, []string{p.PersonID, p.ProposalID, label})
	}
	return rows
}

func (d *Dataset) villageRows() [][]string {
	rows := [][]string{{"village", "lat", "lng"}}
	for _, v := range d.Villages {
		rows = append(rows, []string{v.Name, ftoa(v.Lat), ftoa(v.Lng)})
	}
	return rows
}

func (d *Dataset) distanceRows() [][]string {
	rows := [][]string{{"village_a", "village_b", "distance_km", "travel_time_min"}}
	for _, e := range d.Distances {
		rows = append(rows, []string{e.VillageA, e.VillageB, ftoa(e.DistanceKM), ftoa(e.TravelMinutes)})
	}
	return rows
}

func (d *Dataset) legendRows() [][]string {
	rows := [][]string{{"category", "multiplier"}}
	for _, a := range sortedLegend(d.Legend) {
		rows = append(rows, []string{a.String(), ftoa(d.Legend[a])})
	}
	return rows
}

func (d *Dataset) scheduleRows() [][]string {
	rows := [][]string{{"person_id", "start", "end"}}
	for _, s := range d.Schedule {
		rows = append(rows, []string{s.PersonID, s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339)})
	}
	return rows
}
