package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/featurestore"
	service "github.com/Anurag9000/Gram-Connect/internal/app"
	"github.com/Anurag9000/Gram-Connect/internal/domain/types"
)

// teamColumns is the header of the recommend --out CSV.
var teamColumns = []string{
	"rank", "team_ids", "team_names", "team_size", "goodness", "coverage",
	"k_robustness", "redundancy", "set_size", "willingness_avg", "willingness_min",
}

type recommendFlags struct {
	text, village, severity   string
	transcription             string
	start, end, out           string
	skills, tags              []string
	teamSize, numTeams        int
	noAutoExtract, uniqueOnly bool
}

func recommendCmd(g *globalFlags) *cobra.Command {
	f := &recommendFlags{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank teams for one proposal and print them",
		Example: `  gramconnect recommend --text "handpump broken near school" --village Rampur \
    --team-size 3 --num-teams 5 --out teams.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg, err := g.setup(ctx, os.Stderr)
			if err != nil {
				return err
			}
			cfg.WatchModel = false

			svc := service.New(service.WithConfig(cfg))
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = svc.Stop(context.Background()) }()

			resp, err := svc.Recommend(ctx, req)
			if err != nil {
				return err
			}
			if f.out != "" {
				if err := writeTeamsFile(f.out, resp.Teams); err != nil {
					return err
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.text, "text", "", "Proposal text (required)")
	fl.StringVar(&f.village, "village", "", "Manual village name")
	fl.StringVar(&f.severity, "severity", "", "Severity override (LOW, NORMAL, HIGH)")
	fl.StringVar(&f.transcription, "transcription", "", "Audio transcription merged into the text")
	fl.StringSliceVar(&f.tags, "tags", nil, "Visual content tags merged into the text")
	fl.StringSliceVar(&f.skills, "skills", nil, "Required skills (derived from the text when empty)")
	fl.StringVar(&f.start, "start", "", "Task start time")
	fl.StringVar(&f.end, "end", "", "Task end time")
	fl.IntVar(&f.teamSize, "team-size", 3, "Members per team")
	fl.IntVar(&f.numTeams, "num-teams", 5, "Number of teams to return")
	fl.BoolVar(&f.noAutoExtract, "no-auto-extract", false, "Use only the manual severity and village")
	fl.BoolVar(&f.uniqueOnly, "unique-members", false, "Never reuse a person across returned teams")
	fl.StringVarP(&f.out, "out", "o", "", "Also write the teams as CSV to this path")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func (f *recommendFlags) request() (types.RecommendRequest, error) {
	req := types.RecommendRequest{
		Text:           f.text,
		Village:        f.village,
		Severity:       f.severity,
		Transcription:  f.transcription,
		VisualTags:     f.tags,
		RequiredSkills: f.skills,
		TeamSize:       f.teamSize,
		NumTeams:       f.numTeams,
		UniqueMembers:  f.uniqueOnly,
	}
	if f.noAutoExtract {
		auto := false
		req.AutoExtract = &auto
	}
	var err error
	if req.TaskStart, err = parseFlagTime("start", f.start); err != nil {
		return req, err
	}
	if req.TaskEnd, err = parseFlagTime("end", f.end); err != nil {
		return req, err
	}
	return req, nil
}

func parseFlagTime(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := featurestore.ParseTime(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &t, nil
}

func writeTeamsFile(path string, teams []types.Team) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeTeamsCSV(f, teams); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeTeamsCSV writes one row per team; member ids and names are ';'-joined.
func writeTeamsCSV(w io.Writer, teams []types.Team) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(teamColumns); err != nil {
		return err
	}
	for _, t := range teams {
		ids := make([]string, len(t.Members))
		names := make([]string, len(t.Members))
		for i, m := range t.Members {
			ids[i], names[i] = m.ID, m.Name
		}
		row := []string{
			strconv.Itoa(t.Rank),
			strings.Join(ids, ";"),
			strings.Join(names, ";"),
			strconv.Itoa(t.Metrics.TeamSize),
			ftoa(t.Metrics.Goodness),
			ftoa(t.Metrics.Coverage),
			strconv.Itoa(t.Metrics.KRobustness),
			ftoa(t.Metrics.Redundancy),
			ftoa(t.Metrics.SizeFit),
			ftoa(t.Metrics.WillingnessAvg),
			ftoa(t.Metrics.WillingnessMin),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
