package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/Anurag9000/Gram-Connect/internal/app"
	"github.com/Anurag9000/Gram-Connect/internal/config"
	"github.com/Anurag9000/Gram-Connect/internal/domain/types"
	"github.com/Anurag9000/Gram-Connect/internal/mockdata"
)

func execute(ctx context.Context, args ...string) (string, error) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

// writeConfig points every dataset path at dir and returns the YAML file path.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	lines := []string{
		"log_level: error",
		"watch_model: false",
		fmt.Sprintf("people_path: %q", filepath.Join(dir, mockdata.PeopleFile)),
		fmt.Sprintf("proposals_path: %q", filepath.Join(dir, mockdata.ProposalsFile)),
		fmt.Sprintf("pairs_path: %q", filepath.Join(dir, mockdata.PairsFile)),
		fmt.Sprintf("villages_path: %q", filepath.Join(dir, mockdata.VillagesFile)),
		fmt.Sprintf("distances_path: %q", filepath.Join(dir, mockdata.DistancesFile)),
		fmt.Sprintf("availability_path: %q", filepath.Join(dir, mockdata.AvailabilityFile)),
		fmt.Sprintf("schedule_path: %q", filepath.Join(dir, mockdata.ScheduleFile)),
		fmt.Sprintf("model_path: %q", filepath.Join(dir, "model.json")),
	}
	path := filepath.Join(dir, "gram.yaml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		cmd := rootCmd()

		convey.Convey("Then every subcommand is registered", func() {
			names := map[string]bool{}
			for _, c := range cmd.Commands() {
				names[c.Name()] = true
			}
			for _, want := range []string{"serve", "train", "recommend", "mockdata"} {
				convey.So(names[want], convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then running without a subcommand serves", func() {
			convey.So(cmd.RunE, convey.ShouldNotBeNil)
		})

		convey.Convey("Then recommend requires --text", func() {
			t.Setenv(config.EnvConfigFile, "")
			_, err := execute(context.Background(), "recommend", "--team-size", "2")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "text")
		})
	})
}

func TestRecommendFlags(t *testing.T) {
	convey.Convey("Given recommend flags", t, func() {
		f := &recommendFlags{text: "water pump", teamSize: 2, numTeams: 3}

		convey.Convey("When no window or extraction flag is given", func() {
			req, err := f.request()
			convey.So(err, convey.ShouldBeNil)
			convey.So(req.TaskStart, convey.ShouldBeNil)
			convey.So(req.TaskEnd, convey.ShouldBeNil)
			convey.So(req.AutoExtract, convey.ShouldBeNil)
			convey.So(req.TeamSize, convey.ShouldEqual, 2)
			convey.So(req.NumTeams, convey.ShouldEqual, 3)
		})

		convey.Convey("When a window and --no-auto-extract are given", func() {
			f.start, f.end, f.noAutoExtract = "2024-03-04 09:00", "2024-03-04T13:00:00Z", true
			req, err := f.request()
			convey.So(err, convey.ShouldBeNil)
			convey.So(req.TaskEnd.Sub(*req.TaskStart).Hours(), convey.ShouldEqual, 4)
			convey.So(*req.AutoExtract, convey.ShouldBeFalse)
		})

		convey.Convey("When a time cannot be parsed", func() {
			f.end = "next tuesday"
			_, err := f.request()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldStartWith, "--end")
		})
	})
}

func TestWriteTeamsCSV(t *testing.T) {
	convey.Convey("Given ranked teams", t, func() {
		teams := []types.Team{{
			Rank: 1,
			Members: []types.Member{
				{ID: "P001", Name: "Asha"},
				{ID: "P007", Name: "Ravi"},
			},
			Metrics: types.Metrics{
				Goodness: 0.75, Coverage: 1, KRobustness: 2, Redundancy: 0.25,
				SizeFit: 0.5, WillingnessAvg: 0.9, WillingnessMin: 0.8, TeamSize: 2,
			},
		}}

		var buf bytes.Buffer
		convey.So(writeTeamsCSV(&buf, teams), convey.ShouldBeNil)
		rows, err := csv.NewReader(&buf).ReadAll()
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the header and one row per team are written", func() {
			convey.So(rows, convey.ShouldHaveLength, 2)
			convey.So(rows[0], convey.ShouldResemble, teamColumns)
			convey.So(rows[1], convey.ShouldResemble, []string{
				"1", "P001;P007", "Asha;Ravi", "2", "0.75", "1", "2", "0.25", "0.5", "0.9", "0.8",
			})
		})
	})
}

func TestCommandsEndToEnd(t *testing.T) {
	convey.Convey("Given a generated dataset", t, func() {
		t.Setenv(config.EnvConfigFile, "")
		ctx := context.Background()
		dir := t.TempDir()

		_, err := execute(ctx, "mockdata", "--dir", dir, "--seed", "7")
		convey.So(err, convey.ShouldBeNil)
		for _, name := range []string{mockdata.PeopleFile, mockdata.PairsFile, mockdata.VillagesFile} {
			_, statErr := os.Stat(filepath.Join(dir, name))
			convey.So(statErr, convey.ShouldBeNil)
		}
		cfgPath := writeConfig(t, dir)

		convey.Convey("When the model is trained", func() {
			out, err := execute(ctx, "train", "--config", cfgPath)
			convey.So(err, convey.ShouldBeNil)

			var res types.TrainResponse
			convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
			convey.So(res.Version, convey.ShouldNotBeEmpty)
			convey.So(res.OutputPath, convey.ShouldEqual, filepath.Join(dir, "model.json"))

			convey.Convey("Then recommend prints teams and writes the CSV", func() {
				csvPath := filepath.Join(dir, "teams.csv")
				out, err := execute(ctx, "recommend", "--config", cfgPath,
					"--text", "Handpump broken near the school, urgent plumbing repair",
					"--team-size", "3", "--num-teams", "2", "--out", csvPath)
				convey.So(err, convey.ShouldBeNil)

				var resp types.RecommendResponse
				convey.So(json.Unmarshal([]byte(out), &resp), convey.ShouldBeNil)
				convey.So(resp.Status, convey.ShouldEqual, types.StatusOK)
				convey.So(resp.Teams, convey.ShouldHaveLength, 2)
				convey.So(resp.ModelVersion, convey.ShouldEqual, res.Version)

				f, err := os.Open(csvPath)
				convey.So(err, convey.ShouldBeNil)
				defer f.Close()
				rows, err := csv.NewReader(f).ReadAll()
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 3)
				convey.So(rows[1][0], convey.ShouldEqual, "1")
			})

			convey.Convey("Then the router serves the API and its docs", func() {
				cfg, err := (&globalFlags{configPath: cfgPath}).setup(ctx, os.Stderr)
				convey.So(err, convey.ShouldBeNil)

				svc := service.New(service.WithConfig(cfg))
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer func() { _ = svc.Stop(ctx) }()

				h := newRouter(cfg, svc)
				for _, path := range []string{"/healthz", "/openapi.yaml", "/api-docs", "/metrics"} {
					rec := httptest.NewRecorder()
					h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
					convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})
	})
}
