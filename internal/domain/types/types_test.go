package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/Anurag9000/Gram-Connect/internal/domain/types"
)

func TestRecommendRequestValidation(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	Convey("Given a minimal recommendation request", t, func() {
		req := types.RecommendRequest{Text: "Broken handpump", TeamSize: 3, NumTeams: 2}

		Convey("it is valid", func() {
			So(v.Struct(req), ShouldBeNil)
		})

		Convey("empty text is rejected", func() {
			req.Text = ""
			So(v.Struct(req), ShouldNotBeNil)
		})

		Convey("non-positive sizes are rejected", func() {
			req.TeamSize = 0
			So(v.Struct(req), ShouldNotBeNil)
			req.TeamSize, req.NumTeams = 1, -1
			So(v.Struct(req), ShouldNotBeNil)
		})

		Convey("unknown severities are rejected", func() {
			req.Severity = "extreme"
			So(v.Struct(req), ShouldNotBeNil)
			req.Severity = "high"
			So(v.Struct(req), ShouldBeNil)
		})

		Convey("weights are range checked", func() {
			bad := 1.5
			req.Weights.Threshold = &bad
			So(v.Struct(req), ShouldNotBeNil)
			neg := -0.1
			req.Weights.Threshold = nil
			req.Weights.LambdaSize = &neg
			So(v.Struct(req), ShouldNotBeNil)
		})
	})
}

func TestAssignmentRequestValidation(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	Convey("Given an assignment request", t, func() {
		req := types.AssignmentRequest{Title: "Fix handpump", PersonIDs: []string{"p1"}, Start: start, End: start.Add(time.Hour)}

		Convey("it is valid", func() {
			So(v.Struct(req), ShouldBeNil)
		})

		Convey("an end before the start is rejected", func() {
			req.End = start.Add(-time.Hour)
			So(v.Struct(req), ShouldNotBeNil)
		})

		Convey("members are required", func() {
			req.PersonIDs = nil
			So(v.Struct(req), ShouldNotBeNil)
			req.PersonIDs = []string{""}
			So(v.Struct(req), ShouldNotBeNil)
		})
	})
}

func TestRecommendResponseJSON(t *testing.T) {
	Convey("An unresolved location and unknown distance encode as null", t, func() {
		resp := types.RecommendResponse{
			Severity: "HIGH",
			Status:   types.StatusOK,
			Teams:    []types.Team{{Rank: 1, Members: []types.Member{{ID: "p1"}}}},
		}
		b, err := json.Marshal(resp)
		So(err, ShouldBeNil)

		var raw map[string]any
		So(json.Unmarshal(b, &raw), ShouldBeNil)
		So(raw["location"], ShouldBeNil)
		So(raw, ShouldContainKey, "location")
		member := raw["teams"].([]any)[0].(map[string]any)["members"].([]any)[0].(map[string]any)
		So(member, ShouldContainKey, "distance_km")
		So(member["distance_km"], ShouldBeNil)
	})
}
