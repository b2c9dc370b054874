package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestAvailability(t *testing.T) {
	convey.Convey("Given roster availability strings", t, func() {
		convey.Convey("When parsing known phrasings", func() {
			cases := map[string]model.Availability{
				"immediately":           model.Immediately,
				"Immediately available": model.Immediately,
				"rarely":                model.Rarely,
				"RARELY FREE":           model.Rarely,
				"generally":             model.Generally,
				"usually available":     model.Generally,
			}
			for in, want := range cases {
				got, err := model.ParseAvailability(in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, want)
			}
		})

		convey.Convey("When parsing an unknown phrasing", func() {
			got, err := model.ParseAvailability("whenever")
			convey.So(errors.Is(err, model.ErrUnknownAvailability), convey.ShouldBeTrue)
			convey.So(got, convey.ShouldEqual, model.Generally)
		})

		convey.Convey("Then levels are ordered", func() {
			convey.So(model.Rarely.Level(), convey.ShouldBeLessThan, model.Generally.Level())
			convey.So(model.Generally.Level(), convey.ShouldBeLessThan, model.Immediately.Level())
		})
	})
}

func TestSeverityAssessment(t *testing.T) {
	convey.Convey("Given severity assessments", t, func() {
		convey.Convey("When built automatically", func() {
			a := model.Auto(model.SeverityHigh, 0.75)
			convey.So(a.Level(), convey.ShouldEqual, model.SeverityHigh)
			convey.So(a.Source(), convey.ShouldEqual, model.SourceAuto)
			convey.So(a.Confidence(), convey.ShouldEqual, 0.75)
		})

		convey.Convey("When overridden", func() {
			o := model.Override(model.SeverityLow)
			convey.So(o.Level(), convey.ShouldEqual, model.SeverityLow)
			convey.So(o.Source(), convey.ShouldEqual, model.SourceOverride)
			convey.So(o.Confidence(), convey.ShouldEqual, 1)
		})

		convey.Convey("When levels round-trip through JSON", func() {
			b, err := json.Marshal(struct {
				S model.Severity `json:"s"`
			}{model.SeverityHigh})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `{"s":"HIGH"}`)

			var out struct {
				S model.Severity `json:"s"`
			}
			convey.So(json.Unmarshal([]byte(`{"s":"medium"}`), &out), convey.ShouldBeNil)
			convey.So(out.S, convey.ShouldEqual, model.SeverityNormal)
		})

		convey.Convey("When a level is unknown", func() {
			_, err := model.ParseSeverity("apocalyptic")
			convey.So(errors.Is(err, model.ErrUnknownSeverity), convey.ShouldBeTrue)
		})
	})
}

func TestPersonAndTeam(t *testing.T) {
	convey.Convey("Given a person", t, func() {
		p := model.Person{ID: "p1", Skills: []string{"plumbing", "masonry"}, WeeklyQuotaHours: 5}

		convey.Convey("Then validation and lookups behave", func() {
			convey.So(p.Validate(), convey.ShouldBeNil)
			convey.So(p.HasSkill("masonry"), convey.ShouldBeTrue)
			convey.So(p.HasSkill("welding"), convey.ShouldBeFalse)
			convey.So(p.SkillProfile(), convey.ShouldEqual, "plumbing ; masonry")
		})

		convey.Convey("When skills are missing", func() {
			p.Skills = nil
			convey.So(errors.Is(p.Validate(), model.ErrNoSkills), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a team", t, func() {
		team := model.Team{Members: []model.Candidate{
			{Person: model.Person{ID: "zed"}},
			{Person: model.Person{ID: "amy"}},
		}}
		convey.So(team.MemberIDs(), convey.ShouldResemble, []string{"amy", "zed"})
	})

	convey.Convey("Given an assignment window", t, func() {
		start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		a := model.Assignment{ID: "a1", PersonIDs: []string{"p1"}, Start: start, End: start.Add(3 * time.Hour)}
		convey.So(a.Validate(), convey.ShouldBeNil)
		convey.So(a.Hours(), convey.ShouldEqual, 3)

		a.End = start.Add(-time.Hour)
		convey.So(errors.Is(a.Validate(), model.ErrInvalidWindow), convey.ShouldBeTrue)
	})
}
