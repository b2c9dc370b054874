package compat

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVectorizer(t *testing.T) {
	Convey("Given a vectorizer fit on a few reports", t, func() {
		v := FitVectorizer([]string{
			"handpump repair in the village",
			"school roof painting",
			"water contamination testing",
		})

		Convey("Then identical texts are fully similar", func() {
			So(v.Similarity("handpump repair", "Handpump Repair"), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Then disjoint texts have zero similarity", func() {
			So(v.Similarity("handpump repair", "roof painting"), ShouldEqual, 0)
		})

		Convey("Then unknown words are ignored", func() {
			So(v.Transform("zebra xylophone"), ShouldBeNil)
			So(v.Similarity("zebra", "handpump"), ShouldEqual, 0)
		})

		Convey("Then partial overlap lies strictly between", func() {
			s := v.Similarity("handpump repair", "handpump water testing")
			So(s, ShouldBeGreaterThan, 0)
			So(s, ShouldBeLessThan, 1)
		})
	})
}

func TestSkillOverlap(t *testing.T) {
	Convey("Given a person's skills", t, func() {
		skills := []string{"plumbing", "handpump repair and maintenance", "first aid"}

		Convey("Required skills count by normalized equality", func() {
			So(SkillOverlap(skills, []string{"First Aid"}, ""), ShouldEqual, 1)
		})

		Convey("Multi-word skills count when half their words are named", func() {
			So(SkillOverlap(skills, nil, "The handpump needs repair"), ShouldEqual, 1)
		})

		Convey("A skill counts once even when both required and named", func() {
			So(SkillOverlap(skills, []string{"plumbing"}, "plumbing work"), ShouldEqual, 1)
		})
	})
}

func TestFeaturize(t *testing.T) {
	Convey("Given feature params", t, func() {
		v := FitVectorizer([]string{"pipe repair", "tree planting"})
		p := Params{DistanceScale: 50, DistanceDecay: 10}
		pair := Pair{
			ProposalText:  "pipe repair",
			Person:        model.Person{ID: "a", Skills: []string{"pipe repair"}, Availability: model.Immediately},
			Severity:      model.SeverityHigh,
			DistanceKM:    5,
			DistanceKnown: true,
		}

		Convey("Known distances map to scaled and decayed values", func() {
			x := Featurize(v, p, pair)
			So(x, ShouldHaveLength, NumFeatures)
			So(x[FeatureDistanceNorm], ShouldAlmostEqual, 0.1, 1e-12)
			So(x[FeatureDistanceDecay], ShouldAlmostEqual, math.Exp(-0.5), 1e-12)
			So(x[FeatureAvailability], ShouldEqual, 1)
			So(x[FeatureSeverity], ShouldEqual, 1)
			So(x[FeatureSimilarity], ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Unknown distances are marked missing", func() {
			pair.DistanceKnown = false
			x := Featurize(v, p, pair)
			So(math.IsNaN(x[FeatureDistanceNorm]), ShouldBeTrue)
			So(math.IsNaN(x[FeatureDistanceDecay]), ShouldBeTrue)
		})
	})
}

func TestLogistic(t *testing.T) {
	Convey("Given linearly separable data", t, func() {
		var x [][]float64
		var y []bool
		for i := 0; i < 40; i++ {
			v := float64(i) / 40
			x = append(x, []float64{v, 1 - v})
			y = append(y, v > 0.5)
		}

		Convey("When fitting", func() {
			c, err := FitLogistic(x, y, FitOptions{})
			So(err, ShouldBeNil)

			Convey("Then it separates the classes", func() {
				So(c.Predict([]float64{0.95, 0.05}), ShouldBeGreaterThan, 0.8)
				So(c.Predict([]float64{0.05, 0.95}), ShouldBeLessThan, 0.2)
			})

			Convey("Then refitting gives identical parameters", func() {
				again, err := FitLogistic(x, y, FitOptions{})
				So(err, ShouldBeNil)
				So(again.Weights, ShouldResemble, c.Weights)
				So(again.Bias, ShouldEqual, c.Bias)
			})

			Convey("Then a missing value contributes nothing", func() {
				withMean := c.Predict([]float64{c.Means[0], 0.5})
				withNaN := c.Predict([]float64{math.NaN(), 0.5})
				So(withNaN, ShouldEqual, withMean)
			})
		})
	})

	Convey("Given malformed inputs", t, func() {
		_, err := FitLogistic(nil, nil, FitOptions{})
		So(errors.Is(err, ErrEmptyTrainingSet), ShouldBeTrue)

		_, err = FitLogistic([][]float64{{1}, {1, 2}}, []bool{true, false}, FitOptions{})
		So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
	})
}

func TestAUC(t *testing.T) {
	Convey("Given scored labels", t, func() {
		Convey("Perfect ranking scores 1", func() {
			So(AUC([]float64{0.1, 0.2, 0.8, 0.9}, []bool{false, false, true, true}), ShouldEqual, 1)
		})

		Convey("Inverted ranking scores 0", func() {
			So(AUC([]float64{0.9, 0.8, 0.2, 0.1}, []bool{false, false, true, true}), ShouldEqual, 0)
		})

		Convey("All ties score one half", func() {
			So(AUC([]float64{0.5, 0.5, 0.5, 0.5}, []bool{false, true, false, true}), ShouldEqual, 0.5)
		})

		Convey("A single class is undefined", func() {
			So(math.IsNaN(AUC([]float64{0.1, 0.9}, []bool{true, true})), ShouldBeTrue)
		})
	})
}

func testArtifact(t *testing.T) *Artifact {
	t.Helper()
	v := FitVectorizer([]string{"pipe repair", "tree planting", "well digging"})
	x := [][]float64{
		{1, 1, 1, 0.1, 0.9, 1},
		{0, 0, 0, 0.9, 0.1, 0},
		{0.8, 1, 0.5, math.NaN(), math.NaN(), 0.5},
		{0.1, 0, 0.5, 0.7, 0.2, 0.5},
	}
	c, err := FitLogistic(x, []bool{true, false, true, false}, FitOptions{Epochs: 50})
	if err != nil {
		t.Fatal(err)
	}
	auc := 1.0
	return &Artifact{
		Format:     FormatVersion,
		Version:    "v-test",
		CreatedAt:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Params:     Params{DistanceScale: 50, DistanceDecay: 30},
		Vectorizer: v,
		Classifier: c,
		Summary:    TrainingSummary{AUC: &auc, TrainPairs: 4},
	}
}

func TestArtifact(t *testing.T) {
	Convey("Given a fitted artifact", t, func() {
		a := testArtifact(t)

		Convey("When encoded and decoded", func() {
			var buf bytes.Buffer
			So(a.Encode(&buf), ShouldBeNil)
			b, err := DecodeArtifact(&buf)
			So(err, ShouldBeNil)

			Convey("Then the decoded model scores pairs identically", func() {
				m1, err := NewModel(a)
				So(err, ShouldBeNil)
				m2, err := NewModel(b)
				So(err, ShouldBeNil)

				pair := Pair{
					ProposalText: "pipe repair needed",
					Person:       model.Person{ID: "p", Skills: []string{"pipe repair"}},
					Severity:     model.SeverityNormal,
				}
				So(m2.Score(pair), ShouldEqual, m1.Score(pair))
				So(m2.Version(), ShouldEqual, "v-test")
			})
		})

		Convey("When the payload is truncated", func() {
			_, err := DecodeArtifact(strings.NewReader(`{"format":1,"version":`))
			So(errors.Is(err, ErrCorruptArtifact), ShouldBeTrue)
		})

		Convey("When the format is unknown", func() {
			a.Format = 99
			So(errors.Is(a.Validate(), ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("When the classifier dimension is wrong", func() {
			a.Classifier.Weights = a.Classifier.Weights[:2]
			_, err := NewModel(a)
			So(errors.Is(err, ErrCorruptArtifact), ShouldBeTrue)
		})
	})
}

func TestModelDeterminism(t *testing.T) {
	a := testArtifact(t)
	m, err := NewModel(a)
	if err != nil {
		t.Fatal(err)
	}
	pair := Pair{
		ProposalText:  "well digging and pipe repair",
		Person:        model.Person{ID: "p", Skills: []string{"well digging", "pipe repair"}, Availability: model.Rarely},
		Severity:      model.SeverityHigh,
		DistanceKM:    12,
		DistanceKnown: true,
	}
	first := m.Score(pair)
	for i := 0; i < 100; i++ {
		if got := m.Score(pair); got != first {
			t.Fatalf("score changed between calls: %v vs %v", got, first)
		}
	}
	if first < 0 || first > 1 {
		t.Fatalf("probability out of range: %v", first)
	}
}
