package service_test

import (
	"time"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/artifact"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/featurestore"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/repository"
	service "github.com/Anurag9000/Gram-Connect/internal/app"
	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithLevel("error")); err != nil {
		panic(err)
	}
}

var (
	monday    = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	testClock = func() time.Time { return monday }
)

var testVillages = []model.Village{
	{Name: "Rampur", Lat: 26.1, Lng: 80.1},
	{Name: "Sitapur", Lat: 26.14, Lng: 80.12},
	{Name: "Devgarh", Lat: 26.5, Lng: 80.3},
}

var testDistances = []model.DistanceEntry{
	{VillageA: "Rampur", VillageB: "Sitapur", DistanceKM: 5},
	{VillageA: "Rampur", VillageB: "Devgarh", DistanceKM: 50},
	{VillageA: "Sitapur", VillageB: "Devgarh", DistanceKM: 46},
}

func person(id, home string, avail model.Availability, skills ...string) model.Person {
	return model.Person{
		ID:               id,
		Name:             "Volunteer " + id,
		Skills:           skills,
		Availability:     avail,
		HomeLocation:     home,
		WeeklyQuotaHours: 5,
	}
}

// testModel scores by text similarity and skill overlap only, so distance and
// workload influence W_adj solely through the goodness factors.
func testModel() *compat.Model {
	vec := compat.FitVectorizer([]string{
		"broken handpump urgent repair contaminated water",
		"plumbing", "electrical", "masonry", "carpentry", "first aid", "teaching",
		"water testing", "solar panel repair",
	})
	a := &compat.Artifact{
		Format:     compat.FormatVersion,
		Version:    "test-model",
		CreatedAt:  monday,
		Params:     compat.Params{DistanceScale: 50, DistanceDecay: 30},
		Vectorizer: vec,
		Classifier: &compat.Classifier{
			Weights: []float64{2, 1, 0, 0, 0, 0},
			Bias:    -1,
			Means:   make([]float64, compat.NumFeatures),
			Scales:  []float64{1, 1, 1, 1, 1, 1},
		},
	}
	m, err := compat.NewModel(a)
	if err != nil {
		panic(err)
	}
	return m
}

type fixture struct {
	store  *featurestore.Store
	ledger *repository.Ledger
	holder *artifact.Holder
	engine *service.Engine
}

func newFixture(people []model.Person, settings service.Settings) *fixture {
	st := featurestore.New(people, nil, nil, testVillages, testDistances, nil, nil, featurestore.DefaultFallbackSkills)
	f := &fixture{
		store:  st,
		ledger: repository.NewLedger(repository.WithClock(testClock)),
		holder: artifact.NewHolder(testModel()),
	}
	f.engine = service.NewEngine(st, f.holder, f.ledger, settings, service.WithClock(testClock))
	return f
}

func ptr[T any](v T) *T { return &v }
