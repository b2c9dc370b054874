// Package training fits the compatibility model from historical labelled pairs.
package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
	"github.com/Anurag9000/Gram-Connect/internal/domain/extract"
	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

// Source is the read-only view of the datasets training needs.
type Source interface {
	People() []model.Person
	Person(id string) (model.Person, bool)
	Proposals() []model.Proposal
	Proposal(id string) (model.Proposal, bool)
	Pairs() []model.HistoricalPair
	Distance(a, b string) (float64, bool)
	DeriveSkills(text string) []string
}

// Trainer turns labelled pairs into an artifact. It holds no state between
// runs; serializing runs is the caller's concern.
type Trainer struct {
	seed      int64
	holdout   float64
	minPairs  int
	params    compat.Params
	fit       compat.FitOptions
	extractor *extract.Extractor
	now       func() time.Time
}

// New creates a Trainer.
func New(opts ...Option) *Trainer {
	t := &Trainer{
		seed:      defaultSeed,
		holdout:   defaultHoldout,
		minPairs:  defaultMinPairs,
		params:    compat.Params{DistanceScale: 50, DistanceDecay: 30},
		fit:       compat.DefaultFitOptions,
		extractor: extract.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Report summarizes a run.
type Report struct {
	Artifact  *compat.Artifact
	People    int
	Proposals int
	Pairs     int
	Skipped   int
	Duration  time.Duration
}

type example struct {
	pair  compat.Pair
	label bool
}

// Train joins pairs to people and proposals, fits the vectorizer on every
// proposal text and skill profile, fits the classifier on the training split
// and measures AUC on the held-out split.
func (t *Trainer) Train(ctx context.Context, src Source) (*Report, error) {
	start := time.Now()
	log := logger.Named("trainer")

	examples, skipped := t.join(ctx, src)
	if len(examples) < t.minPairs {
		return nil, fmt.Errorf("%w: %d usable, need %d", ErrInsufficientPairs, len(examples), t.minPairs)
	}
	positives := 0
	for _, ex := range examples {
		if ex.label {
			positives++
		}
	}
	if positives == 0 || positives == len(examples) {
		return nil, fmt.Errorf("%w: %d of %d positive", ErrSingleClass, positives, len(examples))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]string, 0, len(src.Proposals())+len(src.People()))
	for _, p := range src.Proposals() {
		docs = append(docs, p.Text)
	}
	for _, p := range src.People() {
		docs = append(docs, p.SkillProfile())
	}
	vec := compat.FitVectorizer(docs)

	train, valid := t.split(examples)
	x := make([][]float64, len(train))
	y := make([]bool, len(train))
	for i, ex := range train {
		x[i] = compat.Featurize(vec, t.params, ex.pair)
		y[i] = ex.label
	}
	clf, err := compat.FitLogistic(x, y, t.fit)
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}

	summary := compat.TrainingSummary{
		TrainPairs:      len(train),
		ValidationPairs: len(valid),
		Positives:       positives,
		SkippedPairs:    skipped,
		Seed:            t.seed,
	}
	if len(valid) > 0 {
		scores := make([]float64, len(valid))
		labels := make([]bool, len(valid))
		for i, ex := range valid {
			scores[i] = clf.Predict(compat.Featurize(vec, t.params, ex.pair))
			labels[i] = ex.label
		}
		if auc := compat.AUC(scores, labels); !math.IsNaN(auc) {
			summary.AUC = &auc
		}
	}

	art := &compat.Artifact{
		Format:     compat.FormatVersion,
		Version:    uuid.NewString(),
		CreatedAt:  t.now().UTC(),
		Params:     t.params,
		Vectorizer: vec,
		Classifier: clf,
		Summary:    summary,
	}
	if err := art.Validate(); err != nil {
		return nil, err
	}

	fields := []logger.Field{
		logger.String("version", art.Version),
		logger.Int("train_pairs", summary.TrainPairs),
		logger.Int("validation_pairs", summary.ValidationPairs),
		logger.Int("skipped_pairs", skipped),
		logger.Int("terms", len(vec.Terms)),
	}
	if summary.AUC != nil {
		fields = append(fields, logger.Float64("auc", *summary.AUC))
	} else {
		log.Warn(ctx, "validation split has a single class, AUC undefined")
	}
	log.Info(ctx, "model trained", fields...)

	return &Report{
		Artifact:  art,
		People:    len(src.People()),
		Proposals: len(src.Proposals()),
		Pairs:     len(src.Pairs()),
		Skipped:   skipped,
		Duration:  time.Since(start),
	}, nil
}

// join resolves each pair. Pairs naming an unknown person or proposal are skipped.
func (t *Trainer) join(ctx context.Context, src Source) ([]example, int) {
	log := logger.Named("trainer")
	type resolved struct {
		text     string
		required []string
		severity model.Severity
		village  string
		found    bool
	}
	proposals := make(map[string]resolved)

	var out []example
	skipped := 0
	for _, hp := range src.Pairs() {
		person, ok := src.Person(hp.PersonID)
		if !ok {
			skipped++
			log.Warn(ctx, "skipping pair with unknown person", logger.String("person", hp.PersonID), logger.String("proposal", hp.ProposalID))
			continue
		}
		pc, ok := proposals[hp.ProposalID]
		if !ok {
			prop, found := src.Proposal(hp.ProposalID)
			if !found {
				skipped++
				log.Warn(ctx, "skipping pair with unknown proposal", logger.String("person", hp.PersonID), logger.String("proposal", hp.ProposalID))
				continue
			}
			in := extract.Input{Text: prop.Text, Village: prop.Village}
			if sev, err := model.ParseSeverity(prop.Category); err == nil {
				in.Override = &sev
			}
			res := t.extractor.Extract(in)
			pc = resolved{
				text:     prop.Text,
				required: prop.RequiredSkills,
				severity: res.Severity.Level(),
				village:  res.Location,
				found:    res.LocationFound,
			}
			if len(pc.required) == 0 {
				pc.required = src.DeriveSkills(prop.Text)
			}
			proposals[hp.ProposalID] = pc
		}

		pair := compat.Pair{
			ProposalText:   pc.text,
			RequiredSkills: pc.required,
			Person:         person,
			Severity:       pc.severity,
		}
		if pc.found {
			pair.DistanceKM, pair.DistanceKnown = src.Distance(person.HomeLocation, pc.village)
		}
		out = append(out, example{pair: pair, label: hp.Label})
	}
	return out, skipped
}

// split is a seeded stratified split, so both sides keep the label balance.
func (t *Trainer) split(examples []example) (train, valid []example) {
	var pos, neg []example
	for _, ex := range examples {
		if ex.label {
			pos = append(pos, ex)
		} else {
			neg = append(neg, ex)
		}
	}
	rng := rand.New(rand.NewSource(t.seed))
	for _, group := range [][]example{pos, neg} {
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		n := int(math.Round(float64(len(group)) * t.holdout))
		if n >= len(group) {
			n = len(group) - 1
		}
		valid = append(valid, group[:n]...)
		train = append(train, group[n:]...)
	}
	return train, valid
}
