package service

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/artifact"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/featurestore"
	"github.com/Anurag9000/Gram-Connect/internal/config"
	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
	"github.com/Anurag9000/Gram-Connect/internal/domain/extract"
	"github.com/Anurag9000/Gram-Connect/internal/domain/training"
	"github.com/Anurag9000/Gram-Connect/internal/domain/types"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
	"github.com/Anurag9000/Gram-Connect/pkg/metrics"
)

// Trainer runs one training job at a time and publishes the result.
type Trainer struct {
	mu     sync.Mutex
	cfg    *config.Config
	holder *artifact.Holder
	log    logger.Logger
}

// NewTrainer creates a trainer. A nil holder only writes the artifact file.
func NewTrainer(cfg *config.Config, holder *artifact.Holder) *Trainer {
	return &Trainer{cfg: cfg, holder: holder, log: logger.Named("training")}
}

// Run loads the datasets, fits a model and saves it. When the output is the
// served model path the new model is swapped in; on any failure the previous
// artifact stays untouched.
func (t *Trainer) Run(ctx context.Context, req types.TrainRequest) (*types.TrainResponse, error) {
	if !t.mu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer t.mu.Unlock()

	started := time.Now()
	resp, err := t.run(ctx, req)
	if err != nil {
		metrics.RecordTrainingRun("failure", time.Since(started).Seconds(), 0, 0)
		t.log.Error(ctx, "training failed, previous model kept", logger.Error(err))
		return nil, err
	}
	auc := 0.0
	if resp.AUC != nil {
		auc = *resp.AUC
	}
	metrics.RecordTrainingRun("success", time.Since(started).Seconds(), auc, resp.TrainPairs)
	return resp, nil
}

func (t *Trainer) run(ctx context.Context, req types.TrainRequest) (*types.TrainResponse, error) {
	paths := featurestore.Paths{
		People:    pick(req.PeoplePath, t.cfg.PeoplePath),
		Proposals: pick(req.ProposalsPath, t.cfg.ProposalsPath),
		Pairs:     pick(req.PairsPath, t.cfg.PairsPath),
		Villages:  t.cfg.VillagesPath,
		Distances: t.cfg.DistancesPath,
	}
	out := pick(req.OutputPath, t.cfg.ModelPath)

	store, err := featurestore.Load(ctx, paths, featurestore.WithDefaultQuota(t.cfg.WeeklyQuotaHours))
	if err != nil {
		return nil, err
	}
	report, err := training.New(
		training.WithSeed(t.cfg.TrainSeed),
		training.WithHoldout(t.cfg.TrainHoldout),
		training.WithMinPairs(t.cfg.MinTrainingPairs),
		training.WithParams(compat.Params{DistanceScale: t.cfg.DistanceScale, DistanceDecay: t.cfg.DistanceDecay}),
		training.WithExtractor(extract.New(extract.WithVillages(store.VillageNames()...))),
	).Train(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := artifact.Save(out, report.Artifact); err != nil {
		return nil, err
	}

	if t.holder != nil && samePath(out, t.cfg.ModelPath) {
		m, err := compat.NewModel(report.Artifact)
		if err != nil {
			return nil, err
		}
		if old := t.holder.Swap(m); old != nil {
			t.log.Info(ctx, "model swapped",
				logger.String("old", old.Version()),
				logger.String("new", m.Version()),
			)
		}
	}

	s := report.Artifact.Summary
	return &types.TrainResponse{
		Version:         report.Artifact.Version,
		People:          report.People,
		Proposals:       report.Proposals,
		Pairs:           report.Pairs,
		Skipped:         report.Skipped,
		TrainPairs:      s.TrainPairs,
		ValidationPairs: s.ValidationPairs,
		AUC:             s.AUC,
		OutputPath:      out,
		DurationMS:      report.Duration.Milliseconds(),
	}, nil
}

func pick(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
