// Package service wires the matching engine, the trainer and the assignment
// commit pipeline into the dependencies required by the HTTP API and CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/artifact"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/featurestore"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/mq/queue"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/mq/worker"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/notify"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/repository"
	"github.com/Anurag9000/Gram-Connect/internal/config"
	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
	"github.com/Anurag9000/Gram-Connect/internal/domain/dedupe"
	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/quota"
	"github.com/Anurag9000/Gram-Connect/internal/domain/types"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
	"github.com/Anurag9000/Gram-Connect/pkg/metrics"
)

// Service owns every long-lived component of the engine.
type Service struct {
	mu sync.RWMutex

	cfg      *config.Config
	store    *featurestore.Store
	model    *compat.Model
	notifier notify.Notifier
	onCommit func(model.Assignment, *repository.Snapshot, error)
	now      func() time.Time

	holder  *artifact.Holder
	ledger  *repository.Ledger
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	worker  *worker.CommitWorker
	watcher *artifact.Watcher
	engine  *Engine
	trainer *Trainer

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the process configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore uses an already loaded feature store instead of reading the datasets.
func WithStore(st *featurestore.Store) Option {
	return func(s *Service) { s.store = st }
}

// WithModel serves m instead of loading the artifact file.
func WithModel(m *compat.Model) Option {
	return func(s *Service) { s.model = m }
}

// WithNotifier overrides the assignment notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithCommitHook observes every applied (or failed) commit.
func WithCommitHook(fn func(model.Assignment, *repository.Snapshot, error)) Option {
	return func(s *Service) { s.onCommit = fn }
}

// WithServiceClock sets the time source for the ledger and the engine.
func WithServiceClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the reference data and the model, seeds the ledger and starts
// the commit worker. A missing or corrupt artifact is fatal.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.logger.Info(ctx, "starting matching service...")

	if s.store == nil {
		st, err := featurestore.Load(ctx, featurestore.Paths{
			People:       s.cfg.PeoplePath,
			Villages:     s.cfg.VillagesPath,
			Distances:    s.cfg.DistancesPath,
			Availability: s.cfg.AvailabilityPath,
			Schedule:     s.cfg.SchedulePath,
		}, featurestore.WithDefaultQuota(s.cfg.WeeklyQuotaHours))
		if err != nil {
			return fmt.Errorf("load datasets: %w", err)
		}
		s.store = st
	}
	if len(s.store.People()) == 0 {
		return featurestore.ErrNoPeople
	}
	if s.model == nil {
		m, err := artifact.Load(s.cfg.ModelPath)
		if err != nil {
			return err
		}
		s.model = m
	}
	s.holder = artifact.NewHolder(s.model)

	s.ledger = repository.NewLedger(repository.WithClock(s.now))
	if err := s.seedLedger(ctx); err != nil {
		return err
	}
	s.deduper = dedupe.New(dedupe.WithCapacity(s.cfg.DedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.cfg.CommitQueueSize))

	if s.notifier == nil {
		s.notifier = s.dialNotifier(ctx)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	wopts := []worker.Option{worker.WithNotifier(s.notifier)}
	if s.onCommit != nil {
		wopts = append(wopts, worker.WithOnCommit(s.onCommit))
	}
	s.worker = worker.New(s.queue, s.ledger, s.store, wopts...)
	go s.worker.Run(runCtx)

	if s.cfg.WatchModel && s.cfg.ModelPath != "" {
		w, err := artifact.Watch(runCtx, s.cfg.ModelPath, s.holder)
		if err != nil {
			s.logger.Warn(ctx, "model watcher disabled", logger.Error(err))
		} else {
			s.watcher = w
		}
	}

	s.engine = NewEngine(s.store, s.holder, s.ledger, SettingsFromConfig(s.cfg), WithClock(s.now))
	s.trainer = NewTrainer(s.cfg, s.holder)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("people", len(s.store.People())),
		logger.String("model", s.model.Version()),
		logger.Int("queueSize", s.cfg.CommitQueueSize),
		logger.Int("dedupeSize", s.cfg.DedupeSize),
	)
	return nil
}

func (s *Service) seedLedger(ctx context.Context) error {
	sched := s.store.Schedule()
	if len(sched) == 0 {
		return nil
	}
	entries := make([]repository.SeedEntry, len(sched))
	for i, e := range sched {
		entries[i] = repository.SeedEntry{
			PersonID: e.PersonID,
			Window:   &quota.Interval{Start: e.Start, End: e.End},
		}
	}
	snap, err := s.ledger.Seed(ctx, entries)
	if err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}
	s.logger.Info(ctx, "ledger seeded from schedule",
		logger.Int("entries", len(entries)),
		logger.Int("people", snap.People()),
	)
	return nil
}

func (s *Service) dialNotifier(ctx context.Context) notify.Notifier {
	if s.cfg.NATSURL == "" {
		return notify.NewLogNotifier()
	}
	n, err := notify.NewNATS(s.cfg.NATSURL, s.cfg.NATSSubject)
	if err != nil {
		s.logger.Warn(ctx, "nats unavailable, notifications go to the log",
			logger.String("url", s.cfg.NATSURL),
			logger.Error(err),
		)
		return notify.NewLogNotifier()
	}
	return n
}

// Stop gracefully shuts down the service, draining the job in flight.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping matching service...")

	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
	}
	_ = s.queue.Close()
	errs = append(errs, s.worker.Shutdown(ctx))
	s.cancel()
	errs = append(errs, s.notifier.Close())

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
	return errors.Join(errs...)
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Recommend answers a recommendation request.
func (s *Service) Recommend(ctx context.Context, req types.RecommendRequest) (*types.RecommendResponse, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.engine.Recommend(ctx, req)
}

// CommitAssignment enqueues an accepted team for the ledger. Repeated ids are
// acknowledged as duplicates without a second commit.
func (s *Service) CommitAssignment(ctx context.Context, req types.AssignmentRequest) (*types.AssignmentAck, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	a := model.Assignment{
		ID:         id,
		ProposalID: req.ProposalID,
		Title:      req.Title,
		Village:    req.Village,
		PersonIDs:  req.PersonIDs,
		Start:      req.Start,
		End:        req.End,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if s.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordCommitDuplicate()
		s.logger.Debug(ctx, "duplicate assignment, skipping", logger.String("assignment_id", id))
		return &types.AssignmentAck{ID: id, Status: "duplicate", Duplicate: true}, nil
	}
	err := s.queue.Enqueue(ctx, queue.Job{
		Assignment: a,
		RequestID:  logger.RequestID(ctx),
		EnqueuedAt: s.now(),
	})
	if err != nil {
		s.deduper.Unrecord(ctx, id)
		return nil, err
	}
	return &types.AssignmentAck{ID: id, Status: "accepted"}, nil
}

// Train runs a training job. Only one job runs at a time.
func (s *Service) Train(ctx context.Context, req types.TrainRequest) (*types.TrainResponse, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.trainer.Run(ctx, req)
}

// ModelInfo describes the artifact in service.
func (s *Service) ModelInfo(_ context.Context) (*types.ModelInfo, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	m, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	return DescribeModel(m), nil
}

// DescribeModel summarizes an artifact for display.
func DescribeModel(m *compat.Model) *types.ModelInfo {
	a := m.Artifact()
	return &types.ModelInfo{
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
		AUC:             a.Summary.AUC,
		TrainPairs:      a.Summary.TrainPairs,
		ValidationPairs: a.Summary.ValidationPairs,
		DistanceScale:   a.Params.DistanceScale,
		DistanceDecay:   a.Params.DistanceDecay,
		Terms:           len(a.Vectorizer.Terms),
		Features:        compat.FeatureNames[:],
	}
}

// Workload ranks the most loaded people in week w. A zero week means the current one.
func (s *Service) Workload(_ context.Context, w quota.Week, limit int) (*types.Workload, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	if w == (quota.Week{}) {
		w = quota.WeekOf(s.now())
	}
	snap := s.ledger.Snapshot()
	loads, err := snap.TopLoaded(w, limit)
	if err != nil {
		return nil, err
	}
	out := &types.Workload{Week: w.String(), LedgerVersion: snap.Version, Entries: make([]types.WorkloadEntry, len(loads))}
	for i, l := range loads {
		e := types.WorkloadEntry{Rank: l.Rank, PersonID: l.PersonID, Hours: l.Hours}
		if p, ok := s.store.Person(l.PersonID); ok {
			e.Name = p.Name
		}
		out.Entries[i] = e
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"queueSize":  s.cfg.CommitQueueSize,
		"dedupeSize": s.cfg.DedupeSize,
	}
	if s.started {
		ctx := context.Background()
		snap := s.ledger.Snapshot()
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["ledgerVersion"] = snap.Version
		stats["commits"] = snap.Commits
		stats["loadedPeople"] = snap.People()
		stats["people"] = len(s.store.People())
		stats["villages"] = len(s.store.VillageNames())
		stats["dedupeEntries"] = s.deduper.Size()
		if m, err := s.holder.Current(); err == nil {
			stats["modelVersion"] = m.Version()
		}
		metrics.UpdateCommitQueueDepth(queueLen)
	}
	return stats
}
