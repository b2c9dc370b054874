// Package worker applies queued assignment commits to the hours ledger, one
// at a time, and notifies the assigned members.
package worker

import (
	"context"
	"fmt"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/mq/queue"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/notify"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/repository"
	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
	"github.com/Anurag9000/Gram-Connect/pkg/metrics"
)

// Committer applies an assignment and returns the resulting snapshot.
type Committer interface {
	Commit(ctx context.Context, a model.Assignment) (*repository.Snapshot, error)
}

// Directory resolves member ids for notifications.
type Directory interface {
	Person(id string) (model.Person, bool)
}

// Queue defines how the worker receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// CommitWorker is the single writer of the hours ledger.
type CommitWorker struct {
	queue     Queue
	committer Committer
	directory Directory
	notifier  notify.Notifier
	onCommit  func(model.Assignment, *repository.Snapshot, error)
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a commit worker. Notifications default to the log.
func New(q Queue, c Committer, d Directory, opts ...Option) *CommitWorker {
	w := &CommitWorker{
		queue:     q,
		committer: c,
		directory: d,
		name:      "commit-worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.notifier == nil {
		w.notifier = notify.NewLogNotifier()
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes jobs until ctx is cancelled, Shutdown is called or the queue
// closes. Jobs already buffered when Shutdown is called are still committed.
func (w *CommitWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			w.drain(ctx, jobs)
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.handle(ctx, job)
		}
	}
}

// drain commits every buffered job without waiting for new ones.
func (w *CommitWorker) drain(ctx context.Context, jobs <-chan queue.Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.handle(ctx, job)
		default:
			return
		}
	}
}

func (w *CommitWorker) handle(ctx context.Context, job queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	if err := w.process(ctx, job); err != nil {
		w.logger.Error(ctx, "commit failed",
			logger.String("assignment_id", job.Assignment.ID),
			logger.Error(err),
		)
	}
}

// Shutdown stops the worker once buffered jobs are committed.
func (w *CommitWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run returns.
func (w *CommitWorker) Done() <-chan struct{} { return w.done }

func (w *CommitWorker) process(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	if job.RequestID != "" {
		ctx = logger.WithRequestID(ctx, job.RequestID)
	}
	if q, ok := w.queue.(interface{ Len(context.Context) int }); ok {
		q.Len(ctx)
	}

	snap, err := w.committer.Commit(ctx, job.Assignment)
	if w.onCommit != nil {
		defer w.onCommit(job.Assignment, snap, err)
	}
	if err != nil {
		metrics.RecordCommitError()
		return fmt.Errorf("commit %s: %w", job.Assignment.ID, err)
	}
	w.logger.Info(ctx, "assignment committed",
		logger.String("assignment_id", job.Assignment.ID),
		logger.Int("members", len(job.Assignment.PersonIDs)),
		logger.Any("version", snap.Version),
	)

	for _, id := range job.Assignment.PersonIDs {
		person, ok := w.directory.Person(id)
		if !ok {
			person = model.Person{ID: id}
		}
		if err := w.notifier.Notify(ctx, notify.Compose(person, job.Assignment)); err != nil {
			metrics.RecordNotification("error")
			w.logger.Warn(ctx, "notification failed",
				logger.String("assignment_id", job.Assignment.ID),
				logger.String("person_id", id),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordNotification("sent")
	}
	return nil
}
