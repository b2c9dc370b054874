package worker

import (
	"github.com/Anurag9000/Gram-Connect/internal/adapters/notify"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/repository"
	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

// Option applies a configuration option to the CommitWorker.
type Option func(*CommitWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *CommitWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *CommitWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithNotifier sets where member notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(w *CommitWorker) {
		if n != nil {
			w.notifier = n
		}
	}
}

// WithOnCommit registers a hook called after every processed job.
func WithOnCommit(fn func(model.Assignment, *repository.Snapshot, error)) Option {
	return func(w *CommitWorker) { w.onCommit = fn }
}
