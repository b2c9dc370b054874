package api

import (
	"errors"
	"net/http"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/artifact"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/featurestore"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/mq/queue"
	"github.com/Anurag9000/Gram-Connect/internal/adapters/repository"
	service "github.com/Anurag9000/Gram-Connect/internal/app"
	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/quota"
	"github.com/Anurag9000/Gram-Connect/internal/domain/training"
	"github.com/Anurag9000/Gram-Connect/internal/domain/ultra"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// classify maps an error to its HTTP status and code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ultra.ErrInvalidTeamSize),
		errors.Is(err, ultra.ErrInvalidNumTeams),
		errors.Is(err, service.ErrEmptyProposal),
		errors.Is(err, service.ErrInvalidTaskWindow),
		errors.Is(err, model.ErrUnknownSeverity),
		errors.Is(err, model.ErrEmptyID),
		errors.Is(err, model.ErrInvalidWindow),
		errors.Is(err, quota.ErrInvalidWeek),
		errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrTrainingInProgress):
		return http.StatusConflict, "training_in_progress"
	case errors.Is(err, training.ErrInsufficientPairs),
		errors.Is(err, training.ErrSingleClass):
		return http.StatusUnprocessableEntity, "training_rejected"
	case errors.Is(err, featurestore.ErrOpenDataset),
		errors.Is(err, featurestore.ErrMalformedDataset):
		return http.StatusUnprocessableEntity, "dataset_invalid"
	case errors.Is(err, artifact.ErrModelUnavailable),
		errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, queue.ErrQueueFull),
		errors.Is(err, queue.ErrQueueClosed):
		return http.StatusServiceUnavailable, "backpressure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
