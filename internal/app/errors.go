package service

import "errors"

// Sentinel errors returned by the engine and service.
var (
	ErrEmptyProposal      = errors.New("proposal text is empty")
	ErrInvalidTaskWindow  = errors.New("task window must have start before end")
	ErrTrainingInProgress = errors.New("training already in progress")
	ErrNotStarted         = errors.New("service not started")
)
