package compat

import "errors"

// Sentinel errors for model fitting and artifact handling.
var (
	ErrEmptyTrainingSet  = errors.New("empty training set")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	ErrCorruptArtifact   = errors.New("corrupt model artifact")
	ErrUnsupportedFormat = errors.New("unsupported artifact format")
)
