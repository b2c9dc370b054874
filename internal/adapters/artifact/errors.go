package artifact

import "errors"

// Sentinel errors for artifact persistence.
var (
	ErrModelUnavailable = errors.New("model artifact unavailable")
	ErrNilArtifact      = errors.New("nil artifact")
)
