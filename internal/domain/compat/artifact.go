package compat

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"
)

// FormatVersion is bumped whenever the artifact layout changes.
const FormatVersion = 1

// TrainingSummary records how an artifact was produced.
type TrainingSummary struct {
	// AUC on the held-out split; nil when the split held a single class.
	AUC             *float64 `json:"auc,omitempty"`
	TrainPairs      int      `json:"train_pairs"`
	ValidationPairs int      `json:"validation_pairs"`
	Positives       int      `json:"positives"`
	SkippedPairs    int      `json:"skipped_pairs"`
	Seed            int64    `json:"seed"`
}

// Artifact is the immutable, versioned output of training. It bundles the
// fitted classifier with the exact feature extraction state.
type Artifact struct {
	Format     int             `json:"format"`
	Version    string          `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	Params     Params          `json:"params"`
	Vectorizer *Vectorizer     `json:"vectorizer"`
	Classifier *Classifier     `json:"classifier"`
	Summary    TrainingSummary `json:"summary"`
}

// Validate checks structural integrity.
func (a *Artifact) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil artifact", ErrCorruptArtifact)
	}
	if a.Format != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, a.Format)
	}
	if a.Version == "" {
		return fmt.Errorf("%w: missing version", ErrCorruptArtifact)
	}
	if !(a.Params.DistanceScale > 0) || !(a.Params.DistanceDecay > 0) {
		return fmt.Errorf("%w: distance params must be positive", ErrCorruptArtifact)
	}
	if a.Vectorizer == nil || a.Classifier == nil {
		return fmt.Errorf("%w: missing vectorizer or classifier", ErrCorruptArtifact)
	}
	if err := a.Vectorizer.validate(); err != nil {
		return fmt.Errorf("vectorizer: %w", err)
	}
	if a.Summary.AUC != nil && math.IsNaN(*a.Summary.AUC) {
		return fmt.Errorf("%w: NaN auc", ErrCorruptArtifact)
	}
	return a.Classifier.validate(NumFeatures)
}

// Encode writes the artifact as indented JSON.
func (a *Artifact) Encode(w io.Writer) error {
	if err := a.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// DecodeArtifact reads and validates an artifact.
func DecodeArtifact(r io.Reader) (*Artifact, error) {
	var a Artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	a.Vectorizer.buildIndex()
	return &a, nil
}
