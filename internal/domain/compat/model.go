// Package compat implements the compatibility model: TF-IDF text similarity,
// pair featurization, a logistic classifier and the artifact that bundles them.
package compat

import "fmt"

// Model serves compatibility probabilities from one artifact. It never
// changes after construction and is safe for concurrent use.
type Model struct {
	art *Artifact
}

// NewModel validates the artifact and wraps it for inference.
func NewModel(a *Artifact) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.Vectorizer.index == nil {
		a.Vectorizer.buildIndex()
	}
	return &Model{art: a}, nil
}

// Version identifies the artifact.
func (m *Model) Version() string { return m.art.Version }

// Artifact exposes the underlying artifact for inspection. Callers must not modify it.
func (m *Model) Artifact() *Artifact { return m.art }

// Params returns the feature parameters the model was trained with.
func (m *Model) Params() Params { return m.art.Params }

// Features recomputes the training-time feature vector for a pair.
func (m *Model) Features(p Pair) []float64 {
	return Featurize(m.art.Vectorizer, m.art.Params, p)
}

// Score returns the compatibility probability in [0,1].
func (m *Model) Score(p Pair) float64 {
	return m.art.Classifier.Predict(m.Features(p))
}

func (m *Model) String() string {
	return fmt.Sprintf("model %s (%d terms)", m.art.Version, len(m.art.Vectorizer.Terms))
}
