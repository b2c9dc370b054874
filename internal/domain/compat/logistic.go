package compat

import (
	"fmt"
	"math"
)

// FitOptions tunes logistic regression training.
type FitOptions struct {
	Epochs       int
	LearningRate float64
	L2           float64
}

// DefaultFitOptions are used when a field is zero.
var DefaultFitOptions = FitOptions{Epochs: 800, LearningRate: 0.5, L2: 1e-3}

// Classifier is an L2-regularized logistic regression over standardized
// features. NaN inputs are imputed with the column mean.
type Classifier struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Means   []float64 `json:"means"`
	Scales  []float64 `json:"scales"`
}

// FitLogistic trains by full-batch gradient descent from zero weights, so the
// result depends only on the data and options.
func FitLogistic(x [][]float64, y []bool, opts FitOptions) (*Classifier, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrDimensionMismatch, len(x), len(y))
	}
	dim := len(x[0])
	for i, row := range x {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), dim)
		}
	}
	if opts.Epochs <= 0 {
		opts.Epochs = DefaultFitOptions.Epochs
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = DefaultFitOptions.LearningRate
	}
	if opts.L2 < 0 {
		opts.L2 = DefaultFitOptions.L2
	}

	c := &Classifier{Weights: make([]float64, dim)}
	c.Means, c.Scales = columnStats(x, dim)

	z := make([][]float64, len(x))
	for i, row := range x {
		z[i] = c.standardize(row)
	}

	n := float64(len(z))
	grad := make([]float64, dim)
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64
		for i, row := range z {
			target := 0.0
			if y[i] {
				target = 1
			}
			diff := sigmoid(dot(c.Weights, row)+c.Bias) - target
			for j, v := range row {
				grad[j] += diff * v
			}
			gradBias += diff
		}
		for j := range c.Weights {
			c.Weights[j] -= opts.LearningRate * (grad[j]/n + opts.L2*c.Weights[j])
		}
		c.Bias -= opts.LearningRate * gradBias / n
	}
	return c, nil
}

// Predict returns the positive-class probability.
func (c *Classifier) Predict(x []float64) float64 {
	return sigmoid(dot(c.Weights, c.standardize(x)) + c.Bias)
}

func (c *Classifier) standardize(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		if math.IsNaN(v) {
			continue
		}
		out[j] = (v - c.Means[j]) / c.Scales[j]
	}
	return out
}

func (c *Classifier) validate(dim int) error {
	if len(c.Weights) != dim || len(c.Means) != dim || len(c.Scales) != dim {
		return fmt.Errorf("%w: classifier expects %d features", ErrCorruptArtifact, dim)
	}
	for j := 0; j < dim; j++ {
		if !finite(c.Weights[j]) || !finite(c.Means[j]) || !finite(c.Scales[j]) || c.Scales[j] <= 0 {
			return fmt.Errorf("%w: non-finite classifier parameter %d", ErrCorruptArtifact, j)
		}
	}
	if !finite(c.Bias) {
		return fmt.Errorf("%w: non-finite bias", ErrCorruptArtifact)
	}
	return nil
}

// columnStats returns per-column mean and population standard deviation over
// non-NaN values. Constant or empty columns get scale 1.
func columnStats(x [][]float64, dim int) ([]float64, []float64) {
	means := make([]float64, dim)
	scales := make([]float64, dim)
	for j := 0; j < dim; j++ {
		var sum float64
		var count int
		for _, row := range x {
			if !math.IsNaN(row[j]) {
				sum += row[j]
				count++
			}
		}
		if count == 0 {
			scales[j] = 1
			continue
		}
		mean := sum / float64(count)
		var ss float64
		for _, row := range x {
			if !math.IsNaN(row[j]) {
				d := row[j] - mean
				ss += d * d
			}
		}
		sd := math.Sqrt(ss / float64(count))
		if sd < 1e-12 {
			sd = 1
		}
		means[j], scales[j] = mean, sd
	}
	return means, scales
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
