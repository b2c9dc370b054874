package compat

import (
	"math"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/textnorm"
)

// Feature positions in the vector.
const (
	FeatureSimilarity = iota
	FeatureSkillOverlap
	FeatureAvailability
	FeatureDistanceNorm
	FeatureDistanceDecay
	FeatureSeverity

	NumFeatures
)

// FeatureNames labels the vector positions for reports.
var FeatureNames = [NumFeatures]string{
	"similarity", "skill_overlap", "availability", "distance_norm", "distance_decay", "severity",
}

// Params are the feature extraction parameters persisted with the artifact.
type Params struct {
	DistanceScale float64 `json:"distance_scale"`
	DistanceDecay float64 `json:"distance_decay"`
}

// Pair is everything needed to featurize one (proposal, person) pair.
type Pair struct {
	ProposalText   string
	RequiredSkills []string
	Person         model.Person
	Severity       model.Severity
	DistanceKM     float64
	DistanceKnown  bool
}

// Featurize builds the feature vector. Distance features are NaN when the
// distance is unknown; the classifier imputes them with the training mean.
func Featurize(vec *Vectorizer, p Params, pair Pair) []float64 {
	x := make([]float64, NumFeatures)
	x[FeatureSimilarity] = vec.Similarity(pair.ProposalText, pair.Person.SkillProfile())
	x[FeatureSkillOverlap] = float64(SkillOverlap(pair.Person.Skills, pair.RequiredSkills, pair.ProposalText))
	x[FeatureAvailability] = float64(pair.Person.Availability.Level()) / 2
	x[FeatureSeverity] = float64(pair.Severity.Level()) / 2

	if pair.DistanceKnown && pair.DistanceKM >= 0 {
		x[FeatureDistanceNorm] = math.Min(pair.DistanceKM/p.DistanceScale, 1)
		x[FeatureDistanceDecay] = math.Exp(-pair.DistanceKM / p.DistanceDecay)
	} else {
		x[FeatureDistanceNorm] = math.NaN()
		x[FeatureDistanceDecay] = math.NaN()
	}
	return x
}

// SkillOverlap counts the person's skills that are either required or named by
// the proposal text. A multi-word skill is named when at least half of its
// content words occur in the text.
func SkillOverlap(skills, required []string, text string) int {
	req := make(map[string]struct{}, len(required))
	for _, r := range required {
		req[textnorm.Phrase(r)] = struct{}{}
	}
	words := make(map[string]struct{})
	for _, t := range textnorm.ContentTokens(text) {
		words[t] = struct{}{}
	}

	n := 0
	for _, s := range skills {
		phrase := textnorm.Phrase(s)
		if _, ok := req[phrase]; ok {
			n++
			continue
		}
		toks := textnorm.ContentTokens(phrase)
		if len(toks) == 0 {
			continue
		}
		hit := 0
		for _, t := range toks {
			if _, ok := words[t]; ok {
				hit++
			}
		}
		if 2*hit >= len(toks) {
			n++
		}
	}
	return n
}
