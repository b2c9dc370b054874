package compat

import (
	"math"
	"sort"

	"github.com/Anurag9000/Gram-Connect/internal/domain/textnorm"
)

// Term is one non-zero weight of a sparse vector.
type Term struct {
	Index  int
	Weight float64
}

// Sparse is a sparse vector with terms sorted by index.
type Sparse []Term

// Dot returns the inner product; both vectors must be index-sorted.
func (s Sparse) Dot(o Sparse) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(s) && j < len(o) {
		switch {
		case s[i].Index == o[j].Index:
			sum += s[i].Weight * o[j].Weight
			i++
			j++
		case s[i].Index < o[j].Index:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vectorizer is a TF-IDF model over normalized content tokens.
type Vectorizer struct {
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`

	index map[string]int
}

// FitVectorizer learns the vocabulary and smoothed IDF weights from docs.
func FitVectorizer(docs []string) *Vectorizer {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]struct{})
		for _, tok := range textnorm.ContentTokens(d) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	v := &Vectorizer{Terms: terms, IDF: idf}
	v.buildIndex()
	return v
}

func (v *Vectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.Terms))
	for i, t := range v.Terms {
		v.index[t] = i
	}
}

// Transform embeds text as an L2-normalized TF-IDF vector. Unknown tokens are ignored.
func (v *Vectorizer) Transform(text string) Sparse {
	counts := make(map[int]float64)
	for _, tok := range textnorm.ContentTokens(text) {
		if i, ok := v.index[tok]; ok {
			counts[i]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	out := make(Sparse, 0, len(counts))
	for i, c := range counts {
		out = append(out, Term{Index: i, Weight: c * v.IDF[i]})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })

	var norm float64
	for _, t := range out {
		norm += t.Weight * t.Weight
	}
	norm = math.Sqrt(norm)
	for k := range out {
		out[k].Weight /= norm
	}
	return out
}

// Similarity is the cosine similarity of two texts in [0,1].
func (v *Vectorizer) Similarity(a, b string) float64 {
	s := v.Transform(a).Dot(v.Transform(b))
	if s > 1 {
		return 1
	}
	return s
}

func (v *Vectorizer) validate() error {
	if len(v.Terms) != len(v.IDF) {
		return ErrCorruptArtifact
	}
	for i, w := range v.IDF {
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return ErrCorruptArtifact
		}
		if i > 0 && v.Terms[i-1] >= v.Terms[i] {
			return ErrCorruptArtifact
		}
	}
	return nil
}
