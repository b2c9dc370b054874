// Package extract classifies the severity of a problem report and finds the
// village it mentions.
package extract

import (
	"sort"
	"strings"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/internal/domain/textnorm"
)

// LocationSource tells where the extracted location came from.
type LocationSource string

// Location sources.
const (
	LocationFromText   LocationSource = "text"
	LocationFromManual LocationSource = "manual"
	LocationNone       LocationSource = "none"
)

// Default severity vocabularies. A keyword ending in "*" is a stem matched
// against the start of words; any other keyword matches whole words only.
var (
	DefaultHighKeywords = []string{
		"urgen*", "immediate*", "emergenc*", "critical", "crisis", "danger*",
		"outbreak", "epidemic", "cholera", "diarrh*", "disease", "sick", "sickness",
		"collaps*", "broken", "burst", "flood*", "drought", "fire",
		"contaminat*", "pollut*", "poison*", "toxic", "injur*", "death", "dead",
	}
	DefaultLowKeywords = []string{
		"routine", "maintenance", "survey", "audit", "inspection", "planning",
		"monitoring", "awareness", "review", "minor", "cosmetic", "painting",
	}
)

type keyword struct {
	phrase string
	prefix bool
}

type place struct {
	phrase string
	name   string
}

// Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	high   []keyword
	low    []keyword
	places []place
}

// New builds an extractor with the default vocabularies and an empty gazetteer.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		high: normalizeAll(DefaultHighKeywords),
		low:  normalizeAll(DefaultLowKeywords),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input is a single extraction request.
type Input struct {
	Text string
	// Override, when set, always wins over detection.
	Override *model.Severity
	// Village is the caller-supplied fallback location.
	Village string
}

// Result carries the severity assessment and the resolved location.
type Result struct {
	Severity       model.SeverityAssessment
	Location       string
	LocationFound  bool
	LocationSource LocationSource
}

// Extract assesses severity and resolves the location. It never fails:
// unresolved severity is NORMAL and an unresolved location is reported as not found.
func (e *Extractor) Extract(in Input) Result {
	res := Result{LocationSource: LocationNone}
	if in.Override != nil {
		res.Severity = model.Override(*in.Override)
	} else {
		res.Severity = e.DetectSeverity(in.Text)
	}

	if loc, ok := e.FindLocation(in.Text); ok {
		res.Location, res.LocationFound, res.LocationSource = loc, true, LocationFromText
		return res
	}
	if manual := strings.TrimSpace(in.Village); manual != "" {
		res.Location, res.LocationFound, res.LocationSource = e.canonical(manual), true, LocationFromManual
	}
	return res
}

// DetectSeverity classifies text by keyword hits. Any HIGH cue wins, then LOW,
// otherwise NORMAL. Confidence is the share of all cues that agree with the level.
func (e *Extractor) DetectSeverity(text string) model.SeverityAssessment {
	phrase := textnorm.Phrase(text)
	highHits := countHits(phrase, e.high)
	lowHits := countHits(phrase, e.low)
	total := float64(highHits + lowHits)

	switch {
	case highHits > 0:
		return model.Auto(model.SeverityHigh, float64(highHits)/total)
	case lowHits > 0:
		return model.Auto(model.SeverityLow, float64(lowHits)/total)
	default:
		return model.Auto(model.SeverityNormal, 0)
	}
}

// FindLocation returns the longest gazetteer village named in the text.
func (e *Extractor) FindLocation(text string) (string, bool) {
	phrase := textnorm.Phrase(text)
	if phrase == "" {
		return "", false
	}
	for _, p := range e.places {
		if textnorm.ContainsPhrase(phrase, p.phrase) {
			return p.name, true
		}
	}
	return "", false
}

// canonical maps a manual village to its gazetteer spelling when known.
func (e *Extractor) canonical(village string) string {
	phrase := textnorm.Phrase(village)
	for _, p := range e.places {
		if p.phrase == phrase {
			return p.name
		}
	}
	return village
}

func countHits(phrase string, words []keyword) int {
	n := 0
	for _, k := range words {
		if k.prefix {
			n += textnorm.CountWordPrefix(phrase, k.phrase)
		} else {
			n += textnorm.CountWord(phrase, k.phrase)
		}
	}
	return n
}

func normalizeAll(words []string) []keyword {
	out := make([]keyword, 0, len(words))
	seen := make(map[keyword]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		k := keyword{prefix: strings.HasSuffix(w, "*")}
		k.phrase = textnorm.Phrase(strings.TrimSuffix(w, "*"))
		if k.phrase == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func buildPlaces(names []string) []place {
	seen := make(map[string]struct{}, len(names))
	places := make([]place, 0, len(names))
	for _, n := range names {
		name := strings.TrimSpace(n)
		p := textnorm.Phrase(name)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		places = append(places, place{phrase: p, name: name})
	}
	// Longest first so "Sundar Nagar East" wins over "Sundar Nagar".
	sort.Slice(places, func(i, j int) bool {
		if len(places[i].phrase) != len(places[j].phrase) {
			return len(places[i].phrase) > len(places[j].phrase)
		}
		return places[i].phrase < places[j].phrase
	})
	return places
}
