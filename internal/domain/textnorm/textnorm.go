// Package textnorm folds free text into the comparable form shared by the
// extractor, the vectorizer and skill matching.
//
// Pipeline:
//  1. drop invalid UTF-8
//  2. NFKD decomposition
//  3. case folding
//  4. strip combining and format marks (accents, zero-width joiners)
//  5. fold fullwidth forms
//  6. NFC recomposition
//  7. every non letter/digit rune becomes a space, runs collapse, ends trim
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			norm.NFC,
		)
	},
}

// stopwords carry no matching signal in problem reports or skill names.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "at": {}, "be": {}, "by": {}, "for": {},
	"from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {},
	"on": {}, "or": {}, "our": {}, "the": {}, "their": {}, "there": {}, "this": {}, "to": {},
	"was": {}, "we": {}, "were": {}, "with": {}, "near": {}, "very": {}, "been": {}, "not": {},
}

// Fold applies steps 1-6 and leaves punctuation in place.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Phrase returns the fully normalized form: folded, punctuation replaced by
// single spaces, trimmed. "Hand-Pump  Repair!" becomes "hand pump repair".
func Phrase(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Tokens splits the normalized phrase into words.
func Tokens(s string) []string {
	return strings.Fields(Phrase(s))
}

// ContentTokens drops stopwords and single characters.
func ContentTokens(s string) []string {
	toks := Tokens(s)
	out := toks[:0]
	for _, t := range toks {
		if len(t) < 2 {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ContainsPhrase reports whether needle occurs in haystack on word boundaries.
// Both arguments must already be normalized with Phrase.
func ContainsPhrase(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// HasWordPrefix reports whether some word (or word sequence) of haystack starts
// with stem, so "contaminat" matches "contaminated water". Both arguments must
// already be normalized with Phrase.
func HasWordPrefix(haystack, stem string) bool {
	if stem == "" {
		return false
	}
	return strings.Contains(" "+haystack, " "+stem)
}

// CountWordPrefix counts the words of haystack that start with stem.
func CountWordPrefix(haystack, stem string) int {
	if stem == "" || haystack == "" {
		return 0
	}
	return strings.Count(" "+haystack, " "+stem)
}

// CountWord counts whole-word occurrences of word in haystack. A plain "s" or
// "es" plural also counts, so "fire" matches "fires" but not "firewood".
func CountWord(haystack, word string) int {
	if word == "" || haystack == "" {
		return 0
	}
	if strings.Contains(word, " ") {
		return strings.Count(" "+haystack+" ", " "+word+" ")
	}
	n := 0
	for _, w := range strings.Fields(haystack) {
		if w == word || w == word+"s" || w == word+"es" {
			n++
		}
	}
	return n
}
