package core

import (
	"math"
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into letter/digit runs. Hangul,
// CJK and Latin input all tokenize the same way, so mixed-language SR
// titles compare cleanly.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// termFrequency builds a term frequency vector from tokens.
func termFrequency(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	return tf
}

// CosineSimilarity computes the cosine of the angle between the term
// frequency vectors of two texts. It returns a value in [0,1]; either text
// tokenizing to nothing yields 0.
func CosineSimilarity(a, b string) float64 {
	tfA := termFrequency(Tokenize(a))
	tfB := termFrequency(Tokenize(b))
	if len(tfA) == 0 || len(tfB) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for term, wa := range tfA {
		normA += wa * wa
		if wb, ok := tfB[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range tfB {
		normB += wb * wb
	}
	if dot == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// normalizeSet lowercases and trims a component list into a set, dropping
// empty entries.
func normalizeSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		cleaned := strings.ToLower(strings.TrimSpace(item))
		if cleaned != "" {
			set[cleaned] = struct{}{}
		}
	}
	return set
}

// JaccardOverlap computes |A∩B| / |A∪B| over two component lists, plus the
// raw intersection count. Either side empty yields 0: no overlap evidence
// is not the same as full overlap.
func JaccardOverlap(a, b []string) (float64, int) {
	setA := normalizeSet(a)
	setB := normalizeSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0, 0
	}

	shared := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union), shared
}

// EqualFold reports whether two categorical fields match, ignoring case and
// surrounding whitespace. Either side empty never matches.
func EqualFold(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
