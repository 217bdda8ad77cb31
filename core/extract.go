package core

import (
	"sort"
	"strings"

	"github.com/joonpark/srnav/schema"
)

// collectVocabulary gathers the distinct non-empty values a field takes
// across the collection, preserving original casing for the first spelling
// seen.
func collectVocabulary(values []string) []string {
	seen := make(map[string]string)
	for _, v := range values {
		cleaned := strings.TrimSpace(v)
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; !ok {
			seen[key] = cleaned
		}
	}
	vocab := make([]string, 0, len(seen))
	for _, v := range seen {
		vocab = append(vocab, v)
	}
	sort.Strings(vocab)
	return vocab
}

// matchVocabulary returns every vocabulary entry mentioned in the text.
// Matching is case-insensitive substring containment, which is enough for
// system and component names that appear verbatim in SR prose.
func matchVocabulary(text string, vocab []string) []string {
	lowered := strings.ToLower(text)
	var found []string
	for _, v := range vocab {
		if strings.Contains(lowered, strings.ToLower(v)) {
			found = append(found, v)
		}
	}
	return found
}

// ExtractSRQueryFields fills missing structured query fields by scanning the
// query text against the SR collection's vocabulary. Fields the caller
// already set are never overwritten; extraction is best effort and an
// unmatched field simply stays empty.
func ExtractSRQueryFields(q schema.Query, records []schema.SRRecord) schema.Query {
	text := q.Text()
	if text == "" {
		return q
	}

	if q.System == "" {
		systems := make([]string, 0, len(records))
		for _, r := range records {
			systems = append(systems, r.System)
		}
		if found := matchVocabulary(text, collectVocabulary(systems)); len(found) > 0 {
			q.System = found[0]
		}
	}

	if len(q.Components) == 0 {
		var components []string
		for _, r := range records {
			components = append(components, r.AffectedComponents...)
		}
		q.Components = matchVocabulary(text, collectVocabulary(components))
	}

	if q.Category == "" {
		categories := make([]string, 0, len(records))
		for _, r := range records {
			categories = append(categories, r.Category)
		}
		if found := matchVocabulary(text, collectVocabulary(categories)); len(found) > 0 {
			q.Category = found[0]
		}
	}

	return q
}

// ExtractIncidentQueryFields fills missing structured query fields by
// scanning the query text against the incident collection's vocabulary.
func ExtractIncidentQueryFields(q schema.Query, records []schema.IncidentRecord) schema.Query {
	text := q.Text()
	if text == "" {
		return q
	}

	if q.System == "" {
		systems := make([]string, 0, len(records))
		for _, r := range records {
			systems = append(systems, r.System)
		}
		if found := matchVocabulary(text, collectVocabulary(systems)); len(found) > 0 {
			q.System = found[0]
		}
	}

	if len(q.Components) == 0 {
		var components []string
		for _, r := range records {
			components = append(components, r.AffectedComponents...)
		}
		q.Components = matchVocabulary(text, collectVocabulary(components))
	}

	return q
}
