package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// SREngine scores service requests against a query using a weighted blend of
// text, system, component, category and priority factors.
type SREngine struct {
	weights  map[schema.FactorKey]float64
	minScore float64
	limit    int
}

// NewSREngine builds an SR similarity engine from the config. The weight
// table and top-k are re-checked here so a hand-built config fails fast
// instead of producing skewed scores.
func NewSREngine(cfg *contract.Config) (*SREngine, error) {
	if err := contract.ValidateWeights(cfg.SRWeights); err != nil {
		return nil, fmt.Errorf("sr engine weights: %w", err)
	}
	limit := cfg.EffectiveSRLimit()
	if limit < 1 {
		return nil, fmt.Errorf("sr engine top-k must be at least 1, got %d", limit)
	}
	return &SREngine{
		weights:  cfg.SRWeights,
		minScore: cfg.MinScore,
		limit:    limit,
	}, nil
}

// srSearchText joins the free-text fields of an SR record into one scoring
// document.
func srSearchText(r schema.SRRecord) string {
	parts := []string{r.Title, r.Description}
	parts = append(parts, r.TechnicalRequirements...)
	return strings.Join(parts, " ")
}

// scoreSR computes the weighted factor breakdown for one candidate.
func (e *SREngine) scoreSR(q schema.Query, r schema.SRRecord) schema.SRMatch {
	factors := make(map[schema.FactorKey]float64, len(e.weights))

	text := CosineSimilarity(q.Text(), srSearchText(r))
	factors[schema.FactorText] = text

	systemMatch := EqualFold(q.System, r.System)
	if systemMatch {
		factors[schema.FactorSystem] = 1.0
	} else {
		factors[schema.FactorSystem] = 0.0
	}

	overlap, shared := JaccardOverlap(q.Components, r.AffectedComponents)
	factors[schema.FactorComponents] = overlap

	if EqualFold(q.Category, r.Category) {
		factors[schema.FactorCategory] = 1.0
	} else {
		factors[schema.FactorCategory] = 0.0
	}

	factors[schema.FactorPriority] = schema.PrioritySimilarity(q.Priority, r.Priority)

	score := 0.0
	for key, weight := range e.weights {
		score += weight * factors[key]
	}

	return schema.SRMatch{
		SR:      r,
		Score:   score,
		Factors: factors,
		MatchFactors: schema.MatchFactors{
			TextSimilarity:       text,
			SystemMatch:          systemMatch,
			ComponentOverlapping: shared,
		},
	}
}

// Search scores every SR candidate against the query and returns the top
// matches in descending score order. Records without an ID are skipped with
// a warning rather than failing the whole search.
func (e *SREngine) Search(ctx context.Context, q schema.Query, records []schema.SRRecord) ([]schema.SRMatch, error) {
	if q.IsEmpty() {
		return nil, contract.ErrInvalidQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q = ExtractSRQueryFields(q, records)

	matches := make([]schema.SRMatch, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			contract.LogWarn("skipping SR record", fmt.Errorf("record %q has no id", r.Title))
			continue
		}
		match := e.scoreSR(q, r)
		if match.Score < e.minScore {
			continue
		}
		matches = append(matches, match)
	}

	return RankSRMatches(matches, e.limit), nil
}
