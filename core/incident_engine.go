package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// IncidentEngine scores past incidents against a query using a weighted
// blend of system, component, text, severity and time-decay factors.
type IncidentEngine struct {
	weights         map[schema.FactorKey]float64
	bands           schema.TemporalBands
	minScore        float64
	limit           int
	now             time.Time
	defaultSeverity schema.Severity
}

// NewIncidentEngine builds an incident correlation engine from the config.
// The weight table and top-k are re-checked here so a hand-built config
// fails fast instead of producing skewed scores.
func NewIncidentEngine(cfg *contract.Config) (*IncidentEngine, error) {
	if err := contract.ValidateWeights(cfg.IncidentWeights); err != nil {
		return nil, fmt.Errorf("incident engine weights: %w", err)
	}
	limit := cfg.EffectiveIncidentLimit()
	if limit < 1 {
		return nil, fmt.Errorf("incident engine top-k must be at least 1, got %d", limit)
	}
	defaultSeverity := cfg.DefaultSeverity
	if !defaultSeverity.IsValid() {
		defaultSeverity = schema.SeverityMedium
	}
	return &IncidentEngine{
		weights:         cfg.IncidentWeights,
		bands:           cfg.Bands,
		minScore:        cfg.MinScore,
		limit:           limit,
		now:             cfg.Now(),
		defaultSeverity: defaultSeverity,
	}, nil
}

// incidentSearchText joins the scoring document for the text factor:
// title, description and root cause. Resolution text stays out of scoring;
// it only feeds the HasResolution annotation.
func incidentSearchText(r schema.IncidentRecord) string {
	parts := []string{r.Title, r.Description, r.RootCause}
	return strings.Join(parts, " ")
}

// scoreIncident computes the weighted factor breakdown for one candidate.
func (e *IncidentEngine) scoreIncident(q schema.Query, r schema.IncidentRecord) schema.IncidentMatch {
	factors := make(map[schema.FactorKey]float64, len(e.weights))

	if EqualFold(q.System, r.System) {
		factors[schema.FactorSystem] = 1.0
	} else {
		factors[schema.FactorSystem] = 0.0
	}

	overlap, _ := JaccardOverlap(q.Components, r.AffectedComponents)
	factors[schema.FactorComponents] = overlap

	factors[schema.FactorText] = CosineSimilarity(q.Text(), incidentSearchText(r))

	severity := r.Severity
	if !severity.IsValid() {
		severity = e.defaultSeverity
	}
	factors[schema.FactorSeverity] = severity.Score(e.defaultSeverity)

	band := schema.BandPast
	if age, ok := schema.AgeDays(r.OccurredDate, e.now); ok {
		band = e.bands.Band(age)
	}
	factors[schema.FactorTime] = e.bands.Weight(band)

	score := 0.0
	for key, weight := range e.weights {
		score += weight * factors[key]
	}

	return schema.IncidentMatch{
		Incident:          r,
		Score:             score,
		Factors:           factors,
		TemporalRelevance: band,
		RiskFactors: schema.RiskFactors{
			Severity:       severity,
			AffectedUsers:  r.AffectedUsers,
			Duration:       r.Duration,
			BusinessImpact: r.BusinessImpact,
			RootCause:      r.RootCause,
			HasResolution:  strings.TrimSpace(r.Resolution) != "",
		},
	}
}

// Search scores every incident candidate against the query and returns the
// top matches in descending score order. Records without an ID are skipped
// with a warning rather than failing the whole search.
func (e *IncidentEngine) Search(ctx context.Context, q schema.Query, records []schema.IncidentRecord) ([]schema.IncidentMatch, error) {
	if q.IsEmpty() {
		return nil, contract.ErrInvalidQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q = ExtractIncidentQueryFields(q, records)

	matches := make([]schema.IncidentMatch, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			contract.LogWarn("skipping incident record", fmt.Errorf("record %q has no id", r.Title))
			continue
		}
		match := e.scoreIncident(q, r)
		if match.Score < e.minScore {
			continue
		}
		matches = append(matches, match)
	}

	return RankIncidentMatches(matches, e.limit), nil
}
