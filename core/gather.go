package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// Gatherer fans a query out to both engines and assembles the evidence
// bundle handed to the risk-narrative stage. Each engine scores its own
// record universe; the gatherer never re-scores or merges across domains.
type Gatherer struct {
	cfg      *contract.Config
	provider contract.RecordProvider
}

// NewGatherer builds a gatherer over the given provider from the validated
// config.
func NewGatherer(cfg *contract.Config, provider contract.RecordProvider) *Gatherer {
	return &Gatherer{cfg: cfg, provider: provider}
}

// Gather runs both engines concurrently and combines their ranked results.
// Each side gets its own top-k so callers can ask for, say, five similar
// SRs but ten related incidents. A single engine failing degrades to an
// empty result list plus a warning; both failing returns ErrNoEvidence so
// the caller knows there is nothing to narrate from.
func (g *Gatherer) Gather(ctx context.Context, q schema.Query, srTopK, incidentTopK int) (*schema.EvidenceBundle, error) {
	if q.IsEmpty() {
		return nil, contract.ErrInvalidQuery
	}
	if srTopK < 1 || incidentTopK < 1 {
		return nil, fmt.Errorf("%w: top-k must be at least 1 per engine (sr %d, incident %d)",
			contract.ErrInvalidQuery, srTopK, incidentTopK)
	}

	srCfg := *g.cfg
	srCfg.ResultLimit = srTopK
	srCfg.SRResultLimit = 0
	srEngine, err := NewSREngine(&srCfg)
	if err != nil {
		return nil, err
	}

	incCfg := *g.cfg
	incCfg.ResultLimit = incidentTopK
	incCfg.IncidentResultLimit = 0
	incidentEngine, err := NewIncidentEngine(&incCfg)
	if err != nil {
		return nil, err
	}

	var (
		srResults  []schema.SRMatch
		incResults []schema.IncidentMatch
		srErr      error
		incErr     error
	)

	// Engine failures degrade instead of cancelling the sibling, so errors
	// are captured per branch rather than returned to the group.
	var group errgroup.Group
	group.Go(func() error {
		records, err := g.provider.SRRecords(ctx)
		if err != nil {
			srErr = fmt.Errorf("%w: sr engine: %v", contract.ErrEngineUnavailable, err)
			return nil
		}
		srResults, srErr = srEngine.Search(ctx, q, records)
		return nil
	})
	group.Go(func() error {
		records, err := g.provider.IncidentRecords(ctx)
		if err != nil {
			incErr = fmt.Errorf("%w: incident engine: %v", contract.ErrEngineUnavailable, err)
			return nil
		}
		incResults, incErr = incidentEngine.Search(ctx, q, records)
		return nil
	})
	_ = group.Wait()

	if srErr != nil && incErr != nil {
		return nil, fmt.Errorf("%w (sr: %v; incident: %v)", contract.ErrNoEvidence, srErr, incErr)
	}

	bundle := &schema.EvidenceBundle{
		Query:           q,
		SRResults:       srResults,
		IncidentResults: incResults,
	}
	if srErr != nil {
		bundle.SRResults = []schema.SRMatch{}
		bundle.Warnings = append(bundle.Warnings, fmt.Sprintf("sr engine degraded: %v", srErr))
	}
	if incErr != nil {
		bundle.IncidentResults = []schema.IncidentMatch{}
		bundle.Warnings = append(bundle.Warnings, fmt.Sprintf("incident engine degraded: %v", incErr))
	}

	if len(bundle.SRResults) > 0 {
		bundle.TopSimilarity = bundle.SRResults[0].Score
	}
	if len(bundle.IncidentResults) > 0 {
		bundle.TopCorrelation = bundle.IncidentResults[0].Score
	}

	return bundle, nil
}
