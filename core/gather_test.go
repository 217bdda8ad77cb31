package core

import (
	"context"
	"errors"
	"testing"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves fixed record slices and optional per-domain failures.
type fakeProvider struct {
	srs       []schema.SRRecord
	incidents []schema.IncidentRecord
	srErr     error
	incErr    error
}

func (p *fakeProvider) SRRecords(_ context.Context) ([]schema.SRRecord, error) {
	if p.srErr != nil {
		return nil, p.srErr
	}
	return p.srs, nil
}

func (p *fakeProvider) IncidentRecords(_ context.Context) ([]schema.IncidentRecord, error) {
	if p.incErr != nil {
		return nil, p.incErr
	}
	return p.incidents, nil
}

func gatherFixture() *fakeProvider {
	return &fakeProvider{
		srs: []schema.SRRecord{
			{ID: "SR-1", Title: "결제 게이트웨이 타임아웃 개선", System: "Billing"},
			{ID: "SR-2", Title: "사내 위키 개편", System: "Intranet"},
		},
		incidents: []schema.IncidentRecord{
			{
				ID: "INC-1", Title: "결제 게이트웨이 장애", System: "Billing",
				Severity: schema.SeverityCritical, OccurredDate: incidentRefTime.AddDate(0, 0, -10),
			},
		},
	}
}

func TestGatherCombinesBothEngines(t *testing.T) {
	gatherer := NewGatherer(incidentTestConfig(), gatherFixture())
	query := schema.Query{Title: "결제 게이트웨이 타임아웃"}

	bundle, err := gatherer.Gather(context.Background(), query, 5, 5)
	require.NoError(t, err)
	require.NotNil(t, bundle)

	assert.Equal(t, query.Title, bundle.Query.Title, "bundle should echo the query")
	require.NotEmpty(t, bundle.SRResults, "sr side should produce matches")
	require.NotEmpty(t, bundle.IncidentResults, "incident side should produce matches")
	assert.Empty(t, bundle.Warnings, "healthy engines produce no warnings")

	assert.InDelta(t, bundle.SRResults[0].Score, bundle.TopSimilarity, 1e-12, "summary mirrors the top SR score")
	assert.InDelta(t, bundle.IncidentResults[0].Score, bundle.TopCorrelation, 1e-12, "summary mirrors the top incident score")

	// Results keep their per-engine ranking untouched.
	assert.Equal(t, "SR-1", bundle.SRResults[0].SR.ID)
	assert.Equal(t, "INC-1", bundle.IncidentResults[0].Incident.ID)
}

func TestGatherRejectsEmptyQuery(t *testing.T) {
	gatherer := NewGatherer(incidentTestConfig(), gatherFixture())
	_, err := gatherer.Gather(context.Background(), schema.Query{}, 5, 5)
	assert.ErrorIs(t, err, contract.ErrInvalidQuery)
}

func TestGatherRejectsNonPositiveTopK(t *testing.T) {
	gatherer := NewGatherer(incidentTestConfig(), gatherFixture())
	query := schema.Query{Title: "결제"}

	_, err := gatherer.Gather(context.Background(), query, 0, 5)
	assert.ErrorIs(t, err, contract.ErrInvalidQuery, "a zero SR top-k is not a usable request")

	_, err = gatherer.Gather(context.Background(), query, 5, -1)
	assert.ErrorIs(t, err, contract.ErrInvalidQuery, "a negative incident top-k is not a usable request")
}

func TestGatherAppliesPerEngineTopK(t *testing.T) {
	provider := gatherFixture()
	provider.srs = []schema.SRRecord{
		{ID: "SR-1", Title: "결제 오류 a"},
		{ID: "SR-2", Title: "결제 오류 b"},
		{ID: "SR-3", Title: "결제 오류 c"},
	}
	provider.incidents = []schema.IncidentRecord{
		{ID: "INC-1", Title: "결제 오류 장애 a", OccurredDate: incidentRefTime.AddDate(0, 0, -10)},
		{ID: "INC-2", Title: "결제 오류 장애 b", OccurredDate: incidentRefTime.AddDate(0, 0, -10)},
		{ID: "INC-3", Title: "결제 오류 장애 c", OccurredDate: incidentRefTime.AddDate(0, 0, -10)},
	}
	gatherer := NewGatherer(incidentTestConfig(), provider)

	bundle, err := gatherer.Gather(context.Background(), schema.Query{Title: "결제 오류"}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, bundle.SRResults, 1, "the SR side honors its own top-k")
	assert.Len(t, bundle.IncidentResults, 2, "the incident side honors its own top-k")
}

func TestGatherDegradesWhenOneEngineFails(t *testing.T) {
	provider := gatherFixture()
	provider.incErr = errors.New("incident table unreachable")
	gatherer := NewGatherer(incidentTestConfig(), provider)

	bundle, err := gatherer.Gather(context.Background(), schema.Query{Title: "결제 게이트웨이"}, 5, 5)
	require.NoError(t, err, "one engine failing should degrade, not fail")

	assert.NotEmpty(t, bundle.SRResults, "healthy engine still returns results")
	assert.NotNil(t, bundle.IncidentResults, "degraded side is an empty slice, not nil")
	assert.Empty(t, bundle.IncidentResults, "degraded side carries no results")
	require.Len(t, bundle.Warnings, 1, "degradation must be surfaced as a warning")
	assert.Contains(t, bundle.Warnings[0], "incident engine degraded")
	assert.Zero(t, bundle.TopCorrelation, "no incident results means no correlation summary")
}

func TestGatherFailsWhenBothEnginesFail(t *testing.T) {
	provider := gatherFixture()
	provider.srErr = errors.New("sr table unreachable")
	provider.incErr = errors.New("incident table unreachable")
	gatherer := NewGatherer(incidentTestConfig(), provider)

	_, err := gatherer.Gather(context.Background(), schema.Query{Title: "결제"}, 5, 5)
	assert.ErrorIs(t, err, contract.ErrNoEvidence, "both engines failing leaves nothing to narrate")
}

func TestGatherNeverMergesScoresAcrossDomains(t *testing.T) {
	cfg := incidentTestConfig()
	gatherer := NewGatherer(cfg, gatherFixture())
	query := schema.Query{Title: "결제 게이트웨이 타임아웃"}

	bundle, err := gatherer.Gather(context.Background(), query, cfg.ResultLimit, cfg.ResultLimit)
	require.NoError(t, err)

	// Re-running the engines standalone must reproduce the bundle exactly.
	srOnly, err := mustSREngine(t, cfg).Search(context.Background(), query, gatherFixture().srs)
	require.NoError(t, err)
	incOnly, err := mustIncidentEngine(t, cfg).Search(context.Background(), query, gatherFixture().incidents)
	require.NoError(t, err)

	assert.Equal(t, srOnly, bundle.SRResults, "gathering must not rescore SR results")
	assert.Equal(t, incOnly, bundle.IncidentResults, "gathering must not rescore incident results")
}
