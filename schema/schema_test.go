package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryText(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"title and description", Query{Title: "결제 오류", Description: "간헐적 실패"}, "결제 오류 간헐적 실패"},
		{"title only", Query{Title: "결제 오류"}, "결제 오류"},
		{"description only", Query{Description: "간헐적 실패"}, "간헐적 실패"},
		{"empty", Query{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Text(), "Text should join title and description")
		})
	}
}

func TestQueryIsEmpty(t *testing.T) {
	assert.True(t, Query{}.IsEmpty(), "query with no text should be empty")
	assert.True(t, Query{System: "Billing", Priority: PriorityHigh}.IsEmpty(),
		"structured fields alone do not make a query searchable")
	assert.False(t, Query{Title: "x"}.IsEmpty(), "title counts as searchable text")
	assert.False(t, Query{Description: "x"}.IsEmpty(), "description counts as searchable text")
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	tests := []struct {
		name    string
		weights map[FactorKey]float64
		keys    []FactorKey
	}{
		{"sr engine", GetDefaultSRWeights(), SRFactorKeys},
		{"incident engine", GetDefaultIncidentWeights(), IncidentFactorKeys},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := 0.0
			for _, w := range tt.weights {
				assert.GreaterOrEqual(t, w, 0.0, "weights should be non-negative")
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 0.001, "default weights should sum to 1.0")
			assert.Len(t, tt.weights, len(tt.keys), "weight table should cover every factor key")
			for _, key := range tt.keys {
				_, ok := tt.weights[key]
				assert.True(t, ok, "weight table should include %s", key)
			}
		})
	}
}

func TestTemporalBandsBand(t *testing.T) {
	bands := GetDefaultTemporalBands()

	tests := []struct {
		name    string
		ageDays int
		want    TemporalBand
	}{
		{"same day", 0, BandRecent},
		{"inside recent", 10, BandRecent},
		{"recent boundary", 30, BandRecent},
		{"inside mid", 31, BandMid},
		{"mid boundary", 180, BandMid},
		{"inside long term", 181, BandLongTerm},
		{"long term boundary", 365, BandLongTerm},
		{"past", 366, BandPast},
		{"distant past", 4000, BandPast},
		{"future-dated counts as recent", -5, BandRecent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bands.Band(tt.ageDays), "Band(%d)", tt.ageDays)
		})
	}
}

func TestTemporalBandsWeightDecays(t *testing.T) {
	bands := GetDefaultTemporalBands()

	// Newer bands must never score below older ones.
	assert.GreaterOrEqual(t, bands.Weight(BandRecent), bands.Weight(BandMid), "recent >= mid")
	assert.GreaterOrEqual(t, bands.Weight(BandMid), bands.Weight(BandLongTerm), "mid >= long_term")
	assert.GreaterOrEqual(t, bands.Weight(BandLongTerm), bands.Weight(BandPast), "long_term >= past")

	// Unknown bands fall back to the past weight.
	assert.Equal(t, bands.PastWeight, bands.Weight(TemporalBand("unknown")), "unknown band should use past weight")
}
