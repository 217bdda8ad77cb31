package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeverityScore(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		want     float64
	}{
		{"Critical", SeverityCritical, 1.0},
		{"High", SeverityHigh, 0.75},
		{"Medium", SeverityMedium, 0.5},
		{"Low", SeverityLow, 0.25},
		{"lowercase critical", Severity("critical"), 1.0},
		{"padded high", Severity("  High "), 0.75},
		{"missing defaults to Medium", Severity(""), 0.5},
		{"unknown defaults to Medium", Severity("urgent"), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.severity.Score(SeverityMedium)
			assert.InDelta(t, tt.want, got, 1e-9, "Score(%q) should match expected weight", tt.severity)
		})
	}
}

func TestSeverityIsValid(t *testing.T) {
	assert.True(t, SeverityCritical.IsValid(), "Critical should be a known severity")
	assert.True(t, Severity("low").IsValid(), "case should not matter for known severities")
	assert.False(t, Severity("").IsValid(), "empty severity should be invalid")
	assert.False(t, Severity("P1").IsValid(), "unknown severity should be invalid")
}

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		wantRank int
		wantOK   bool
	}{
		{"Critical", PriorityCritical, 3, true},
		{"High", PriorityHigh, 2, true},
		{"Medium", PriorityMedium, 1, true},
		{"Low", PriorityLow, 0, true},
		{"lowercase medium", Priority("medium"), 1, true},
		{"empty", Priority(""), 0, false},
		{"unknown", Priority("P0"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, ok := tt.priority.Rank()
			assert.Equal(t, tt.wantOK, ok, "Rank(%q) validity", tt.priority)
			if ok {
				assert.Equal(t, tt.wantRank, rank, "Rank(%q) value", tt.priority)
			}
		})
	}
}

func TestPrioritySimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b Priority
		want float64
	}{
		{"identical", PriorityHigh, PriorityHigh, 1.0},
		{"one step apart", PriorityCritical, PriorityHigh, 1.0 - 1.0/3.0},
		{"two steps apart", PriorityCritical, PriorityMedium, 1.0 - 2.0/3.0},
		{"maximal distance", PriorityCritical, PriorityLow, 0.0},
		{"symmetric", PriorityLow, PriorityCritical, 0.0},
		{"query side missing is neutral", Priority(""), PriorityHigh, 0.5},
		{"record side missing is neutral", PriorityHigh, Priority(""), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrioritySimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9, "PrioritySimilarity(%q, %q)", tt.a, tt.b)
		})
	}
}

func TestAgeDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	days, ok := AgeDays(now.AddDate(0, 0, -45), now)
	assert.True(t, ok, "known occurred date should report ok")
	assert.Equal(t, 45, days, "AgeDays should count whole elapsed days")

	days, ok = AgeDays(now, now)
	assert.True(t, ok, "same-day occurrence should report ok")
	assert.Equal(t, 0, days, "same-day occurrence is zero days old")

	_, ok = AgeDays(time.Time{}, now)
	assert.False(t, ok, "zero occurred date should report not ok")
}

func TestSRMatchFlatten(t *testing.T) {
	match := SRMatch{
		SR: SRRecord{
			ID:                 "SR-2024-0101",
			Title:              "결제 모듈 성능 개선",
			System:             "Billing",
			Priority:           PriorityHigh,
			Category:           "기능개선",
			AffectedComponents: []string{"payment-gateway", "billing-api"},
		},
		Score: 0.8725,
		Factors: map[FactorKey]float64{
			FactorText:   0.91,
			FactorSystem: 1.0,
		},
		MatchFactors: MatchFactors{TextSimilarity: 0.91, SystemMatch: true, ComponentOverlapping: 2},
	}

	flat := match.Flatten()
	assert.Equal(t, "SR-2024-0101", flat["id"], "id should be carried through")
	assert.Equal(t, "0.8725", flat["score"], "score should be formatted with 4 decimals")
	assert.Equal(t, "payment-gateway,billing-api", flat["components"], "components should be comma-joined")
	assert.Equal(t, "true", flat["system_match"], "system match flag should be stringified")
	assert.Equal(t, "0.9100", flat["factor_text_similarity"], "factor entries should be prefixed")
	assert.Equal(t, "1.0000", flat["factor_system_match"], "every factor should flatten")
}

func TestIncidentMatchFlatten(t *testing.T) {
	match := IncidentMatch{
		Incident: IncidentRecord{
			ID:                 "INC-2024-0042",
			Title:              "결제 게이트웨이 장애",
			System:             "Billing",
			AffectedComponents: []string{"payment-gateway"},
		},
		Score:             0.9150,
		Factors:           map[FactorKey]float64{FactorSeverity: 1.0},
		TemporalRelevance: BandRecent,
		RiskFactors: RiskFactors{
			Severity:       SeverityCritical,
			AffectedUsers:  15000,
			Duration:       95 * time.Minute,
			BusinessImpact: "결제 실패로 인한 매출 손실",
			RootCause:      "커넥션 풀 고갈",
			HasResolution:  true,
		},
	}

	flat := match.Flatten()
	assert.Equal(t, "INC-2024-0042", flat["id"], "id should be carried through")
	assert.Equal(t, "recent", flat["temporal_relevance"], "temporal band should flatten to its name")
	assert.Equal(t, "Critical", flat["severity"], "severity should be carried through")
	assert.Equal(t, "15000", flat["affected_users"], "affected users should be stringified")
	assert.Equal(t, "1h35m0s", flat["duration"], "duration should use Go duration format")
	assert.Equal(t, "true", flat["has_resolution"], "resolution flag should be stringified")
	assert.Equal(t, "1.0000", flat["factor_severity_weight"], "factor entries should be prefixed")
}
