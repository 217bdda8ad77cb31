package core

import (
	"testing"

	"github.com/joonpark/srnav/schema"
	"github.com/stretchr/testify/assert"
)

func TestExtractSRQueryFields(t *testing.T) {
	records := []schema.SRRecord{
		{ID: "SR-1", System: "Billing", Category: "기능개선", AffectedComponents: []string{"payment-gateway", "billing-api"}},
		{ID: "SR-2", System: "Auth", Category: "신규개발", AffectedComponents: []string{"sso"}},
	}

	t.Run("fills fields mentioned in text", func(t *testing.T) {
		q := schema.Query{Title: "Billing 시스템 payment-gateway 타임아웃"}
		got := ExtractSRQueryFields(q, records)
		assert.Equal(t, "Billing", got.System, "system mentioned in text should be detected")
		assert.Equal(t, []string{"payment-gateway"}, got.Components, "components mentioned in text should be detected")
		assert.Empty(t, got.Category, "unmentioned category stays empty")
	})

	t.Run("never overwrites caller fields", func(t *testing.T) {
		q := schema.Query{Title: "Billing 장애", System: "Auth", Components: []string{"sso"}}
		got := ExtractSRQueryFields(q, records)
		assert.Equal(t, "Auth", got.System, "explicit system should win over text matches")
		assert.Equal(t, []string{"sso"}, got.Components, "explicit components should win")
	})

	t.Run("detection is case insensitive", func(t *testing.T) {
		q := schema.Query{Title: "billing 처리 지연"}
		got := ExtractSRQueryFields(q, records)
		assert.Equal(t, "Billing", got.System, "matching should ignore case but keep the collection spelling")
	})

	t.Run("no match leaves fields empty", func(t *testing.T) {
		q := schema.Query{Title: "완전히 무관한 요청"}
		got := ExtractSRQueryFields(q, records)
		assert.Empty(t, got.System)
		assert.Empty(t, got.Components)
	})
}

func TestExtractIncidentQueryFields(t *testing.T) {
	records := []schema.IncidentRecord{
		{ID: "INC-1", System: "Billing", AffectedComponents: []string{"payment-gateway"}},
	}

	q := schema.Query{Description: "payment-gateway 응답 지연"}
	got := ExtractIncidentQueryFields(q, records)
	assert.Equal(t, []string{"payment-gateway"}, got.Components, "incident vocabulary should drive extraction")
	assert.Empty(t, got.System, "system not mentioned in text stays empty")
}
