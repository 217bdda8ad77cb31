package core

import (
	"testing"

	"github.com/joonpark/srnav/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func srMatch(id string, score float64) schema.SRMatch {
	return schema.SRMatch{SR: schema.SRRecord{ID: id}, Score: score}
}

func incMatch(id string, score float64) schema.IncidentMatch {
	return schema.IncidentMatch{Incident: schema.IncidentRecord{ID: id}, Score: score}
}

func TestRankSRMatches(t *testing.T) {
	t.Run("descending by score", func(t *testing.T) {
		matches := []schema.SRMatch{srMatch("a", 0.2), srMatch("b", 0.9), srMatch("c", 0.5)}
		ranked := RankSRMatches(matches, 10)
		require.Len(t, ranked, 3)
		assert.Equal(t, "b", ranked[0].SR.ID)
		assert.Equal(t, "c", ranked[1].SR.ID)
		assert.Equal(t, "a", ranked[2].SR.ID)
	})

	t.Run("ties break by id ascending", func(t *testing.T) {
		matches := []schema.SRMatch{srMatch("SR-2", 0.7), srMatch("SR-1", 0.7), srMatch("SR-3", 0.7)}
		ranked := RankSRMatches(matches, 10)
		require.Len(t, ranked, 3)
		assert.Equal(t, "SR-1", ranked[0].SR.ID)
		assert.Equal(t, "SR-2", ranked[1].SR.ID)
		assert.Equal(t, "SR-3", ranked[2].SR.ID)
	})

	t.Run("truncates to limit", func(t *testing.T) {
		matches := []schema.SRMatch{srMatch("a", 0.1), srMatch("b", 0.2), srMatch("c", 0.3)}
		ranked := RankSRMatches(matches, 2)
		require.Len(t, ranked, 2)
		assert.Equal(t, "c", ranked[0].SR.ID)
		assert.Equal(t, "b", ranked[1].SR.ID)
	})

	t.Run("limit beyond length keeps everything", func(t *testing.T) {
		matches := []schema.SRMatch{srMatch("a", 0.1)}
		assert.Len(t, RankSRMatches(matches, 100), 1)
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		build := func() []schema.SRMatch {
			return []schema.SRMatch{
				srMatch("SR-9", 0.5), srMatch("SR-1", 0.5), srMatch("SR-5", 0.5), srMatch("SR-3", 0.8),
			}
		}
		first := RankSRMatches(build(), 10)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, RankSRMatches(build(), 10), "ranking must be stable run to run")
		}
	})
}

func TestRankIncidentMatches(t *testing.T) {
	matches := []schema.IncidentMatch{
		incMatch("INC-2", 0.4), incMatch("INC-1", 0.4), incMatch("INC-3", 0.9),
	}
	ranked := RankIncidentMatches(matches, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "INC-3", ranked[0].Incident.ID, "highest score first")
	assert.Equal(t, "INC-1", ranked[1].Incident.ID, "equal scores break by id ascending")
}
