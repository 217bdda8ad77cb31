package core

import (
	"sort"

	"github.com/joonpark/srnav/schema"
)

// RankSRMatches sorts SR matches by score in descending order, breaking ties
// by record ID ascending so that equal-scored runs are deterministic, and
// returns the top 'limit' matches. If limit is greater than the number of
// matches, all matches are returned in sorted order.
func RankSRMatches(matches []schema.SRMatch, limit int) []schema.SRMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].SR.ID < matches[j].SR.ID
	})
	if len(matches) > limit {
		return matches[:limit]
	}
	return matches
}

// RankIncidentMatches sorts incident matches by score in descending order,
// breaking ties by record ID ascending, and returns the top 'limit' matches.
func RankIncidentMatches(matches []schema.IncidentMatch, limit int) []schema.IncidentMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Incident.ID < matches[j].Incident.ID
	})
	if len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
