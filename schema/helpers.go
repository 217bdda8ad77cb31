package schema

import (
	"fmt"
	"strings"
	"time"
)

// severityScores maps severity levels onto the normalized ordinal scale used
// by the incident engine's severity_weight factor.
var severityScores = map[Severity]float64{
	SeverityCritical: 1.0,
	SeverityHigh:     0.75,
	SeverityMedium:   0.5,
	SeverityLow:      0.25,
}

// priorityRanks maps priority levels onto the 4-level ordinal scale
// (Critical=3 down to Low=0) used for priority distance.
var priorityRanks = map[Priority]int{
	PriorityCritical: 3,
	PriorityHigh:     2,
	PriorityMedium:   1,
	PriorityLow:      0,
}

// Score returns the normalized ordinal weight of a severity level. Unknown or
// empty severities fall back to the provided default.
func (s Severity) Score(fallback Severity) float64 {
	if v, ok := severityScores[s.canonical()]; ok {
		return v
	}
	if v, ok := severityScores[fallback.canonical()]; ok {
		return v
	}
	return severityScores[SeverityMedium]
}

// IsValid reports whether the severity is one of the four known levels.
func (s Severity) IsValid() bool {
	_, ok := severityScores[s.canonical()]
	return ok
}

// ParseSeverity normalizes a severity string to its canonical level. The
// second return is false for anything outside the four known levels.
func ParseSeverity(raw string) (Severity, bool) {
	c := Severity(raw).canonical()
	return c, c != ""
}

func (s Severity) canonical() Severity {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return Severity("")
	}
}

// Rank returns the ordinal rank of a priority (Critical=3 .. Low=0) and
// whether the priority is a known level.
func (p Priority) Rank() (int, bool) {
	r, ok := priorityRanks[p.canonical()]
	return r, ok
}

func (p Priority) canonical() Priority {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "critical":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	default:
		return Priority("")
	}
}

// PrioritySimilarity returns 1 − normalized ordinal distance between two
// priorities on the 4-level scale. Either side missing yields a neutral 0.5
// rather than claiming a perfect or zero match.
func PrioritySimilarity(a, b Priority) float64 {
	ra, okA := a.Rank()
	rb, okB := b.Rank()
	if !okA || !okB {
		return 0.5
	}
	d := ra - rb
	if d < 0 {
		d = -d
	}
	return 1.0 - float64(d)/3.0
}

// Flatten converts an SR match into a flat mapping of scalar/string fields
// for the downstream risk-narrative consumer.
func (m SRMatch) Flatten() map[string]string {
	out := map[string]string{
		"id":           m.SR.ID,
		"title":        m.SR.Title,
		"system":       m.SR.System,
		"priority":     string(m.SR.Priority),
		"category":     m.SR.Category,
		"score":        fmt.Sprintf("%.4f", m.Score),
		"components":   strings.Join(m.SR.AffectedComponents, ","),
		"system_match": fmt.Sprintf("%t", m.MatchFactors.SystemMatch),
	}
	for k, v := range m.Factors {
		out["factor_"+string(k)] = fmt.Sprintf("%.4f", v)
	}
	return out
}

// Flatten converts an incident match into a flat mapping of scalar/string
// fields for the downstream risk-narrative consumer.
func (m IncidentMatch) Flatten() map[string]string {
	out := map[string]string{
		"id":                 m.Incident.ID,
		"title":              m.Incident.Title,
		"system":             m.Incident.System,
		"severity":           string(m.RiskFactors.Severity),
		"score":              fmt.Sprintf("%.4f", m.Score),
		"components":         strings.Join(m.Incident.AffectedComponents, ","),
		"temporal_relevance": string(m.TemporalRelevance),
		"affected_users":     fmt.Sprintf("%d", m.RiskFactors.AffectedUsers),
		"duration":           m.RiskFactors.Duration.String(),
		"business_impact":    m.RiskFactors.BusinessImpact,
		"root_cause":         m.RiskFactors.RootCause,
		"has_resolution":     fmt.Sprintf("%t", m.RiskFactors.HasResolution),
	}
	for k, v := range m.Factors {
		out["factor_"+string(k)] = fmt.Sprintf("%.4f", v)
	}
	return out
}

// AgeDays returns the whole days elapsed between occurred and now. A zero
// occurred time reports ok=false so callers can apply the past-band default.
func AgeDays(occurred, now time.Time) (int, bool) {
	if occurred.IsZero() {
		return 0, false
	}
	return int(now.Sub(occurred).Hours() / 24), true
}
