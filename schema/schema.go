// Package schema has configs, models and shared constants for all parts of srnav.
package schema

import "time"

// SRRecord represents a historical Service Request (change/development
// request). Records are immutable once ingested; the engines only read them.
type SRRecord struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	System                string    `json:"system"`                 // Owning system, categorical
	Priority              Priority  `json:"priority"`               // Critical > High > Medium > Low
	Category              string    `json:"category"`               // Categorical, e.g. "신규개발", "기능개선"
	TechnicalRequirements []string  `json:"technical_requirements"` // Free-text requirement lines
	AffectedComponents    []string  `json:"affected_components"`
	CreatedDate           time.Time `json:"created_date"`
}

// IncidentRecord represents a recorded past system failure or outage report.
// Immutable once ingested.
type IncidentRecord struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	System             string        `json:"system"`
	AffectedComponents []string      `json:"affected_components"`
	Severity           Severity      `json:"severity"` // Missing severity is treated as Medium when scoring
	RootCause          string        `json:"root_cause"`
	OccurredDate       time.Time     `json:"occurred_date"` // Zero value means unknown (scored as past)
	Duration           time.Duration `json:"duration"`
	AffectedUsers      int           `json:"affected_users"`
	BusinessImpact     string        `json:"business_impact"`
	Resolution         string        `json:"resolution"` // Empty when the incident was never resolved
}

// Query describes the proposed development task being assessed. It is
// ephemeral: built per request, never persisted.
//
// System, Components, Category and Priority are optional pre-extracted hints.
// When absent, the engines infer them from Title+Description by keyword
// matching against the vocabulary of the candidate collection.
type Query struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	System      string   `json:"system,omitempty"`
	Components  []string `json:"components,omitempty"`
	Category    string   `json:"category,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
}

// Text returns the searchable text of the query.
func (q Query) Text() string {
	if q.Title == "" {
		return q.Description
	}
	if q.Description == "" {
		return q.Title
	}
	return q.Title + " " + q.Description
}

// IsEmpty reports whether the query contains no searchable text.
func (q Query) IsEmpty() bool {
	return q.Title == "" && q.Description == ""
}

// SRMatch wraps an SR candidate with its total score and per-factor breakdown.
// Score is a convex combination of the factor scores, so it stays in [0,1].
type SRMatch struct {
	SR      SRRecord              `json:"sr"`
	Score   float64               `json:"score"`
	Factors map[FactorKey]float64 `json:"factors"`

	// MatchFactors summarizes the match for downstream display.
	MatchFactors MatchFactors `json:"match_factors"`
}

// MatchFactors holds the headline match signals for an SR result.
type MatchFactors struct {
	TextSimilarity       float64 `json:"text_similarity"`
	SystemMatch          bool    `json:"system_match"`
	ComponentOverlapping int     `json:"component_overlap"` // count of shared components
}

// IncidentMatch wraps an Incident candidate with its total score, factor
// breakdown and derived risk annotations. The annotations are informational
// only; they never feed back into the score.
type IncidentMatch struct {
	Incident IncidentRecord        `json:"incident"`
	Score    float64               `json:"score"`
	Factors  map[FactorKey]float64 `json:"factors"`

	TemporalRelevance TemporalBand `json:"temporal_relevance"`
	RiskFactors       RiskFactors  `json:"risk_factors"`
}

// RiskFactors summarizes an incident's blast radius for the risk narrative.
type RiskFactors struct {
	Severity       Severity      `json:"severity"`
	AffectedUsers  int           `json:"affected_users"`
	Duration       time.Duration `json:"duration"`
	BusinessImpact string        `json:"business_impact"`
	RootCause      string        `json:"root_cause"`
	HasResolution  bool          `json:"has_resolution"`
}

// EvidenceBundle combines both ranked result lists into the package handed to
// the external risk-narrative generator. Warnings carry degraded-engine
// notices; an empty slice on one side plus a warning means that engine's
// provider failed.
type EvidenceBundle struct {
	Query           Query           `json:"query"`
	SRResults       []SRMatch       `json:"sr_results"`
	IncidentResults []IncidentMatch `json:"incident_results"`
	Warnings        []string        `json:"warnings,omitempty"`

	// Summary figures mirrored from the top of each list for quick display.
	TopSimilarity  float64 `json:"top_similarity"`
	TopCorrelation float64 `json:"top_correlation"`
}
