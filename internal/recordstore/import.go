package recordstore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joonpark/srnav/schema"
)

// rawSR mirrors the import file shape for service requests.
type rawSR struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	System                string   `json:"system"`
	Priority              string   `json:"priority"`
	Category              string   `json:"category"`
	TechnicalRequirements []string `json:"technical_requirements"`
	AffectedComponents    []string `json:"affected_components"`
	CreatedDate           string   `json:"created_date"`
}

// rawIncident mirrors the import file shape for incidents. Older exports use
// reported_date instead of occurred_date; both are accepted.
type rawIncident struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	System             string   `json:"system"`
	AffectedComponents []string `json:"affected_components"`
	Severity           string   `json:"severity"`
	RootCause          string   `json:"root_cause"`
	OccurredDate       string   `json:"occurred_date"`
	ReportedDate       string   `json:"reported_date"`
	DurationMinutes    int      `json:"duration_minutes"`
	AffectedUsers      int      `json:"affected_users"`
	BusinessImpact     string   `json:"business_impact"`
	Resolution         string   `json:"resolution"`
}

// recordsFile is the combined import file shape.
type recordsFile struct {
	ServiceRequests []rawSR       `json:"service_requests"`
	Incidents       []rawIncident `json:"incidents"`
}

// parseImportDate accepts full timestamps and plain dates. An empty or
// unparseable value comes back as the zero time, which the engines treat as
// unknown.
func parseImportDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// LoadRecordsFile reads a combined JSON export of SRs and incidents. At least
// one of the two sections must be present.
func LoadRecordsFile(path string) ([]schema.SRRecord, []schema.IncidentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var file recordsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse records file %s: %w", path, err)
	}
	if len(file.ServiceRequests) == 0 && len(file.Incidents) == 0 {
		return nil, nil, fmt.Errorf("records file %s contains no service_requests or incidents", path)
	}

	srs := make([]schema.SRRecord, 0, len(file.ServiceRequests))
	for _, raw := range file.ServiceRequests {
		srs = append(srs, schema.SRRecord{
			ID:                    raw.ID,
			Title:                 raw.Title,
			Description:           raw.Description,
			System:                raw.System,
			Priority:              schema.Priority(raw.Priority),
			Category:              raw.Category,
			TechnicalRequirements: raw.TechnicalRequirements,
			AffectedComponents:    raw.AffectedComponents,
			CreatedDate:           parseImportDate(raw.CreatedDate),
		})
	}

	incidents := make([]schema.IncidentRecord, 0, len(file.Incidents))
	for _, raw := range file.Incidents {
		occurred := raw.OccurredDate
		if occurred == "" {
			occurred = raw.ReportedDate
		}
		incidents = append(incidents, schema.IncidentRecord{
			ID:                 raw.ID,
			Title:              raw.Title,
			Description:        raw.Description,
			System:             raw.System,
			AffectedComponents: raw.AffectedComponents,
			Severity:           schema.Severity(raw.Severity),
			RootCause:          raw.RootCause,
			OccurredDate:       parseImportDate(occurred),
			Duration:           time.Duration(raw.DurationMinutes) * time.Minute,
			AffectedUsers:      raw.AffectedUsers,
			BusinessImpact:     raw.BusinessImpact,
			Resolution:         raw.Resolution,
		})
	}

	return srs, incidents, nil
}
