// Package parquet provides data structures and functions for exporting search
// results and stored records to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
	"github.com/parquet-go/parquet-go"
)

// EvidenceRow represents one ranked match in columnar form. Both engines
// flatten into the same row shape so a single file can hold an evidence
// bundle; columns that only apply to one record type are optional.
type EvidenceRow struct {
	// RecordType is "sr" or "incident"
	RecordType string `parquet:"record_type,snappy"`

	// Rank is the 1-based position within the record type's ranked list
	Rank int32 `parquet:"rank,snappy"`

	ID     string  `parquet:"id,snappy"`
	Title  string  `parquet:"title,snappy"`
	System string  `parquet:"system,snappy"`
	Score  float64 `parquet:"score,snappy"`
	Label  string  `parquet:"label,snappy"`

	// Components holds the affected components joined with "|"
	Components string `parquet:"components,snappy"`

	// Factor scores shared by both engines
	TextSimilarity     float64  `parquet:"text_similarity,snappy"`
	SystemMatch        float64  `parquet:"system_match,snappy"`
	ComponentOverlap   float64  `parquet:"component_overlap,snappy"`
	CategoryMatch      *float64 `parquet:"category_match,optional,snappy"`
	PrioritySimilarity *float64 `parquet:"priority_similarity,optional,snappy"`
	SeverityWeight     *float64 `parquet:"severity_weight,optional,snappy"`
	TimeWeight         *float64 `parquet:"time_weight,optional,snappy"`

	// SR-only columns
	Priority *string `parquet:"priority,optional,snappy"`
	Category *string `parquet:"category,optional,snappy"`

	// Incident-only columns
	Severity          *string    `parquet:"severity,optional,snappy"`
	TemporalRelevance *string    `parquet:"temporal_relevance,optional,snappy"`
	OccurredDate      *time.Time `parquet:"occurred_date,optional,snappy"`
	DurationMinutes   *int64     `parquet:"duration_minutes,optional,snappy"`
	AffectedUsers     *int32     `parquet:"affected_users,optional,snappy"`
	HasResolution     *bool      `parquet:"has_resolution,optional,snappy"`
}

// SRRecordRow maps a stored service request to the srnav_sr_records export table.
type SRRecordRow struct {
	ID                    string     `parquet:"id,snappy"`
	Title                 string     `parquet:"title,snappy"`
	Description           string     `parquet:"description,snappy"`
	System                string     `parquet:"system,snappy"`
	Priority              string     `parquet:"priority,snappy"`
	Category              string     `parquet:"category,snappy"`
	TechnicalRequirements string     `parquet:"technical_requirements,snappy"`
	AffectedComponents    string     `parquet:"affected_components,snappy"`
	CreatedDate           *time.Time `parquet:"created_date,optional,snappy"`
}

// IncidentRecordRow maps a stored incident to the srnav_incident_records export table.
type IncidentRecordRow struct {
	ID                 string     `parquet:"id,snappy"`
	Title              string     `parquet:"title,snappy"`
	Description        string     `parquet:"description,snappy"`
	System             string     `parquet:"system,snappy"`
	AffectedComponents string     `parquet:"affected_components,snappy"`
	Severity           string     `parquet:"severity,snappy"`
	RootCause          string     `parquet:"root_cause,snappy"`
	OccurredDate       *time.Time `parquet:"occurred_date,optional,snappy"`
	DurationMinutes    int64      `parquet:"duration_minutes,snappy"`
	AffectedUsers      int32      `parquet:"affected_users,snappy"`
	BusinessImpact     string     `parquet:"business_impact,snappy"`
	Resolution         string     `parquet:"resolution,snappy"`
}

func floatPtr(v float64) *float64 { return &v }

func factorPtr(factors map[schema.FactorKey]float64, key schema.FactorKey) *float64 {
	if v, ok := factors[key]; ok {
		return floatPtr(v)
	}
	return nil
}

func datePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

// BuildSRMatchRows flattens ranked SR matches into evidence rows.
func BuildSRMatchRows(matches []schema.SRMatch) []EvidenceRow {
	rows := make([]EvidenceRow, len(matches))
	for i, m := range matches {
		priority := string(m.SR.Priority)
		category := m.SR.Category
		rows[i] = EvidenceRow{
			RecordType:         "sr",
			Rank:               int32(i + 1),
			ID:                 m.SR.ID,
			Title:              m.SR.Title,
			System:             m.SR.System,
			Score:              m.Score,
			Label:              contract.GetPlainLabel(m.Score),
			Components:         strings.Join(m.SR.AffectedComponents, "|"),
			TextSimilarity:     m.Factors[schema.FactorText],
			SystemMatch:        m.Factors[schema.FactorSystem],
			ComponentOverlap:   m.Factors[schema.FactorComponents],
			CategoryMatch:      factorPtr(m.Factors, schema.FactorCategory),
			PrioritySimilarity: factorPtr(m.Factors, schema.FactorPriority),
			Priority:           &priority,
			Category:           &category,
		}
	}
	return rows
}

// BuildIncidentMatchRows flattens ranked incident matches into evidence rows.
func BuildIncidentMatchRows(matches []schema.IncidentMatch) []EvidenceRow {
	rows := make([]EvidenceRow, len(matches))
	for i, m := range matches {
		severity := string(m.RiskFactors.Severity)
		band := string(m.TemporalRelevance)
		durationMinutes := int64(m.RiskFactors.Duration / time.Minute)
		affectedUsers := int32(m.RiskFactors.AffectedUsers)
		hasResolution := m.RiskFactors.HasResolution
		rows[i] = EvidenceRow{
			RecordType:        "incident",
			Rank:              int32(i + 1),
			ID:                m.Incident.ID,
			Title:             m.Incident.Title,
			System:            m.Incident.System,
			Score:             m.Score,
			Label:             contract.GetPlainLabel(m.Score),
			Components:        strings.Join(m.Incident.AffectedComponents, "|"),
			TextSimilarity:    m.Factors[schema.FactorText],
			SystemMatch:       m.Factors[schema.FactorSystem],
			ComponentOverlap:  m.Factors[schema.FactorComponents],
			SeverityWeight:    factorPtr(m.Factors, schema.FactorSeverity),
			TimeWeight:        factorPtr(m.Factors, schema.FactorTime),
			Severity:          &severity,
			TemporalRelevance: &band,
			OccurredDate:      datePtr(m.Incident.OccurredDate),
			DurationMinutes:   &durationMinutes,
			AffectedUsers:     &affectedUsers,
			HasResolution:     &hasResolution,
		}
	}
	return rows
}

// BuildBundleRows flattens an evidence bundle into a single row set with the
// SR rows first, matching the bundle's display order.
func BuildBundleRows(bundle *schema.EvidenceBundle) []EvidenceRow {
	rows := BuildSRMatchRows(bundle.SRResults)
	return append(rows, BuildIncidentMatchRows(bundle.IncidentResults)...)
}

// WriteEvidenceParquet writes evidence rows to a Parquet file.
func WriteEvidenceParquet(data []EvidenceRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSRRecordsParquet writes stored SR records to a Parquet file.
func WriteSRRecordsParquet(records []schema.SRRecord, outputPath string) error {
	rows := make([]SRRecordRow, len(records))
	for i, r := range records {
		rows[i] = SRRecordRow{
			ID:                    r.ID,
			Title:                 r.Title,
			Description:           r.Description,
			System:                r.System,
			Priority:              string(r.Priority),
			Category:              r.Category,
			TechnicalRequirements: strings.Join(r.TechnicalRequirements, "|"),
			AffectedComponents:    strings.Join(r.AffectedComponents, "|"),
			CreatedDate:           datePtr(r.CreatedDate),
		}
	}
	return writeParquet(rows, outputPath)
}

// WriteIncidentRecordsParquet writes stored incidents to a Parquet file.
func WriteIncidentRecordsParquet(records []schema.IncidentRecord, outputPath string) error {
	rows := make([]IncidentRecordRow, len(records))
	for i, r := range records {
		rows[i] = IncidentRecordRow{
			ID:                 r.ID,
			Title:              r.Title,
			Description:        r.Description,
			System:             r.System,
			AffectedComponents: strings.Join(r.AffectedComponents, "|"),
			Severity:           string(r.Severity),
			RootCause:          r.RootCause,
			OccurredDate:       datePtr(r.OccurredDate),
			DurationMinutes:    int64(r.Duration / time.Minute),
			AffectedUsers:      int32(r.AffectedUsers),
			BusinessImpact:     r.BusinessImpact,
			Resolution:         r.Resolution,
		}
	}
	return writeParquet(rows, outputPath)
}

// writeParquet creates the output file and writes rows with a writer whose
// schema is inferred from the row struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
