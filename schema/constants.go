package schema

// Custom string types for type safety.
type (
	// FactorKey represents keys used in scoring breakdowns.
	FactorKey string

	// Severity represents an incident severity level.
	Severity string

	// Priority represents an SR priority level.
	Priority string

	// TemporalBand represents a named time-decay bucket.
	TemporalBand string

	// EngineKind identifies which scoring engine produced a result.
	EngineKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for record storage.
	DatabaseBackend string
)

// Factor keys used in the scoring logic.
const (
	FactorText       FactorKey = "text_similarity"
	FactorSystem     FactorKey = "system_match"
	FactorComponents FactorKey = "component_overlap"
	FactorCategory   FactorKey = "category_match"
	FactorPriority   FactorKey = "priority_similarity"

	FactorSeverity FactorKey = "severity_weight" // incident engine only
	FactorTime     FactorKey = "time_weight"     // incident engine only
)

// Ordinal severity and priority levels, highest first.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"

	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Temporal bands for incident time decay, newest first.
const (
	BandRecent   TemporalBand = "recent"
	BandMid      TemporalBand = "mid"
	BandLongTerm TemporalBand = "long_term"
	BandPast     TemporalBand = "past"
)

// Engine kinds.
const (
	SREngineKind       EngineKind = "sr"
	IncidentEngineKind EngineKind = "incident"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All record store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid record store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultSRWeights returns the default weight table for the SR similarity
// engine. The weights sum to 1.0 so that the total score stays in [0,1].
func GetDefaultSRWeights() map[FactorKey]float64 {
	return map[FactorKey]float64{
		FactorText:       0.40,
		FactorSystem:     0.15,
		FactorComponents: 0.25,
		FactorCategory:   0.10,
		FactorPriority:   0.10,
	}
}

// GetDefaultIncidentWeights returns the default weight table for the incident
// correlation engine.
func GetDefaultIncidentWeights() map[FactorKey]float64 {
	return map[FactorKey]float64{
		FactorSystem:     0.30,
		FactorComponents: 0.30,
		FactorText:       0.20,
		FactorSeverity:   0.10,
		FactorTime:       0.10,
	}
}

// SRFactorKeys lists the SR engine's factors in display order.
var SRFactorKeys = []FactorKey{FactorText, FactorSystem, FactorComponents, FactorCategory, FactorPriority}

// IncidentFactorKeys lists the incident engine's factors in display order.
var IncidentFactorKeys = []FactorKey{FactorSystem, FactorComponents, FactorText, FactorSeverity, FactorTime}

// TemporalBands holds the day boundaries and decay weights for incident time
// scoring. A band covers ages up to and including its MaxAgeDays; anything
// older than LongTerm falls into the past band with PastWeight.
type TemporalBands struct {
	RecentDays   int `json:"recent_days" mapstructure:"recent_days"`
	MidDays      int `json:"mid_days" mapstructure:"mid_days"`
	LongTermDays int `json:"long_term_days" mapstructure:"long_term_days"`

	RecentWeight   float64 `json:"recent_weight" mapstructure:"recent_weight"`
	MidWeight      float64 `json:"mid_weight" mapstructure:"mid_weight"`
	LongTermWeight float64 `json:"long_term_weight" mapstructure:"long_term_weight"`
	PastWeight     float64 `json:"past_weight" mapstructure:"past_weight"`
}

// GetDefaultTemporalBands returns the default decay schedule: full weight for
// the first month, then stepped decay out to one year.
func GetDefaultTemporalBands() TemporalBands {
	return TemporalBands{
		RecentDays:     30,
		MidDays:        180,
		LongTermDays:   365,
		RecentWeight:   1.0,
		MidWeight:      0.6,
		LongTermWeight: 0.3,
		PastWeight:     0.1,
	}
}

// Band returns the temporal band for an incident age in days. Negative ages
// (future-dated records) count as recent.
func (b TemporalBands) Band(ageDays int) TemporalBand {
	switch {
	case ageDays <= b.RecentDays:
		return BandRecent
	case ageDays <= b.MidDays:
		return BandMid
	case ageDays <= b.LongTermDays:
		return BandLongTerm
	default:
		return BandPast
	}
}

// Weight returns the decay weight for a temporal band.
func (b TemporalBands) Weight(band TemporalBand) float64 {
	switch band {
	case BandRecent:
		return b.RecentWeight
	case BandMid:
		return b.MidWeight
	case BandLongTerm:
		return b.LongTermWeight
	default:
		return b.PastWeight
	}
}
