package contract

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/joonpark/srnav/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 5
	MaxResultLimit     = 100
	DefaultPrecision   = 2
	DefaultMinScore    = 0.0
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// EngineWeightsRaw holds custom factor weights for a single engine. Use
// float64 pointers so that untouched factors keep their defaults.
type EngineWeightsRaw struct {
	Text       *float64 `mapstructure:"text_similarity"`
	System     *float64 `mapstructure:"system_match"`
	Components *float64 `mapstructure:"component_overlap"`
	Category   *float64 `mapstructure:"category_match"`
	Priority   *float64 `mapstructure:"priority_similarity"`
	Severity   *float64 `mapstructure:"severity_weight"`
	Time       *float64 `mapstructure:"time_weight"`
}

// WeightsRawInput holds all custom weight definitions from the YAML config file.
type WeightsRawInput struct {
	SR       *EngineWeightsRaw `mapstructure:"sr"`
	Incident *EngineWeightsRaw `mapstructure:"incident"`
}

// BandsRawInput holds custom temporal decay settings from the YAML config file.
type BandsRawInput struct {
	RecentDays     *int     `mapstructure:"recent_days"`
	MidDays        *int     `mapstructure:"mid_days"`
	LongTermDays   *int     `mapstructure:"long_term_days"`
	RecentWeight   *float64 `mapstructure:"recent_weight"`
	MidWeight      *float64 `mapstructure:"mid_weight"`
	LongTermWeight *float64 `mapstructure:"long_term_weight"`
	PastWeight     *float64 `mapstructure:"past_weight"`
}

// Config holds the runtime configuration for a search run.
// This struct remains the "final, validated" config.
type Config struct {
	ResultLimit int
	Precision   int
	MinScore    float64
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	// SRResultLimit and IncidentResultLimit override ResultLimit per engine
	// when set above zero, so the two sides of a gather can request
	// different top-k.
	SRResultLimit       int
	IncidentResultLimit int

	// DefaultSeverity substitutes for incidents whose severity is missing
	// or unknown.
	DefaultSeverity schema.Severity

	// ReferenceTime anchors incident age computation. Zero means time.Now
	// at scoring time.
	ReferenceTime time.Time

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
	RecordsFile    string

	// SRWeights and IncidentWeights are the final factor weights for each
	// engine, computed from defaults + custom overrides.
	SRWeights       map[schema.FactorKey]float64
	IncidentWeights map[schema.FactorKey]float64

	// Bands is the temporal decay schedule for incident scoring.
	Bands schema.TemporalBands
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit          int     `mapstructure:"limit"`
	Precision      int     `mapstructure:"precision"`
	MinScore       float64 `mapstructure:"min-score"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	RefTime        string  `mapstructure:"ref-time"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`
	RecordsFile    string  `mapstructure:"records-file"`

	// --- Per-engine overrides ---
	SRLimit         int    `mapstructure:"sr-limit"`
	IncidentLimit   int    `mapstructure:"incident-limit"`
	DefaultSeverity string `mapstructure:"default-severity"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`

	// --- Temporal bands from config file ---
	Bands BandsRawInput `mapstructure:"bands"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.SRWeights != nil {
		clone.SRWeights = make(map[schema.FactorKey]float64)
		maps.Copy(clone.SRWeights, c.SRWeights)
	}
	if c.IncidentWeights != nil {
		clone.IncidentWeights = make(map[schema.FactorKey]float64)
		maps.Copy(clone.IncidentWeights, c.IncidentWeights)
	}
	return &clone
}

// EffectiveSRLimit returns the SR engine's top-k: the per-engine override
// when set, otherwise the shared result limit.
func (c *Config) EffectiveSRLimit() int {
	if c.SRResultLimit > 0 {
		return c.SRResultLimit
	}
	return c.ResultLimit
}

// EffectiveIncidentLimit returns the incident engine's top-k: the per-engine
// override when set, otherwise the shared result limit.
func (c *Config) EffectiveIncidentLimit() int {
	if c.IncidentResultLimit > 0 {
		return c.IncidentResultLimit
	}
	return c.ResultLimit
}

// Now returns the reference time for age computation, defaulting to the wall
// clock when no override is configured.
func (c *Config) Now() time.Time {
	if c.ReferenceTime.IsZero() {
		return time.Now()
	}
	return c.ReferenceTime
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	if err := processTemporalBands(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.RecordsFile = input.RecordsFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.SRLimit < 0 || input.SRLimit > MaxResultLimit {
		return fmt.Errorf("sr-limit must be between 0 and %d (received %d, 0 means use limit)", MaxResultLimit, input.SRLimit)
	}
	cfg.SRResultLimit = input.SRLimit

	if input.IncidentLimit < 0 || input.IncidentLimit > MaxResultLimit {
		return fmt.Errorf("incident-limit must be between 0 and %d (received %d, 0 means use limit)", MaxResultLimit, input.IncidentLimit)
	}
	cfg.IncidentResultLimit = input.IncidentLimit

	// --- 2. Precision and MinScore Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.MinScore < 0.0 || input.MinScore > 1.0 {
		return fmt.Errorf("min-score must be between 0.0 and 1.0 (received %.3f)", input.MinScore)
	}
	cfg.MinScore = input.MinScore

	// --- 3. Default Severity ---
	cfg.DefaultSeverity = schema.SeverityMedium
	if input.DefaultSeverity != "" {
		sev, ok := schema.ParseSeverity(input.DefaultSeverity)
		if !ok {
			return fmt.Errorf("invalid default-severity '%s'. must be Critical, High, Medium, Low", input.DefaultSeverity)
		}
		cfg.DefaultSeverity = sev
	}

	// --- 4. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 5. Reference Time ---
	if input.RefTime != "" {
		t, err := time.Parse(DateTimeFormat, input.RefTime)
		if err != nil {
			return fmt.Errorf("invalid ref-time '%s'. Expected ISO8601: %w", input.RefTime, err)
		}
		cfg.ReferenceTime = t
	}

	// --- 6. Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	return nil
}

// ProcessWeightsRawInput converts an EngineWeightsRaw override into a final
// weights map layered over the given defaults. If validateSum is true, it
// validates that the resulting weights sum to 1.0.
func ProcessWeightsRawInput(raw *EngineWeightsRaw, defaults map[schema.FactorKey]float64, validateSum bool) (map[schema.FactorKey]float64, error) {
	result := make(map[schema.FactorKey]float64)
	maps.Copy(result, defaults)

	if raw != nil {
		overrides := map[schema.FactorKey]*float64{
			schema.FactorText:       raw.Text,
			schema.FactorSystem:     raw.System,
			schema.FactorComponents: raw.Components,
			schema.FactorCategory:   raw.Category,
			schema.FactorPriority:   raw.Priority,
			schema.FactorSeverity:   raw.Severity,
			schema.FactorTime:       raw.Time,
		}
		for key, ptr := range overrides {
			if ptr == nil {
				continue
			}
			if _, ok := defaults[key]; !ok {
				return nil, fmt.Errorf("factor %s is not used by this engine", key)
			}
			if *ptr < 0 {
				return nil, fmt.Errorf("weight for factor %s must be non-negative, got %.3f", key, *ptr)
			}
			result[key] = *ptr
		}
	}

	if validateSum {
		if err := ValidateWeights(result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// ValidateWeights enforces the convex-combination invariant: non-negative
// weights summing to 1.0 within tolerance.
func ValidateWeights(weights map[schema.FactorKey]float64) error {
	sum := 0.0
	for key, w := range weights {
		if w < 0 {
			return fmt.Errorf("weight for factor %s must be non-negative, got %.3f", key, w)
		}
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("factor weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// processCustomWeights layers config-file weight overrides over per-engine
// defaults and validates that each engine's weights sum to 1.0.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	srWeights, err := ProcessWeightsRawInput(input.Weights.SR, schema.GetDefaultSRWeights(), true)
	if err != nil {
		return fmt.Errorf("sr weights: %w", err)
	}
	cfg.SRWeights = srWeights

	incWeights, err := ProcessWeightsRawInput(input.Weights.Incident, schema.GetDefaultIncidentWeights(), true)
	if err != nil {
		return fmt.Errorf("incident weights: %w", err)
	}
	cfg.IncidentWeights = incWeights

	return nil
}

// processTemporalBands layers config-file band overrides over the default
// decay schedule and validates ordering plus monotone decay.
func processTemporalBands(cfg *Config, input *ConfigRawInput) error {
	bands := schema.GetDefaultTemporalBands()

	if input.Bands.RecentDays != nil {
		bands.RecentDays = *input.Bands.RecentDays
	}
	if input.Bands.MidDays != nil {
		bands.MidDays = *input.Bands.MidDays
	}
	if input.Bands.LongTermDays != nil {
		bands.LongTermDays = *input.Bands.LongTermDays
	}
	if input.Bands.RecentWeight != nil {
		bands.RecentWeight = *input.Bands.RecentWeight
	}
	if input.Bands.MidWeight != nil {
		bands.MidWeight = *input.Bands.MidWeight
	}
	if input.Bands.LongTermWeight != nil {
		bands.LongTermWeight = *input.Bands.LongTermWeight
	}
	if input.Bands.PastWeight != nil {
		bands.PastWeight = *input.Bands.PastWeight
	}

	if bands.RecentDays <= 0 || bands.MidDays <= bands.RecentDays || bands.LongTermDays <= bands.MidDays {
		return fmt.Errorf("band boundaries must satisfy 0 < recent < mid < long_term (got %d, %d, %d)",
			bands.RecentDays, bands.MidDays, bands.LongTermDays)
	}

	weights := []float64{bands.RecentWeight, bands.MidWeight, bands.LongTermWeight, bands.PastWeight}
	for i, w := range weights {
		if w < 0.0 || w > 1.0 {
			return fmt.Errorf("band weights must be between 0.0 and 1.0 (received %.3f)", w)
		}
		if i > 0 && w > weights[i-1] {
			return fmt.Errorf("band weights must not increase with age: %.3f follows %.3f", w, weights[i-1])
		}
	}

	cfg.Bands = bands
	return nil
}
