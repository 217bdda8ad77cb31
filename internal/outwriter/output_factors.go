package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// FactorsEngineModel describes one engine's scoring factors for display.
type FactorsEngineModel struct {
	Engine  schema.EngineKind            `json:"engine"`
	Purpose string                       `json:"purpose"`
	Factors []string                     `json:"factors"`
	Weights map[schema.FactorKey]float64 `json:"weights"`
	Formula string                       `json:"formula"`
}

// FactorsRenderModel is the complete render model for the factors display.
type FactorsRenderModel struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Engines     []FactorsEngineModel `json:"engines"`
	Bands       schema.TemporalBands `json:"bands"`
}

// PrintFactorDefinitions displays the formal definitions of both engines'
// scoring factors. This is a static display that does not touch the record store.
func PrintFactorDefinitions(cfg *contract.Config) error {
	// Build the complete render model with all processed data
	renderModel := buildFactorsRenderModel(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVFactors(csvWriter, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFactorsText(w, renderModel)
		}, "Wrote text")
	}
}

// writeFactorsText displays factor definitions in human-readable text format.
func writeFactorsText(w io.Writer, renderModel *FactorsRenderModel) error {
	if _, err := fmt.Fprintf(w, "⚖️  %s\n", renderModel.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "==========================\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", renderModel.Description); err != nil {
		return err
	}

	for _, engine := range renderModel.Engines {
		displayName := getDisplayNameForEngine(engine.Engine)
		if _, err := fmt.Fprintf(w, "%s: %s\n", displayName, engine.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Factors: %s\n", strings.Join(engine.Factors, ", ")); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Formula: Score = %s\n\n", engine.Formula); err != nil {
			return err
		}
	}

	bands := renderModel.Bands
	if _, err := fmt.Fprintf(w, "🕰️  Temporal Decay\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "recent ≤%dd: %.2f | mid ≤%dd: %.2f | long_term ≤%dd: %.2f | past: %.2f\n",
		bands.RecentDays, bands.RecentWeight, bands.MidDays, bands.MidWeight,
		bands.LongTermDays, bands.LongTermWeight, bands.PastWeight); err != nil {
		return err
	}
	return nil
}

// writeCSVFactors writes factor weights as engine/factor/weight rows.
func writeCSVFactors(w *csv.Writer, renderModel *FactorsRenderModel) error {
	if err := w.Write([]string{"engine", "factor", "weight"}); err != nil {
		return err
	}
	for _, engine := range renderModel.Engines {
		for _, key := range factorKeysForEngine(engine.Engine) {
			weight, ok := engine.Weights[key]
			if !ok {
				continue
			}
			rec := []string{string(engine.Engine), string(key), fmt.Sprintf("%.2f", weight)}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildFactorsRenderModel constructs the complete render model from the
// active configuration, so custom weight overrides show up in formulas.
func buildFactorsRenderModel(cfg *contract.Config) *FactorsRenderModel {
	srWeights := cfg.SRWeights
	if srWeights == nil {
		srWeights = schema.GetDefaultSRWeights()
	}
	incidentWeights := cfg.IncidentWeights
	if incidentWeights == nil {
		incidentWeights = schema.GetDefaultIncidentWeights()
	}
	bands := cfg.Bands
	if bands == (schema.TemporalBands{}) {
		bands = schema.GetDefaultTemporalBands()
	}

	engines := []FactorsEngineModel{
		{
			Engine:  schema.SREngineKind,
			Purpose: "Similar past service requests - same work, same surface",
			Factors: []string{"Text", "System", "Components", "Category", "Priority"},
			Weights: srWeights,
			Formula: formatWeights(srWeights, schema.SRFactorKeys),
		},
		{
			Engine:  schema.IncidentEngineKind,
			Purpose: "Correlated past incidents - what broke near this change",
			Factors: []string{"System", "Components", "Text", "Severity", "Time"},
			Weights: incidentWeights,
			Formula: formatWeights(incidentWeights, schema.IncidentFactorKeys),
		},
	}

	return &FactorsRenderModel{
		Title:       "Evidence Scoring Factors",
		Description: "All scores = weighted sum of factors in [0,1]; weights sum to 1.0",
		Engines:     engines,
		Bands:       bands,
	}
}

// factorKeysForEngine returns the display order of an engine's factor keys.
func factorKeysForEngine(engine schema.EngineKind) []schema.FactorKey {
	if engine == schema.IncidentEngineKind {
		return schema.IncidentFactorKeys
	}
	return schema.SRFactorKeys
}
