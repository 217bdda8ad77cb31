package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/internal/parquet"
	"github.com/joonpark/srnav/schema"
)

// PrintBundle outputs a combined evidence bundle, dispatching based on the output format configured.
func PrintBundle(bundle *schema.EvidenceBundle, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		// The bundle already carries ranked lists and warnings, so it is
		// encoded as-is for downstream consumers.
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, bundle)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeBundleCSVResults(bundle, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeBundleParquetResults(bundle, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBundleText(bundle, cfg, fmtFloat, duration, w)
		}, "Wrote text")
	}
	return nil
}

// PrintPrompt writes prebuilt prompt text, honoring the output file setting.
func PrintPrompt(text string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, text)
		return err
	}, "Wrote prompt")
}

// writeBundleCSVResults writes both ranked lists into one CSV with a
// record_type discriminator column, mirroring the Parquet layout.
func writeBundleCSVResults(bundle *schema.EvidenceBundle, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()

		header := []string{"record_type", "rank", "id", "title", "system", "score", "label", "components", "annotation"}
		if err := csvWriter.Write(header); err != nil {
			return err
		}
		for i, m := range bundle.SRResults {
			rec := []string{
				"sr",
				strconv.Itoa(i + 1),
				m.SR.ID,
				m.SR.Title,
				m.SR.System,
				fmtFloat(m.Score),
				contract.GetPlainLabel(m.Score),
				formatComponents(m.SR.AffectedComponents),
				string(m.SR.Priority),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		for i, m := range bundle.IncidentResults {
			rec := []string{
				"incident",
				strconv.Itoa(i + 1),
				m.Incident.ID,
				m.Incident.Title,
				m.Incident.System,
				fmtFloat(m.Score),
				contract.GetPlainLabel(m.Score),
				formatComponents(m.Incident.AffectedComponents),
				string(m.RiskFactors.Severity),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote CSV")
}

// writeBundleParquetResults writes the whole bundle into one Parquet file.
func writeBundleParquetResults(bundle *schema.EvidenceBundle, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file path. Use --output-file")
	}
	if err := parquet.WriteEvidenceParquet(parquet.BuildBundleRows(bundle), cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeBundleText renders the bundle as two ranked tables with a shared
// summary. Degraded-engine warnings print first so they are never buried
// below a long table.
func writeBundleText(bundle *schema.EvidenceBundle, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	_, intFmt := createFormatters(cfg.Precision)

	for _, warning := range bundle.Warnings {
		if _, err := fmt.Fprintf(writer, "⚠️  %s\n", warning); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "%s\n", getDisplayNameForEngine(schema.SREngineKind)); err != nil {
		return err
	}
	if err := renderSRTable(bundle.SRResults, cfg, fmtFloat, intFmt, writer); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "\n%s\n", getDisplayNameForEngine(schema.IncidentEngineKind)); err != nil {
		return err
	}
	if err := renderIncidentTable(bundle.IncidentResults, cfg, fmtFloat, intFmt, writer); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "\nEvidence summary: top similarity %s, top correlation %s\n",
		fmtFloat(bundle.TopSimilarity), fmtFloat(bundle.TopCorrelation)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Gather completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}
