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

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintIncidentResults outputs ranked incident matches, dispatching based on the output format configured.
func PrintIncidentResults(matches []schema.IncidentMatch, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeIncidentJSONResults(matches, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeIncidentCSVResults(matches, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeIncidentParquetResults(matches, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIncidentTable(matches, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeIncidentJSONResults handles opening the file and calling the JSON writer.
func writeIncidentJSONResults(matches []schema.IncidentMatch, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForIncidents(w, matches)
	}, "Wrote JSON")
}

// writeIncidentCSVResults handles opening the file and calling the CSV writer.
func writeIncidentCSVResults(matches []schema.IncidentMatch, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForIncidents(csvWriter, matches, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeIncidentParquetResults writes matches to a Parquet file. Parquet is a
// binary columnar format, so an output file path is required.
func writeIncidentParquetResults(matches []schema.IncidentMatch, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file path. Use --output-file")
	}
	if err := parquet.WriteEvidenceParquet(parquet.BuildIncidentMatchRows(matches), cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeIncidentTable generates and writes the human-readable table with a
// completion footer.
func writeIncidentTable(matches []schema.IncidentMatch, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	if err := renderIncidentTable(matches, cfg, fmtFloat, intFmt, writer); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Search completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// renderIncidentTable writes the ranked table and its summary line.
func renderIncidentTable(matches []schema.IncidentMatch, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "ID", "Title", "Score", "Label", "Severity", "Band", "Users", "Resolved"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}
	var data [][]string
	for i, m := range matches {
		resolved := "no"
		if m.RiskFactors.HasResolution {
			resolved = "yes"
		}
		row := []string{
			strconv.Itoa(i + 1), // Rank
			m.Incident.ID,
			contract.TruncateText(m.Incident.Title, getMaxTableTitleWidth(cfg)),
			fmtFloat(m.Score),
			label(m.Score),
			string(m.RiskFactors.Severity),
			string(m.TemporalRelevance),
			fmt.Sprintf(intFmt, m.RiskFactors.AffectedUsers),
			resolved,
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	best := 0.0
	totalUsers := 0
	for _, m := range matches {
		totalUsers += m.RiskFactors.AffectedUsers
	}
	if len(matches) > 0 {
		best = matches[0].Score
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d incidents (best score: %s, total affected users: %d)\n", len(matches), fmtFloat(best), totalUsers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForIncidents writes incident matches in CSV format.
func writeCSVResultsForIncidents(w *csv.Writer, matches []schema.IncidentMatch, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"id",
		"title",
		"score",
		"label",
		"system",
		"severity",
		"temporal_relevance",
		"occurred_date",
		"duration",
		"affected_users",
		"has_resolution",
		"components",
		"system_match",
		"component_overlap",
		"text_similarity",
		"severity_weight",
		"time_weight",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, m := range matches {
		occurred := ""
		if !m.Incident.OccurredDate.IsZero() {
			occurred = m.Incident.OccurredDate.Format(contract.DateTimeFormat)
		}
		rec := []string{
			strconv.Itoa(i + 1),
			m.Incident.ID,
			m.Incident.Title,
			fmtFloat(m.Score),
			contract.GetPlainLabel(m.Score),
			m.Incident.System,
			string(m.RiskFactors.Severity),
			string(m.TemporalRelevance),
			occurred,
			m.RiskFactors.Duration.String(),
			fmt.Sprintf(intFmt, m.RiskFactors.AffectedUsers),
			strconv.FormatBool(m.RiskFactors.HasResolution),
			formatComponents(m.Incident.AffectedComponents),
			fmtFloat(m.Factors[schema.FactorSystem]),
			fmtFloat(m.Factors[schema.FactorComponents]),
			fmtFloat(m.Factors[schema.FactorText]),
			fmtFloat(m.Factors[schema.FactorSeverity]),
			fmtFloat(m.Factors[schema.FactorTime]),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForIncidents writes incident matches in JSON format.
func writeJSONResultsForIncidents(w io.Writer, matches []schema.IncidentMatch) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONIncidentMatch struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.IncidentMatch
	}

	output := make([]JSONIncidentMatch, len(matches))
	for i, m := range matches {
		output[i] = JSONIncidentMatch{
			Rank:          i + 1,
			Label:         contract.GetPlainLabel(m.Score),
			IncidentMatch: m,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
