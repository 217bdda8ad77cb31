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

// PrintSRResults outputs ranked SR matches, dispatching based on the output format configured.
func PrintSRResults(matches []schema.SRMatch, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeSRJSONResults(matches, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSRCSVResults(matches, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeSRParquetResults(matches, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSRTable(matches, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeSRJSONResults handles opening the file and calling the JSON writer.
func writeSRJSONResults(matches []schema.SRMatch, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSRs(w, matches)
	}, "Wrote JSON")
}

// writeSRCSVResults handles opening the file and calling the CSV writer.
func writeSRCSVResults(matches []schema.SRMatch, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSRs(csvWriter, matches, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeSRParquetResults writes matches to a Parquet file. Parquet is a binary
// columnar format, so an output file path is required.
func writeSRParquetResults(matches []schema.SRMatch, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file path. Use --output-file")
	}
	if err := parquet.WriteEvidenceParquet(parquet.BuildSRMatchRows(matches), cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeSRTable generates and writes the human-readable table with a
// completion footer.
func writeSRTable(matches []schema.SRMatch, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	if err := renderSRTable(matches, cfg, fmtFloat, intFmt, writer); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Search completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// renderSRTable writes the ranked table and its summary line.
func renderSRTable(matches []schema.SRMatch, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "ID", "Title", "Score", "Label", "Text", "System", "Overlap"}
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
		systemCell := "-"
		if m.MatchFactors.SystemMatch {
			systemCell = m.SR.System
		}
		row := []string{
			strconv.Itoa(i + 1), // Rank
			m.SR.ID,
			contract.TruncateText(m.SR.Title, getMaxTableTitleWidth(cfg)),
			fmtFloat(m.Score),
			label(m.Score),
			fmtFloat(m.MatchFactors.TextSimilarity), // Text cosine
			systemCell,                              // Matched system or "-"
			fmt.Sprintf(intFmt, m.MatchFactors.ComponentOverlapping), // Shared components
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
	if len(matches) > 0 {
		best = matches[0].Score
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d SRs (best score: %s)\n", len(matches), fmtFloat(best)); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForSRs writes SR matches in CSV format.
func writeCSVResultsForSRs(w *csv.Writer, matches []schema.SRMatch, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"id",
		"title",
		"score",
		"label",
		"system",
		"priority",
		"category",
		"components",
		"text_similarity",
		"system_match",
		"component_overlap",
		"category_match",
		"priority_similarity",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, m := range matches {
		rec := []string{
			strconv.Itoa(i + 1),
			m.SR.ID,
			m.SR.Title,
			fmtFloat(m.Score),
			contract.GetPlainLabel(m.Score),
			m.SR.System,
			string(m.SR.Priority),
			m.SR.Category,
			formatComponents(m.SR.AffectedComponents),
			fmtFloat(m.Factors[schema.FactorText]),
			fmtFloat(m.Factors[schema.FactorSystem]),
			fmt.Sprintf(intFmt, m.MatchFactors.ComponentOverlapping),
			fmtFloat(m.Factors[schema.FactorCategory]),
			fmtFloat(m.Factors[schema.FactorPriority]),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForSRs writes SR matches in JSON format.
func writeJSONResultsForSRs(w io.Writer, matches []schema.SRMatch) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONSRMatch struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.SRMatch
	}

	output := make([]JSONSRMatch, len(matches))
	for i, m := range matches {
		output[i] = JSONSRMatch{
			Rank:    i + 1,
			Label:   contract.GetPlainLabel(m.Score),
			SRMatch: m,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
