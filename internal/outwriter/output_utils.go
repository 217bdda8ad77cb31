package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatWeights formats an engine's weights for display in formulas, in the
// factor display order.
func formatWeights(weights map[schema.FactorKey]float64, factorKeys []schema.FactorKey) string {
	var parts []string
	for _, key := range factorKeys {
		if weight, ok := weights[key]; ok && weight > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", weight, string(key)))
		}
	}
	return strings.Join(parts, " + ")
}

// formatComponents joins components for table display, collapsing empty sets.
func formatComponents(components []string) string {
	if len(components) == 0 {
		return "-"
	}
	return strings.Join(components, ", ")
}

// getDisplayNameForEngine returns the display name with emoji for an engine.
func getDisplayNameForEngine(engine schema.EngineKind) string {
	switch engine {
	case schema.SREngineKind:
		return "🔎 SR SIMILARITY"
	case schema.IncidentEngineKind:
		return "🚨 INCIDENT CORRELATION"
	default:
		return strings.ToUpper(string(engine))
	}
}
