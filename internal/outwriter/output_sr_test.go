package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func srMatchFixture() schema.SRMatch {
	return schema.SRMatch{
		SR: schema.SRRecord{
			ID:                 "SR-2024-0101",
			Title:              "결제 게이트웨이 타임아웃 개선",
			System:             "Billing",
			Priority:           schema.PriorityHigh,
			Category:           "기능개선",
			AffectedComponents: []string{"payment-gateway", "billing-api"},
		},
		Score: 0.85,
		Factors: map[schema.FactorKey]float64{
			schema.FactorText:       0.9,
			schema.FactorSystem:     1.0,
			schema.FactorComponents: 0.5,
			schema.FactorCategory:   1.0,
			schema.FactorPriority:   1.0,
		},
		MatchFactors: schema.MatchFactors{
			TextSimilarity:       0.9,
			SystemMatch:          true,
			ComponentOverlapping: 1,
		},
	}
}

func tableConfig() *contract.Config {
	return &contract.Config{
		Precision:    2,
		Output:       schema.TextOut,
		Width:        120,
		StoreBackend: schema.SQLiteBackend,
	}
}

func TestWriteJSONResultsForSRs(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForSRs(&buf, []schema.SRMatch{srMatchFixture()})
	require.NoError(t, err)

	// Parse the JSON to verify structure
	var result []map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "Strong", result[0]["label"])
	assert.Equal(t, 0.85, result[0]["score"])
	sr, ok := result[0]["sr"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SR-2024-0101", sr["id"])
}

func TestWriteCSVResultsForSRs(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForSRs(w, []schema.SRMatch{srMatchFixture()}, fmtFloat, intFmt)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2) // header + 1 row

	assert.Contains(t, lines[0], "rank")
	assert.Contains(t, lines[0], "text_similarity")
	assert.Contains(t, lines[1], "SR-2024-0101")
	assert.Contains(t, lines[1], "0.85")
	assert.Contains(t, lines[1], "Strong")
	assert.Contains(t, lines[1], "High")
}

func TestWriteSRTable(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	err := writeSRTable([]schema.SRMatch{srMatchFixture()}, tableConfig(), fmtFloat, intFmt, 50*time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "SR-2024-0101")
	assert.Contains(t, out, "Strong")
	assert.Contains(t, out, "Showing top 1 SRs")
	assert.Contains(t, out, "Store backend: sqlite")
}

func TestWriteSRTableEmpty(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	err := writeSRTable(nil, tableConfig(), fmtFloat, intFmt, time.Millisecond, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Showing top 0 SRs (best score: 0.00)")
}

func TestPrintSRResultsParquetRequiresOutputFile(t *testing.T) {
	cfg := tableConfig()
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = ""

	err := PrintSRResults([]schema.SRMatch{srMatchFixture()}, cfg, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output file")
}
