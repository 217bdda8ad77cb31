package recordstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/joonpark/srnav/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecordsFile(t *testing.T) {
	srs, incidents, err := LoadRecordsFile(filepath.Join("testdata", "sample_records.json"))
	require.NoError(t, err, "sample file should parse")
	require.Len(t, srs, 2)
	require.Len(t, incidents, 2)

	sr := srs[0]
	assert.Equal(t, "SR-2024-0101", sr.ID)
	assert.Equal(t, schema.PriorityHigh, sr.Priority)
	assert.Equal(t, []string{"payment-gateway", "billing-api"}, sr.AffectedComponents)
	assert.Equal(t, time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC), sr.CreatedDate,
		"plain dates should parse at midnight UTC")
	assert.Equal(t, time.Date(2024, 10, 2, 9, 30, 0, 0, time.UTC), srs[1].CreatedDate,
		"full timestamps should parse too")

	inc := incidents[0]
	assert.Equal(t, "INC-2024-0042", inc.ID)
	assert.Equal(t, schema.SeverityCritical, inc.Severity)
	assert.Equal(t, 95*time.Minute, inc.Duration, "duration_minutes should convert to a duration")
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), inc.OccurredDate,
		"reported_date should back-fill occurred_date")
	assert.Equal(t, 15000, inc.AffectedUsers)

	assert.True(t, incidents[1].OccurredDate.IsZero(), "missing dates come back as the zero time")
}

func TestLoadRecordsFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadRecordsFile(filepath.Join("testdata", "no_such_file.json"))
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		writeFile(t, path, "{not json")
		_, _, err := LoadRecordsFile(path)
		assert.Error(t, err)
	})

	t.Run("empty sections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		writeFile(t, path, `{"service_requests": [], "incidents": []}`)
		_, _, err := LoadRecordsFile(path)
		assert.Error(t, err, "a file with no records should be rejected")
	})
}

func TestParseImportDate(t *testing.T) {
	assert.True(t, parseImportDate("").IsZero(), "empty dates are unknown")
	assert.True(t, parseImportDate("not a date").IsZero(), "unparseable dates degrade to unknown")
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), parseImportDate("2025-03-01"))
}
