package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"strong at boundary", 0.8, StrongValue},
		{"strong above boundary", 0.95, StrongValue},
		{"good", 0.7, GoodValue},
		{"moderate", 0.5, ModerateValue},
		{"weak", 0.2, WeakValue},
		{"zero is weak", 0.0, WeakValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPlainLabel(tt.score), "GetPlainLabel(%.2f)", tt.score)
		})
	}
}

func TestGetColorLabelContainsPlainText(t *testing.T) {
	// Colored labels must still contain the plain text so they grep cleanly.
	for _, score := range []float64{0.9, 0.7, 0.5, 0.1} {
		assert.Contains(t, GetColorLabel(score), GetPlainLabel(score),
			"color label for %.1f should wrap the plain label", score)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     string
	}{
		{"short text untouched", "billing", 20, "billing"},
		{"long text truncated", "payment gateway timeout on checkout", 15, "payment gate..."},
		{"width too small to truncate", "abcdef", 3, "abcdef"},
		{"unicode counts runes not bytes", "결제 게이트웨이 장애 전파", 10, "결제 게이트웨..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateText(tt.text, tt.maxWidth), "TruncateText(%q, %d)", tt.text, tt.maxWidth)
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		got, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, got, "%q should parse as true", s)
	}
	for _, s := range []string{"no", "False", "0"} {
		got, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, got, "%q should parse as false", s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err, "unknown values should error")
}
