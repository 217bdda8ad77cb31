package outwriter

import (
	"os"

	"github.com/joonpark/srnav/internal/contract"
	"golang.org/x/term"
)

// getMaxTableTitleWidth calculates the maximum width for record titles in
// table output based on terminal width and table configuration.
func getMaxTableTitleWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting:
	// Rank + ID + Score + Label + the per-engine annotation columns,
	// plus borders, separators, and padding.
	baseWidth := 55

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable title width
		return 15
	}
	if available > 60 {
		// Maximum title width to prevent overly long titles
		return 60
	}
	return available
}
