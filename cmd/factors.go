package cmd

import (
	"github.com/joonpark/srnav/core"
	"github.com/joonpark/srnav/internal/contract"
	"github.com/spf13/cobra"
)

// factorsCmd displays the formal definitions of both scoring engines.
var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Display factor weights and formulas for both scoring engines",
	Long: `Show the formal definitions, formulas, and factor weights for the SR
similarity and incident correlation engines.

Provides complete transparency into how evidence is ranked, including:
- Factor names and their contribution weights per engine
- Mathematical formula for score calculation
- Temporal decay bands for incident recency
- Custom weights if configured via .srnav.yaml

No record store access is performed - this is purely informational.

Examples:
  # Show default scoring formulas
  srnav factors

  # View with custom weights from config file
  srnav factors --config .srnav.yaml`,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFactors(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display factors", err)
		}
	},
}
