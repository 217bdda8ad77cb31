package cmd

import (
	"github.com/joonpark/srnav/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// gatherCmd runs both engines and prints the combined evidence bundle.
var gatherCmd = &cobra.Command{
	Use:   "gather [title]",
	Short: "Gather SR and incident evidence for a risk review.",
	Long: `Run the SR similarity and incident correlation searches concurrently and
combine them into one evidence bundle.

The bundle carries both ranked lists, top-score summaries, and any warnings.
If one engine fails the other side still returns, with the failure noted as a
warning; only when both fail does the command error out.

With --prompt, the bundle is rendered into the grounded FMEA prompt text that
the external risk-narrative generator consumes, instead of the bundle itself.

Each engine takes its own result cap: --sr-limit and --incident-limit override
--limit per side when set above zero.

Examples:
  # Gather evidence for a proposed change
  srnav gather "결제 모듈 개선" --system Billing --components payment-gateway

  # Five similar SRs but ten related incidents
  srnav gather "결제 모듈 개선" --sr-limit 5 --incident-limit 10

  # Machine-readable bundle for the narrative pipeline
  srnav gather "결제 모듈 개선" --output json --output-file bundle.json

  # Emit the grounded prompt for the external LLM
  srnav gather "결제 모듈 개선" --prompt --output-file prompt.txt`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		executor := core.ExecuteGather
		if viper.GetBool("prompt") {
			executor = core.ExecuteGatherPrompt
		}
		runSearch(executor, "Cannot gather evidence")(cmd, args)
	},
}
