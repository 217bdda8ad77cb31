package cmd

import (
	"github.com/joonpark/srnav/core"
	"github.com/spf13/cobra"
)

// srCmd ranks historical SRs by similarity to the query.
var srCmd = &cobra.Command{
	Use:   "sr [title]",
	Short: "Show the historical SRs most similar to a proposed task.",
	Long: `Score every stored service request against the query and rank by similarity.

Similarity is a weighted blend of five factors:
- Text overlap between titles and descriptions
- Exact system match
- Component set overlap
- Work category match
- Priority closeness

Use this to find prior art before starting work: how a similar request was
scoped, which components it touched, and what it ended up requiring.

Examples:
  # Search by title alone
  srnav sr "결제 모듈 개선"

  # Narrow by system and components
  srnav sr "결제 모듈 개선" --system Billing --components payment-gateway,billing-api

  # Include a description for better text matching
  srnav sr "결제 모듈 개선" -d "PG사 연동 타임아웃 처리 개선"

  # Export the ranked list to CSV
  srnav sr "결제 모듈 개선" --output csv --output-file srs.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runSearch(core.ExecuteSRSearch, "Cannot run SR search"),
}
