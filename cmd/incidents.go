package cmd

import (
	"github.com/joonpark/srnav/core"
	"github.com/spf13/cobra"
)

// incidentsCmd ranks historical incidents by correlation with the query.
var incidentsCmd = &cobra.Command{
	Use:   "incidents [title]",
	Short: "Show the past incidents most correlated with a proposed task.",
	Long: `Score every stored incident against the query and rank by correlation.

Correlation is a weighted blend of five factors:
- Exact system match
- Component set overlap
- Text overlap with the incident description and root cause
- Incident severity
- Recency, decayed over temporal bands

Recent incidents in the same system and components score highest, surfacing
the failure modes a change is most likely to re-trigger.

Examples:
  # Find incidents related to a payment change
  srnav incidents "결제 모듈 개선" --system Billing

  # Anchor recency at a fixed point in time
  srnav incidents "결제 모듈 개선" --ref-time 2026-06-01T00:00:00Z

  # Only show strong correlations
  srnav incidents "결제 모듈 개선" --min-score 0.5`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runSearch(core.ExecuteIncidentSearch, "Cannot run incident search"),
}
