// Package cmd defines the command-line interface for srnav.
package cmd

import (
	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(srCmd)
	rootCmd.AddCommand(incidentsCmd)
	rootCmd.AddCommand(gatherCmd)
	rootCmd.AddCommand(factorsCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the records subcommands to the parent records command
	recordsCmd.AddCommand(recordsImportCmd)
	recordsCmd.AddCommand(recordsStatusCmd)
	recordsCmd.AddCommand(recordsClearCmd)
	recordsCmd.AddCommand(recordsExportCmd)
	recordsCmd.AddCommand(recordsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("sr-limit", 0, "Number of SR results to display, overriding --limit (0 = use --limit)")
	rootCmd.PersistentFlags().Int("incident-limit", 0, "Number of incident results to display, overriding --limit (0 = use --limit)")
	rootCmd.PersistentFlags().String("default-severity", string(schema.SeverityMedium), "Severity assumed for incidents without one: Critical or High or Medium or Low")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for score columns")
	rootCmd.PersistentFlags().Float64("min-score", contract.DefaultMinScore, "Minimum composite score to include a result")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("ref-time", "", "Reference time for incident age in RFC3339 (default: now)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("records-file", "", "Path to a JSON records file to search instead of the store")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Register the query flags on every search command. These are read
	// straight from Cobra since they describe a single invocation, not
	// persistent configuration.
	for _, c := range []*cobra.Command{srCmd, incidentsCmd, gatherCmd} {
		c.Flags().StringP("description", "d", "", "Description of the proposed change")
		c.Flags().String("system", "", "Target system name (e.g., Billing)")
		c.Flags().String("components", "", "Comma-separated list of affected components")
		c.Flags().String("category", "", "Work category (e.g., Enhancement, Bugfix)")
		c.Flags().String("priority", "", "Priority level: Critical or High or Medium or Low")
	}

	// Bind the prompt flag of gatherCmd to Viper
	gatherCmd.Flags().Bool("prompt", false, "Append the grounded risk-review prompt to the bundle output")
	if err := viper.BindPFlags(gatherCmd.Flags()); err != nil {
		contract.LogFatal("Error binding gather flags", err)
	}

	// Bind the export flags of recordsExportCmd to Viper
	recordsExportCmd.Flags().String("sr-file", "", "Output path for the SR records Parquet file")
	recordsExportCmd.Flags().String("incident-file", "", "Output path for the incident records Parquet file")
	if err := viper.BindPFlags(recordsExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding records export flags", err)
	}

	// Bind the migrate flags of recordsMigrateCmd to Viper
	recordsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(recordsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding records migrate flags", err)
	}
}
