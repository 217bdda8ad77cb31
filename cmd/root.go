package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/internal/recordstore"
	"github.com/joonpark/srnav/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// store is the global record store instance, opened during shared setup.
var store contract.RecordStore

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "srnav",
	Short:              "Search historical SRs and incidents for risk evidence.",
	Long:               `srnav scores and ranks past service requests and incidents against a proposed development task, producing the evidence bundle behind an FMEA-style risk review.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".srnav") // Name of config file (without extension)
		viper.SetConfigType("yaml")   // We'll use YAML format
		viper.AddConfigPath(".")      // Look in the current directory
		viper.AddConfigPath("$HOME")  // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("SRNAV")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("sr-limit", 0)
	viper.SetDefault("incident-limit", 0)
	viper.SetDefault("default-severity", string(schema.SeverityMedium))
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("min-score", contract.DefaultMinScore)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("color", "yes")
}

// processConfig merges all config sources and runs validation.
func processConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	return nil
}

// sharedSetup validates the config, then opens the record store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := processConfig(); err != nil {
		return err
	}

	// Open the record store with the validated config.
	s, err := recordstore.NewStore(cfg.StoreBackend, cfg.StoreDBConnect)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	store = s

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configOnlySetup validates the config without opening the record store, for
// commands that never touch records.
func configOnlySetup(_ *cobra.Command, _ []string) error {
	return processConfig()
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".srnav")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// activeProvider picks the record source for a search: an ad-hoc records
// file when one was given, otherwise the configured store.
func activeProvider() (contract.RecordProvider, error) {
	if cfg.RecordsFile == "" {
		return store, nil
	}
	srs, incidents, err := recordstore.LoadRecordsFile(cfg.RecordsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load records file: %w", err)
	}
	mem := recordstore.NewMemoryStore()
	if err := mem.PutSRRecords(rootCtx, srs); err != nil {
		return nil, err
	}
	if err := mem.PutIncidentRecords(rootCtx, incidents); err != nil {
		return nil, err
	}
	return mem, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
