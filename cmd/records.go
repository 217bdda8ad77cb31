package cmd

import (
	"fmt"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/internal/outwriter"
	"github.com/joonpark/srnav/internal/parquet"
	"github.com/joonpark/srnav/internal/recordstore"
	"github.com/joonpark/srnav/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// recordsSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func recordsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Open the store with the loaded config (no scoring config for store commands)
	s, err := recordstore.NewStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	store = s

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// recordsSetupWrapper wraps recordsSetup to provide PreRunE for records commands.
func recordsSetupWrapper(_ *cobra.Command, _ []string) error {
	return recordsSetup()
}

// recordsCmd focused on record store management.
//
// Note: Records subcommands use minimal initialization (recordsSetup) instead
// of the full sharedSetup used by search commands. This avoids scoring config
// processing for simple store operations.
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage the SR and incident record store",
	Long: `Manage the record store that the scoring engines search.

The store holds the SR and incident collections in SQLite (default), MySQL or
PostgreSQL. Records are imported from JSON exports of the source systems and
searched in place on every run.

Subcommands:
  import  - Load SR and incident records from a JSON file
  status  - Show store statistics and connection info
  clear   - Remove all stored records
  export  - Write stored records to Parquet files
  migrate - Run schema migrations on the store

Examples:
  # Load the sample dataset
  srnav records import sample_records.json

  # Check what is stored
  srnav records status`,
}

// recordsImportCmd loads records from a JSON file into the store.
var recordsImportCmd = &cobra.Command{
	Use:   "import <records-file>",
	Short: "Load SR and incident records from a JSON file",
	Long: `Parse a JSON records file and upsert its contents into the store.

The file carries two top-level arrays, "service_requests" and "incidents",
in the export shape of the source ticketing systems. Records are upserted by
ID, so re-importing a refreshed export updates changed records in place.

Examples:
  # Import into the default SQLite store
  srnav records import sample_records.json

  # Import into MySQL (set connection string via env variable)
  SRNAV_STORE_BACKEND=mysql SRNAV_STORE_DB_CONNECT="..." srnav records import sample_records.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: recordsSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		srs, incidents, err := recordstore.LoadRecordsFile(args[0])
		if err != nil {
			contract.LogFatal("Failed to parse records file", err)
		}
		if err := store.PutSRRecords(rootCtx, srs); err != nil {
			contract.LogFatal("Failed to store SR records", err)
		}
		if err := store.PutIncidentRecords(rootCtx, incidents); err != nil {
			contract.LogFatal("Failed to store incident records", err)
		}
		fmt.Printf("Imported %d SRs and %d incidents.\n", len(srs), len(incidents))
	},
}

// recordsStatusCmd shows store status.
var recordsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the record store.

Displays:
- Backend type and connection status
- SR and incident record counts
- Last import and newest record timestamps
- Store database size

Examples:
  # Check store status
  srnav records status`,
	PreRunE: recordsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := outwriter.PrintStoreStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print store status", err)
		}
	},
}

// recordsClearCmd clears the store.
var recordsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored SR and incident records",
	Long: `Delete all SR and incident records from the configured backend.

Use this when:
- Switching to a different source dataset
- The store may hold stale or corrupted records
- Testing import behavior from a clean slate

Examples:
  # Clear the SQLite store (default)
  srnav records clear

  # Clear the MySQL store (set connection string via env variable)
  SRNAV_STORE_BACKEND=mysql SRNAV_STORE_DB_CONNECT="..." srnav records clear`,
	PreRunE: recordsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear records", err)
		}
		fmt.Println("Records cleared successfully.")
	},
}

// recordsExportCmd exports stored records to Parquet.
var recordsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored records to Parquet files",
	Long: `Export the stored SR and incident collections as Parquet files for
analysis in DuckDB, pandas or BI tooling.

Each collection goes to its own file; pass one or both output paths.

Examples:
  # Export both collections
  srnav records export --sr-file srs.parquet --incident-file incidents.parquet

  # Export only incidents
  srnav records export --incident-file incidents.parquet`,
	PreRunE: recordsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		srFile := viper.GetString("sr-file")
		incidentFile := viper.GetString("incident-file")
		if srFile == "" && incidentFile == "" {
			contract.LogFatal("Nothing to export", fmt.Errorf("provide --sr-file and/or --incident-file"))
		}
		if srFile != "" {
			srs, err := store.SRRecords(rootCtx)
			if err != nil {
				contract.LogFatal("Failed to read SR records", err)
			}
			if err := parquet.WriteSRRecordsParquet(srs, srFile); err != nil {
				contract.LogFatal("Failed to export SR records", err)
			}
			fmt.Printf("Exported %d SRs to %s.\n", len(srs), srFile)
		}
		if incidentFile != "" {
			incidents, err := store.IncidentRecords(rootCtx)
			if err != nil {
				contract.LogFatal("Failed to read incident records", err)
			}
			if err := parquet.WriteIncidentRecordsParquet(incidents, incidentFile); err != nil {
				contract.LogFatal("Failed to export incident records", err)
			}
			fmt.Printf("Exported %d incidents to %s.\n", len(incidents), incidentFile)
		}
	},
}

// recordsMigrateCmd runs schema migrations on the store.
var recordsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the record store",
	Long: `Apply versioned schema migrations to the record store database.

By default migrates to the latest version. Use --target-version to move to a
specific version, or 0 to roll back to the initial state.

Examples:
  # Migrate to the latest schema
  srnav records migrate

  # Roll back everything
  srnav records migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Migrations manage the connection themselves, so only config and
		// connection-string validation happen here, no store open.
		if err := loadConfigFile(); err != nil {
			return err
		}
		backend := schema.DatabaseBackend(viper.GetString("store-backend"))
		connStr := viper.GetString("store-db-connect")
		if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
			return err
		}
		cfg.StoreBackend = backend
		cfg.StoreDBConnect = connStr
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := recordstore.MigrateRecords(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate record store", err)
		}
		fmt.Println("Record store migration completed successfully.")
	},
}
