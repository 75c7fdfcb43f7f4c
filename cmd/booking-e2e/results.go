package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avtest-qa/booking-e2e/internal/config"
	"github.com/avtest-qa/booking-e2e/internal/logging"
	"github.com/avtest-qa/booking-e2e/internal/results"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect recorded results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every recorded run as a table",
	RunE:  runResultsList,
}

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to a spreadsheet",
	RunE:  runResultsExport,
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the result database",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the result table if it does not exist",
	RunE:  runDBInit,
}

var (
	xlsxPathFlag string
	dbPathFlag   string
)

var dbOverrides = map[string]string{"db": "database.path"}

func init() {
	resultsCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Result database path (overrides database.path)")
	dbCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Result database path (overrides database.path)")

	resultsExportCmd.Flags().StringVar(&xlsxPathFlag, "xlsx", "test_results.xlsx", "Output workbook path")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	dbCmd.AddCommand(dbInitCmd)
}

func openStore(cmd *cobra.Command) (*results.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd, dbOverrides)
	if err != nil {
		return nil, nil, err
	}
	log, _, err := logging.New(config.LoggingConfig{Level: "warn", Format: cfg.Logging.Format}, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	store, err := results.Open(context.Background(), cfg.Database.Path, log)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func runResultsList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.ReadAll(context.Background())
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No results recorded yet.")
		return nil
	}
	fmt.Print(results.FormatTable(all))
	return nil
}

func runResultsExport(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.ReadAll(context.Background())
	if err != nil {
		return err
	}
	if err := results.ExportXLSX(all, xlsxPathFlag); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	fmt.Printf("Exported %d runs to %s\n", len(all), xlsxPathFlag)
	return nil
}

func runDBInit(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Count(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Result table ready in %s (%d rows)\n", cfg.Database.Path, n)
	return nil
}
