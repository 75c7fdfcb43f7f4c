package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avtest-qa/booking-e2e/internal/config"
	"github.com/avtest-qa/booking-e2e/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "booking-e2e",
	Short: "End-to-end checks of the airline one-way booking flow",
	Long: `booking-e2e drives a real browser through the airline booking funnel
(search, flight selection, passenger details, services, seat map) up to
the payment hand-off, and records one result row per scenario in a local
SQLite database.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPathFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to booking.yaml or the directory holding it")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(dbCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("booking-e2e %s\n", version.Full())
	},
}

// loadConfig reads the configuration and applies overrides from flags that
// were set on cmd.
func loadConfig(cmd *cobra.Command, overrides map[string]string) (*config.Config, error) {
	v, err := config.New(configPathFlag)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, v, overrides)
	return config.FromViper(v)
}

// applyFlagOverrides maps flag names to config keys for flags the user set.
func applyFlagOverrides(cmd *cobra.Command, v *viper.Viper, overrides map[string]string) {
	for flag, key := range overrides {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		v.Set(key, f.Value.String())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
