package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtest-qa/booking-e2e/internal/booking"
	"github.com/avtest-qa/booking-e2e/internal/config"
	"github.com/avtest-qa/booking-e2e/internal/fixtures"
	"github.com/avtest-qa/booking-e2e/internal/manual"
	"github.com/avtest-qa/booking-e2e/internal/metrics"
	"github.com/avtest-qa/booking-e2e/internal/results"
)

type scenarioCall struct {
	route    string
	recorder booking.Recorder
}

// stubScenarios replaces the browser-driven scenario runner for the test.
func stubScenarios(t *testing.T) *[]scenarioCall {
	t.Helper()
	orig := executeScenario
	t.Cleanup(func() { executeScenario = orig })

	calls := &[]scenarioCall{}
	executeScenario = func(_ context.Context, _ *config.Config, s fixtures.Scenario, _ manual.Gate,
		rec booking.Recorder, _ *metrics.Metrics, _ zerolog.Logger) error {
		*calls = append(*calls, scenarioCall{route: s.Route(), recorder: rec})
		return nil
	}
	return calls
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("BOOKING_LOGGING_FILE", filepath.Join(t.TempDir(), "test_execution.log"))
	// flag values outlive Execute on the shared command tree
	require.NoError(t, runCmd.Flags().Lookup("scenario").Value.(pflag.SliceValue).Replace(nil))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return rootCmd.Execute()
}

func TestRunWithoutResultStore(t *testing.T) {
	calls := stubScenarios(t)

	// a regular file where the database directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	t.Setenv("BOOKING_DATABASE_PATH", filepath.Join(blocker, "test_results.db"))

	require.NoError(t, runCLI(t, "run", "--manual", "none", "--scenario", "BOG-CTG"))

	require.Len(t, *calls, 1)
	assert.Equal(t, "BOG-CTG", (*calls)[0].route)
	assert.Nil(t, (*calls)[0].recorder, "scenarios run unrecorded when the store cannot open")
}

func TestRunWithResultStore(t *testing.T) {
	calls := stubScenarios(t)
	t.Setenv("BOOKING_DATABASE_PATH", filepath.Join(t.TempDir(), "test_results.db"))

	require.NoError(t, runCLI(t, "run", "--manual", "none", "--scenario", "BOG-CTG", "--scenario", "MDE-SCL"))

	require.Len(t, *calls, 2)
	assert.Equal(t, "MDE-SCL", (*calls)[1].route)
	assert.IsType(t, &results.Store{}, (*calls)[0].recorder)
}
