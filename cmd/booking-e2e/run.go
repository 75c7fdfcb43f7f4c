package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/avtest-qa/booking-e2e/internal/booking"
	"github.com/avtest-qa/booking-e2e/internal/browser"
	"github.com/avtest-qa/booking-e2e/internal/config"
	"github.com/avtest-qa/booking-e2e/internal/database"
	"github.com/avtest-qa/booking-e2e/internal/diagnostics"
	"github.com/avtest-qa/booking-e2e/internal/fixtures"
	"github.com/avtest-qa/booking-e2e/internal/interact"
	"github.com/avtest-qa/booking-e2e/internal/logging"
	"github.com/avtest-qa/booking-e2e/internal/manual"
	"github.com/avtest-qa/booking-e2e/internal/metrics"
	"github.com/avtest-qa/booking-e2e/internal/results"
	"github.com/avtest-qa/booking-e2e/internal/version"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the booking scenarios in a browser",
	Long: `Run launches a fresh browser per scenario and walks the booking funnel.
Manual steps (CAPTCHA, confirmation clicks, payment capture) wait for the
operator according to manual.mode.`,
	Example: `  booking-e2e run --browser chromium --baseurl https://nuxqa4.avtest.ink/
  booking-e2e run --scenario BOG-CTG`,
	RunE: runScenarios,
}

var scenarioFlags []string

func init() {
	runCmd.Flags().String("browser", "", "Browser to drive: chromium, firefox or webkit")
	runCmd.Flags().String("baseurl", "", "Base URL of the environment under test")
	runCmd.Flags().Bool("headless", false, "Run the browser without a window")
	runCmd.Flags().String("manual", "", "Manual step mode: timed, prompt, file or none")
	runCmd.Flags().StringSliceVar(&scenarioFlags, "scenario", nil, "Only run these routes (ORIGIN-DEST), repeatable")
}

var runOverrides = map[string]string{
	"browser":  "browser.kind",
	"baseurl":  "base_url",
	"headless": "browser.headless",
	"manual":   "manual.mode",
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, runOverrides)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// verdicts do not depend on the store; without one, runs go unrecorded
	var recorder booking.Recorder
	store, err := results.Open(ctx, cfg.Database.Path, logging.Component(log, "results"))
	if err != nil {
		log.Error().Err(err).
			Str("path", cfg.Database.Path).
			Bool("connection", database.IsConnectionError(err)).
			Msg("result store unavailable, results will not be recorded")
	} else {
		defer store.Close()
		recorder = store
	}

	gate, err := manual.New(cfg.Manual, logging.Component(log, "manual"), os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	scenarios := fixtures.Filter(cfg.Scenarios, scenarioFlags)
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenario matches %v", scenarioFlags)
	}

	m := metrics.New()
	version.Fields(log.Info()).Str("base_url", cfg.BaseURL).Str("browser", cfg.Browser.Kind).Int("scenarios", len(scenarios)).Msg("starting run")

	failed := 0
	for _, s := range scenarios {
		if ctx.Err() != nil {
			log.Warn().Msg("interrupted, skipping remaining scenarios")
			break
		}
		if err := executeScenario(ctx, cfg, s, gate, recorder, m, log); err != nil {
			failed++
		}
	}

	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		log.Error().Err(err).Str("path", cfg.Metrics.Textfile).Msg("failed to write metrics textfile")
	}

	if store != nil {
		if all, err := store.ReadAll(context.WithoutCancel(ctx)); err == nil {
			sum := results.Summarize(all)
			log.Info().Int("stored_runs", sum.Total).Float64("pass_rate", sum.PassRate()).Msg("result store summary")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return ctx.Err()
}

// executeScenario is swapped out by tests that run without a browser.
var executeScenario = runScenario

// runScenario owns one browser session for one scenario. A nil recorder
// leaves the run unrecorded.
func runScenario(ctx context.Context, cfg *config.Config, s fixtures.Scenario, gate manual.Gate,
	recorder booking.Recorder, m *metrics.Metrics, log zerolog.Logger) error {
	log = log.With().Str("test_name", s.TestName()).Logger()

	session, err := browser.Launch(cfg.Browser)
	if err != nil {
		log.Error().Err(err).Msg("browser launch failed")
		return err
	}
	defer session.Close()

	var sink diagnostics.Sink
	fileSink, err := diagnostics.NewFileSink(cfg.Diagnostics.Dir, s.TestName())
	if err != nil {
		log.Warn().Err(err).Msg("diagnostics disabled")
	} else {
		sink = fileSink
		log.Info().Str("dir", fileSink.Dir()).Msg("diagnostics directory")
	}

	in := interact.New(session.Driver(), interact.Options{
		Timeouts: cfg.Timeouts,
		Pacing:   cfg.Pacing,
		Logger:   logging.Component(log, "interact"),
		Sink:     sink,
		Metrics:  m,
	})
	runner := booking.NewRunner(booking.Options{
		Config:     cfg,
		Interactor: in,
		Gate:       gate,
		Store:      recorder,
		Metrics:    m,
		Logger:     logging.Component(log, "booking"),
	})

	err = runner.Execute(ctx, s)
	if errors.Is(err, context.Canceled) {
		log.Warn().Msg("scenario interrupted")
	}
	return err
}
