package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/avtest-qa/booking-e2e/internal/config"
	"github.com/avtest-qa/booking-e2e/internal/fixtures"
	"github.com/avtest-qa/booking-e2e/internal/funnel"
	"github.com/avtest-qa/booking-e2e/internal/interact"
	"github.com/avtest-qa/booking-e2e/internal/manual"
	"github.com/avtest-qa/booking-e2e/internal/metrics"
	"github.com/avtest-qa/booking-e2e/internal/pages"
	"github.com/avtest-qa/booking-e2e/internal/results"
)

// Recorder stores run outcomes. Failures are its own concern.
type Recorder interface {
	Insert(ctx context.Context, o results.TestOutcome) bool
}

type Options struct {
	Config     *config.Config
	Interactor *interact.Interactor
	Gate       manual.Gate
	// Store may be nil, leaving runs unrecorded.
	Store   Recorder
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
	// Now replaces time.Now for run timing.
	Now func() time.Time
}

// Runner executes scenarios on one browser page.
type Runner struct {
	opts Options
	log  zerolog.Logger
}

func NewRunner(opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts, log: opts.Logger}
}

// Execute runs the booking flow for s and records exactly one outcome for
// it, whatever happens. It returns the flow error, if any, after recording.
func (r *Runner) Execute(ctx context.Context, s fixtures.Scenario) error {
	name := s.TestName()
	log := r.log.With().Str("test_name", name).Logger()
	start := r.opts.Now()

	deps := pages.Deps{Interactor: r.opts.Interactor, Config: r.opts.Config, Gate: r.opts.Gate}
	fr := funnel.NewRunner(funnel.Options{
		Logger:    log,
		Diagnoser: r.opts.Interactor,
		Metrics:   r.opts.Metrics,
		Now:       r.opts.Now,
	})

	log.Info().Str("route", s.Route()).Int("adults", s.Adults).Int("infants", s.Infants).Msg("starting booking flow")
	final, err := fr.Run(ctx, Flow(deps, s))

	outcome := results.TestOutcome{
		TestName:  name,
		Result:    results.Pass,
		Duration:  r.opts.Now().Sub(start).Seconds(),
		Origin:    s.Origin,
		Timestamp: r.opts.Now(),
	}
	if err != nil {
		outcome.Result = results.Fail
	}

	// recording must survive a cancelled run
	if r.opts.Store != nil {
		r.opts.Store.Insert(context.WithoutCancel(ctx), outcome)
	}
	r.opts.Metrics.Run(name, string(outcome.Result))

	stats := r.opts.Interactor.Stats()
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Str("result", string(outcome.Result)).
		Stringer("final_state", final).
		Float64("duration_s", outcome.Duration).
		Int("standard_clicks", stats.StandardClicks).
		Int("fallback_clicks", stats.FallbackClicks).
		Int("interceptions", stats.Interceptions).
		Int("forced_clicks", stats.ForcedClicks).
		Msg("booking flow finished")
	return err
}
