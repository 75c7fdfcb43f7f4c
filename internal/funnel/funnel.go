// Package funnel drives the booking pages in their fixed order: home,
// search results, (flight details), passenger details, services, seat map
// and the payment hand-off.
package funnel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/avtest-qa/booking-e2e/internal/metrics"
)

// State is a stage of the booking funnel.
type State int

const (
	Home State = iota
	SearchResults
	FlightDetails
	PassengerDetails
	Services
	Seatmap
	Payment
)

var stateNames = [...]string{
	Home:             "home",
	SearchResults:    "search_results",
	FlightDetails:    "flight_details",
	PassengerDetails: "passenger_details",
	Services:         "services",
	Seatmap:          "seatmap",
	Payment:          "payment",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// FailureDiagnostic is the name of the screenshot taken when a step fails.
const FailureDiagnostic = "functional_failure"

// ErrOutOfOrder is returned for step lists that revisit or go back to a state.
var ErrOutOfOrder = errors.New("funnel: steps must move strictly forward")

// Step is one stage: Validate confirms the page loaded, Act completes it and
// moves the browser to the next stage. Either may be nil.
type Step struct {
	State    State
	Validate func(ctx context.Context) error
	Act      func(ctx context.Context) error
}

// StepError is a functional failure in one stage.
type StepError struct {
	State State
	// Phase is "validate" or "act".
	Phase string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("funnel: %s failed to %s: %v", e.State, e.Phase, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Diagnoser captures the page state after a failure.
type Diagnoser interface {
	CaptureDiagnostic(name string)
}

type Options struct {
	Logger    zerolog.Logger
	Diagnoser Diagnoser
	Metrics   *metrics.Metrics
	// Now replaces time.Now for step timings.
	Now func() time.Time
}

// Runner runs a step list once per Run call.
type Runner struct {
	log     zerolog.Logger
	diag    Diagnoser
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewRunner(opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{log: opts.Logger, diag: opts.Diagnoser, metrics: opts.Metrics, now: opts.Now}
}

// CheckOrder reports ErrOutOfOrder unless states strictly increase.
func CheckOrder(steps []Step) error {
	for i := 1; i < len(steps); i++ {
		if steps[i].State <= steps[i-1].State {
			return fmt.Errorf("%w: %s after %s", ErrOutOfOrder, steps[i].State, steps[i-1].State)
		}
	}
	return nil
}

// Run executes steps in order and stops at the first failure. It returns
// the state it stopped in: the last step's on success, the failing one's
// otherwise. A failing step yields a *StepError after a FailureDiagnostic
// is captured. Cancellation is checked before every step.
func (r *Runner) Run(ctx context.Context, steps []Step) (State, error) {
	if len(steps) == 0 {
		return Home, errors.New("funnel: no steps")
	}
	if err := CheckOrder(steps); err != nil {
		return steps[0].State, err
	}

	state := steps[0].State
	for _, step := range steps {
		state = step.State
		if err := ctx.Err(); err != nil {
			r.log.Warn().Stringer("state", state).Msg("run cancelled")
			return state, fmt.Errorf("funnel: cancelled before %s: %w", state, err)
		}

		r.log.Info().Stringer("state", state).Msg("entering state")
		start := r.now()
		phase, err := r.runStep(ctx, step)
		r.metrics.Step(state.String(), r.now().Sub(start))
		if err != nil {
			r.log.Error().Err(err).Stringer("state", state).Str("phase", phase).Msg("functional failure in booking flow")
			if r.diag != nil {
				r.diag.CaptureDiagnostic(FailureDiagnostic)
			}
			return state, &StepError{State: state, Phase: phase, Err: err}
		}
		r.log.Info().Stringer("state", state).Dur("took", r.now().Sub(start)).Msg("state completed")
	}
	return state, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) (string, error) {
	if step.Validate != nil {
		if err := step.Validate(ctx); err != nil {
			return "validate", err
		}
	}
	if step.Act != nil {
		if err := step.Act(ctx); err != nil {
			return "act", err
		}
	}
	return "", nil
}
