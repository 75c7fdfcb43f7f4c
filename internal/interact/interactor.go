// Package interact provides retry-tolerant primitives for locating and
// manipulating elements on a slow, overlay-heavy UI. Every primitive has two
// strategies: Standard, the native browser interaction, and Forced, a direct
// DOM manipulation that bypasses hit-testing and simulated input.
package interact

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/avtest-qa/booking-e2e/internal/browser"
	"github.com/avtest-qa/booking-e2e/internal/config"
	"github.com/avtest-qa/booking-e2e/internal/diagnostics"
	"github.com/avtest-qa/booking-e2e/internal/locator"
	"github.com/avtest-qa/booking-e2e/internal/metrics"
)

// Strategy selects how an interaction is performed.
type Strategy int

const (
	Standard Strategy = iota
	Forced
)

func (s Strategy) String() string {
	if s == Forced {
		return "forced"
	}
	return "standard"
}

// Stats counts click paths taken since the Interactor was created.
type Stats struct {
	// StandardClicks are native clicks that landed.
	StandardClicks int
	// FallbackClicks are forced clicks ClickWithFallback took after an
	// interception.
	FallbackClicks int
	// Interceptions are native clicks (or probes) reported as obstructed.
	Interceptions int
	// ForcedClicks are forced clicks requested explicitly by a call site.
	ForcedClicks int
}

// Options configures an Interactor.
type Options struct {
	Timeouts config.TimeoutsConfig
	Pacing   config.PacingConfig
	Logger   zerolog.Logger
	Sink     diagnostics.Sink
	Metrics  *metrics.Metrics
	// Sleep replaces time.Sleep for pauses.
	Sleep func(time.Duration)
}

// Interactor is not safe for concurrent use; one drives one page.
type Interactor struct {
	driver   browser.Driver
	timeouts config.TimeoutsConfig
	pacing   config.PacingConfig
	log      zerolog.Logger
	sink     diagnostics.Sink
	metrics  *metrics.Metrics
	sleep    func(time.Duration)
	stats    Stats
}

func New(driver browser.Driver, opts Options) *Interactor {
	if opts.Timeouts.Default <= 0 {
		opts.Timeouts.Default = 25 * time.Second
	}
	if opts.Timeouts.Probe <= 0 {
		opts.Timeouts.Probe = time.Second
	}
	if opts.Timeouts.ClickProbe <= 0 {
		opts.Timeouts.ClickProbe = 3 * time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Interactor{
		driver:   driver,
		timeouts: opts.Timeouts,
		pacing:   opts.Pacing,
		log:      opts.Logger,
		sink:     opts.Sink,
		metrics:  opts.Metrics,
		sleep:    opts.Sleep,
	}
}

// Driver returns the underlying driver.
func (i *Interactor) Driver() browser.Driver {
	return i.driver
}

// Logger returns the interactor's logger for page objects to share.
func (i *Interactor) Logger() zerolog.Logger {
	return i.log
}

func (i *Interactor) Stats() Stats {
	return i.stats
}

func (i *Interactor) timeout(t time.Duration) time.Duration {
	if t <= 0 {
		return i.timeouts.Default
	}
	return t
}

// Navigate opens url.
func (i *Interactor) Navigate(url string) error {
	if err := i.driver.Navigate(url); err != nil {
		return &InteractionError{Action: "navigate", Name: url, Err: err}
	}
	i.log.Info().Str("url", url).Msg("navigation completed")
	return nil
}

// WaitVisible waits up to timeout (0 for the default) for loc to be visible.
func (i *Interactor) WaitVisible(loc locator.Locator, timeout time.Duration) (browser.Element, error) {
	timeout = i.timeout(timeout)
	el, err := i.driver.Find(loc, timeout)
	if err != nil {
		if errors.Is(err, browser.ErrNotVisible) {
			i.log.Error().Stringer("locator", loc).Dur("timeout", timeout).Msg("timed out waiting for element")
			return nil, &ElementNotFoundError{Locator: loc, Timeout: timeout, Err: err}
		}
		return nil, &InteractionError{Action: "wait", Locator: loc, Err: err}
	}
	return el, nil
}

// IsVisibleQuick reports whether loc becomes visible within timeout (0 for
// the probe default). Absence is not an error.
func (i *Interactor) IsVisibleQuick(loc locator.Locator, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = i.timeouts.Probe
	}
	_, err := i.driver.Find(loc, timeout)
	return err == nil
}

// ClickWithFallback waits for loc and clicks it natively. When the native
// click is obstructed by another element it falls back to a forced click.
func (i *Interactor) ClickWithFallback(loc locator.Locator, name string, timeout time.Duration) error {
	el, err := i.WaitVisible(loc, timeout)
	if err != nil {
		return err
	}

	strategy, err := i.probeClick(el, name)
	if err != nil {
		i.log.Error().Err(err).Str("element", name).Stringer("locator", loc).Msg("click failed")
		return &InteractionError{Action: "click", Name: name, Locator: loc, Err: err}
	}

	if strategy == Standard {
		err = el.Click(i.timeouts.ClickProbe)
		if err == nil {
			i.stats.StandardClicks++
			i.metrics.Interaction("click", Standard.String())
			i.log.Info().Str("element", name).Stringer("locator", loc).Str("strategy", "standard").Msg("clicked")
			return nil
		}
		if !errors.Is(err, browser.ErrClickIntercepted) {
			i.log.Error().Err(err).Str("element", name).Stringer("locator", loc).Msg("click failed")
			return &InteractionError{Action: "click", Name: name, Locator: loc, Err: err}
		}
		i.stats.Interceptions++
		i.log.Warn().Str("element", name).Stringer("locator", loc).Msg("click intercepted, forcing")
	}

	if err := el.ForceClick(); err != nil {
		i.log.Error().Err(err).Str("element", name).Stringer("locator", loc).Msg("forced click failed")
		return &InteractionError{Action: "click", Name: name, Locator: loc, Err: err}
	}
	i.stats.FallbackClicks++
	i.metrics.Interaction("click", Forced.String())
	i.log.Info().Str("element", name).Stringer("locator", loc).Str("strategy", "forced").Msg("clicked")
	return nil
}

// probeClick is the capability probe: a trial native click selects Standard
// unless the element is obstructed.
func (i *Interactor) probeClick(el browser.Element, name string) (Strategy, error) {
	err := el.CanClick(i.timeouts.ClickProbe)
	switch {
	case err == nil:
		return Standard, nil
	case errors.Is(err, browser.ErrClickIntercepted):
		i.stats.Interceptions++
		return Forced, nil
	default:
		i.log.Debug().Err(err).Str("element", name).Dur("probe_timeout", i.timeouts.ClickProbe).Msg("click probe failed without interception")
		return Standard, err
	}
}

// Click waits for loc and clicks it with the given strategy, without fallback.
func (i *Interactor) Click(loc locator.Locator, strategy Strategy, name string, timeout time.Duration) error {
	el, err := i.WaitVisible(loc, timeout)
	if err != nil {
		return err
	}
	if strategy == Forced {
		return i.ForceClickElement(el, name)
	}
	if err := el.Click(i.timeout(timeout)); err != nil {
		i.log.Error().Err(err).Str("element", name).Stringer("locator", loc).Msg("click failed")
		return &InteractionError{Action: "click", Name: name, Locator: loc, Err: err}
	}
	i.stats.StandardClicks++
	i.metrics.Interaction("click", Standard.String())
	i.log.Info().Str("element", name).Stringer("locator", loc).Str("strategy", "standard").Msg("clicked")
	return nil
}

// ForceClickElement dispatches a forced click on an already located element.
func (i *Interactor) ForceClickElement(el browser.Element, name string) error {
	if err := el.ForceClick(); err != nil {
		i.log.Error().Err(err).Str("element", name).Msg("forced click failed")
		return &InteractionError{Action: "click", Name: name, Err: err}
	}
	i.stats.ForcedClicks++
	i.metrics.Interaction("click", Forced.String())
	i.log.Info().Str("element", name).Str("strategy", "forced").Msg("clicked")
	return nil
}

// TypeWithClear waits for loc, clears it and types value as keystrokes.
func (i *Interactor) TypeWithClear(loc locator.Locator, value, name string, timeout time.Duration) error {
	return i.Type(loc, value, Standard, name, timeout)
}

// ForceType waits for loc, assigns value directly and fires a bubbling
// input event, for fields whose client-side framework drops keystrokes.
func (i *Interactor) ForceType(loc locator.Locator, value, name string, timeout time.Duration) error {
	return i.Type(loc, value, Forced, name, timeout)
}

// Type enters value into loc with the given strategy.
func (i *Interactor) Type(loc locator.Locator, value string, strategy Strategy, name string, timeout time.Duration) error {
	el, err := i.WaitVisible(loc, timeout)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		if strategy == Standard {
			return &InteractionError{Action: "type", Name: name, Locator: loc, Err: err}
		}
		// the assigned value replaces whatever clear could not remove
		i.log.Debug().Err(err).Str("element", name).Msg("clear failed before forced type")
	}

	if strategy == Standard {
		if err := el.Type(value); err != nil {
			i.log.Error().Err(err).Str("element", name).Stringer("locator", loc).Msg("type failed")
			return &InteractionError{Action: "type", Name: name, Locator: loc, Err: err}
		}
	} else {
		if err := el.SetValue(value); err != nil {
			return &InteractionError{Action: "type", Name: name, Locator: loc, Err: err}
		}
		if err := el.Dispatch("input"); err != nil {
			return &InteractionError{Action: "type", Name: name, Locator: loc, Err: err}
		}
	}
	i.metrics.Interaction("type", strategy.String())
	i.log.Info().Str("element", name).Stringer("locator", loc).Str("strategy", strategy.String()).Msg("typed")
	if strategy == Forced {
		i.Pause(1500 * time.Millisecond)
	}
	return nil
}

// InjectValue assigns value to the element with the given id through a
// page script. It fails when no such element exists.
func (i *Interactor) InjectValue(id, value, name string) error {
	const script = `([id, v]) => {
	const el = document.getElementById(id);
	if (!el) { throw new Error('element #' + id + ' not found'); }
	el.value = v;
}`
	if _, err := i.driver.ExecuteScript(script, []string{id, value}); err != nil {
		return &InteractionError{Action: "inject", Name: name, Locator: locator.ByID(id), Err: err}
	}
	i.metrics.Interaction("inject", Forced.String())
	i.log.Info().Str("element", name).Str("value", value).Msg("value injected")
	return nil
}

// ScrollIntoView waits for loc and aligns it with the top of the viewport.
func (i *Interactor) ScrollIntoView(loc locator.Locator, name string, timeout time.Duration) error {
	el, err := i.WaitVisible(loc, timeout)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return &InteractionError{Action: "scroll", Name: name, Locator: loc, Err: err}
	}
	return nil
}

// ScrollBy scrolls the window vertically; negative px scrolls up.
func (i *Interactor) ScrollBy(px int) error {
	if _, err := i.driver.ExecuteScript("px => window.scrollBy(0, px)", px); err != nil {
		return &InteractionError{Action: "scroll", Name: "window", Err: err}
	}
	i.log.Debug().Int("px", px).Msg("scrolled")
	return nil
}

// ScrollToBottom moves the viewport to the end of the document.
func (i *Interactor) ScrollToBottom() error {
	if _, err := i.driver.ExecuteScript("() => window.scrollTo(0, document.body.scrollHeight)", nil); err != nil {
		return &InteractionError{Action: "scroll", Name: "window", Err: err}
	}
	return nil
}

// FindAll returns the elements currently matching loc.
func (i *Interactor) FindAll(loc locator.Locator) ([]browser.Element, error) {
	elems, err := i.driver.FindAll(loc)
	if err != nil {
		return nil, &InteractionError{Action: "find", Locator: loc, Err: err}
	}
	return elems, nil
}

// Pause sleeps for d scaled by the pacing factor.
func (i *Interactor) Pause(d time.Duration) {
	if d = i.pacing.Pause(d); d > 0 {
		i.sleep(d)
	}
}

// CaptureDiagnostic attaches a screenshot of the page under name. Failures
// are logged and swallowed.
func (i *Interactor) CaptureDiagnostic(name string) {
	if i.sink == nil {
		i.log.Warn().Str("name", name).Msg("no diagnostic sink, screenshot skipped")
		return
	}
	data, err := i.driver.Screenshot()
	if err != nil {
		i.log.Error().Err(err).Str("name", name).Msg("failed to take screenshot")
		return
	}
	if err := i.sink.Attach(name, data, diagnostics.MediaTypePNG); err != nil {
		i.log.Error().Err(err).Str("name", name).Msg("failed to attach screenshot")
		return
	}
	i.log.Info().Str("name", name).Int("bytes", len(data)).Msg("screenshot attached")
}

// BestEffort runs fn and logs a warning instead of failing. It reports
// whether fn succeeded.
func (i *Interactor) BestEffort(step string, fn func() error) bool {
	if err := fn(); err != nil {
		i.log.Warn().Err(err).Str("step", step).Msg("best-effort step failed, continuing")
		return false
	}
	return true
}
