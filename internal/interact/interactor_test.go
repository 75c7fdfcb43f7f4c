package interact

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtest-qa/booking-e2e/internal/browser"
	"github.com/avtest-qa/booking-e2e/internal/browser/browsertest"
	"github.com/avtest-qa/booking-e2e/internal/config"
	"github.com/avtest-qa/booking-e2e/internal/diagnostics"
	"github.com/avtest-qa/booking-e2e/internal/locator"
)

type harness struct {
	driver *browsertest.Driver
	sink   *diagnostics.MemorySink
	pauses []time.Duration
	i      *Interactor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{driver: browsertest.NewDriver(), sink: diagnostics.NewMemorySink()}
	h.i = New(h.driver, Options{
		Pacing: config.PacingConfig{Scale: 1},
		Logger: zerolog.Nop(),
		Sink:   h.sink,
		Sleep:  func(d time.Duration) { h.pauses = append(h.pauses, d) },
	})
	return h
}

func TestWaitVisible(t *testing.T) {
	t.Run("returns visible element", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("searchButton")
		want := h.driver.Add(loc, browsertest.Visible("search"))

		el, err := h.i.WaitVisible(loc, time.Second)
		require.NoError(t, err)
		assert.Same(t, want, el)
	})

	t.Run("missing element is ElementNotFoundError", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("missing")

		_, err := h.i.WaitVisible(loc, 2*time.Second)
		var nf *ElementNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, loc, nf.Locator)
		assert.Equal(t, 2*time.Second, nf.Timeout)
		assert.ErrorIs(t, err, browser.ErrNotVisible)
	})

	t.Run("zero timeout uses default", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.i.WaitVisible(locator.ByID("missing"), 0)
		var nf *ElementNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, 25*time.Second, nf.Timeout)
	})

	t.Run("hidden element is not found", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("hidden")
		h.driver.Add(loc, &browsertest.Element{Hidden: true})

		_, err := h.i.WaitVisible(loc, time.Second)
		var nf *ElementNotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestIsVisibleQuick(t *testing.T) {
	h := newHarness(t)
	present := locator.ByXPath("//span[text()='Solo ida']")
	h.driver.Add(present, browsertest.Visible("one-way"))

	assert.True(t, h.i.IsVisibleQuick(present, 0))
	assert.False(t, h.i.IsVisibleQuick(locator.ByID("absent"), 0))
}

func TestClickWithFallback(t *testing.T) {
	t.Run("unobstructed element gets a standard click", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("originBtn")
		el := h.driver.Add(loc, browsertest.Visible("origin"))

		require.NoError(t, h.i.ClickWithFallback(loc, "origin", 0))
		assert.Equal(t, 1, el.NativeClicks)
		assert.Equal(t, 0, el.ForcedClicks)
		assert.Equal(t, 1, el.TrialClicks)
		assert.Equal(t, Stats{StandardClicks: 1}, h.i.Stats())
	})

	t.Run("obstructed probe selects forced click", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("searchButton")
		el := h.driver.Add(loc, &browsertest.Element{Obstructed: true})

		require.NoError(t, h.i.ClickWithFallback(loc, "search", 0))
		assert.Equal(t, 0, el.NativeClicks)
		assert.Equal(t, 1, el.ForcedClicks)
		stats := h.i.Stats()
		assert.Equal(t, 1, stats.FallbackClicks)
		assert.Equal(t, stats.Interceptions, stats.FallbackClicks)
	})

	t.Run("native click intercepted after clean probe falls back", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("continue")
		el := h.driver.Add(loc, &browsertest.Element{ObstructedOnClick: true})

		require.NoError(t, h.i.ClickWithFallback(loc, "continue", 0))
		assert.Equal(t, 1, el.ForcedClicks)
		assert.Equal(t, Stats{FallbackClicks: 1, Interceptions: 1}, h.i.Stats())
	})

	t.Run("other click errors are not retried", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("detached")
		el := h.driver.Add(loc, &browsertest.Element{ClickErr: errors.New("element is detached")})

		err := h.i.ClickWithFallback(loc, "detached", 0)
		var ie *InteractionError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "click", ie.Action)
		assert.Equal(t, 0, el.ForcedClicks)
		assert.Equal(t, 0, h.i.Stats().FallbackClicks)
	})

	t.Run("non-interception probe failure is logged at debug", func(t *testing.T) {
		var buf bytes.Buffer
		driver := browsertest.NewDriver()
		loc := locator.ByID("disabledContinue")
		driver.Add(loc, &browsertest.Element{ClickErr: errors.New("element is not enabled")})
		i := New(driver, Options{Logger: zerolog.New(&buf).Level(zerolog.DebugLevel), Sleep: func(time.Duration) {}})

		require.Error(t, i.ClickWithFallback(loc, "continue", 0))
		assert.Contains(t, buf.String(), `"level":"debug"`)
		assert.Contains(t, buf.String(), "element is not enabled")
		assert.Contains(t, buf.String(), `"element":"continue"`)
		assert.Equal(t, 0, i.Stats().Interceptions)
	})

	t.Run("failed forced click is InteractionError", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("broken")
		h.driver.Add(loc, &browsertest.Element{Obstructed: true, ForceErr: errors.New("node gone")})

		err := h.i.ClickWithFallback(loc, "broken", 0)
		var ie *InteractionError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "broken", ie.Name)
		assert.Equal(t, loc, ie.Locator)
	})

	t.Run("missing element does not mutate anything", func(t *testing.T) {
		h := newHarness(t)
		other := h.driver.Add(locator.ByID("other"), browsertest.Visible("other"))

		err := h.i.ClickWithFallback(locator.ByID("missing"), "missing", time.Second)
		var nf *ElementNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Empty(t, h.driver.Log)
		assert.Equal(t, 0, other.Clicks())
		assert.Equal(t, Stats{}, h.i.Stats())
	})
}

func TestClick(t *testing.T) {
	h := newHarness(t)
	std := h.driver.Add(locator.ByID("std"), browsertest.Visible("std"))
	forced := h.driver.Add(locator.ByID("forced"), browsertest.Visible("forced"))

	require.NoError(t, h.i.Click(locator.ByID("std"), Standard, "std", 0))
	require.NoError(t, h.i.Click(locator.ByID("forced"), Forced, "forced", 0))

	assert.Equal(t, 1, std.NativeClicks)
	assert.Equal(t, 0, std.TrialClicks)
	assert.Equal(t, 1, forced.ForcedClicks)
	assert.Equal(t, Stats{StandardClicks: 1, ForcedClicks: 1}, h.i.Stats())
	assert.Equal(t, []string{"click:std", "force-click:forced"}, h.driver.Log)
}

func TestType(t *testing.T) {
	t.Run("standard clears and types", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("email")
		el := h.driver.Add(loc, &browsertest.Element{Value: "old@example.com"})

		require.NoError(t, h.i.TypeWithClear(loc, "new@example.com", "email", 0))
		assert.Equal(t, "new@example.com", el.Value)
		assert.Empty(t, el.Events)
		assert.Empty(t, h.pauses)
	})

	t.Run("forced assigns value and fires input", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("phone_phoneNumberId")
		el := h.driver.Add(loc, browsertest.Visible("phone"))

		require.NoError(t, h.i.ForceType(loc, "3001234567", "phone", 0))
		assert.Equal(t, "3001234567", el.Value)
		assert.Equal(t, []string{"input"}, el.Events)
		assert.Equal(t, []time.Duration{1500 * time.Millisecond}, h.pauses)
	})

	t.Run("typing failure is InteractionError", func(t *testing.T) {
		h := newHarness(t)
		loc := locator.ByID("name")
		h.driver.Add(loc, &browsertest.Element{TypeErr: errors.New("not editable")})

		err := h.i.TypeWithClear(loc, "Juan", "name", 0)
		var ie *InteractionError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "type", ie.Action)
	})

	t.Run("missing field", func(t *testing.T) {
		h := newHarness(t)
		err := h.i.ForceType(locator.ByID("nope"), "x", "nope", time.Second)
		var nf *ElementNotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestInjectValue(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.i.InjectValue("departureStationInputId", "BOG", "origin"))
	require.Len(t, h.driver.Scripts, 1)
	assert.Equal(t, []string{"departureStationInputId", "BOG"}, h.driver.Scripts[0].Arg)

	h.driver.ScriptErr = func(string, any) error { return errors.New("element #gone not found") }
	err := h.i.InjectValue("gone", "x", "gone")
	var ie *InteractionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, locator.ByID("gone"), ie.Locator)
}

func TestScroll(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.i.ScrollBy(-80))
	require.NoError(t, h.i.ScrollToBottom())
	require.Len(t, h.driver.Scripts, 2)
	assert.Equal(t, -80, h.driver.Scripts[0].Arg)

	loc := locator.ByID("continue")
	el := h.driver.Add(loc, browsertest.Visible("continue"))
	require.NoError(t, h.i.ScrollIntoView(loc, "continue", 0))
	assert.Equal(t, 1, el.ScrolledIntoView)
}

func TestPauseScaling(t *testing.T) {
	h := newHarness(t)
	h.i.Pause(2 * time.Second)

	fast := New(h.driver, Options{
		Pacing: config.PacingConfig{Scale: 0.5},
		Logger: zerolog.Nop(),
		Sleep:  func(d time.Duration) { h.pauses = append(h.pauses, d) },
	})
	fast.Pause(2 * time.Second)

	off := New(h.driver, Options{
		Logger: zerolog.Nop(),
		Sleep:  func(d time.Duration) { h.pauses = append(h.pauses, d) },
	})
	off.Pause(2 * time.Second)

	assert.Equal(t, []time.Duration{2 * time.Second, time.Second}, h.pauses)
}

func TestCaptureDiagnostic(t *testing.T) {
	t.Run("attaches screenshot", func(t *testing.T) {
		h := newHarness(t)
		h.i.CaptureDiagnostic("functional_failure")
		assert.Equal(t, []string{"functional_failure"}, h.sink.Names())
	})

	t.Run("screenshot failure is swallowed", func(t *testing.T) {
		h := newHarness(t)
		h.driver.ScreenshotErr = errors.New("page closed")
		assert.NotPanics(t, func() { h.i.CaptureDiagnostic("functional_failure") })
		assert.Empty(t, h.sink.Names())
	})

	t.Run("no sink", func(t *testing.T) {
		i := New(browsertest.NewDriver(), Options{Logger: zerolog.Nop()})
		assert.NotPanics(t, func() { i.CaptureDiagnostic("x") })
	})
}

func TestBestEffort(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.i.BestEffort("doc type", func() error { return nil }))
	assert.False(t, h.i.BestEffort("doc type", func() error { return errors.New("boom") }))
}

func TestErrorMessages(t *testing.T) {
	loc := locator.ByID("searchButton")
	nf := &ElementNotFoundError{Locator: loc, Timeout: time.Second, Err: browser.ErrNotVisible}
	assert.Contains(t, nf.Error(), "(id, searchButton)")

	ie := &InteractionError{Action: "click", Name: "search", Locator: loc, Err: browser.ErrClickIntercepted}
	assert.ErrorIs(t, ie, browser.ErrClickIntercepted)

	se := &SelectionError{Control: "month", Option: "Febrero", Err: browser.ErrNotVisible}
	assert.Contains(t, se.Error(), `"Febrero"`)
	assert.ErrorIs(t, se, browser.ErrNotVisible)
}
