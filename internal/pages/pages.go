// Package pages holds one page object per stage of the booking funnel.
// Page objects own their locators and the order of interactions; the
// retry policy lives in interact.
package pages

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/avtest-qa/booking-e2e/internal/config"
	"github.com/avtest-qa/booking-e2e/internal/interact"
	"github.com/avtest-qa/booking-e2e/internal/locator"
	"github.com/avtest-qa/booking-e2e/internal/logging"
	"github.com/avtest-qa/booking-e2e/internal/manual"
)

// continueButton is the primary action shared by most stages.
var continueButton = locator.ByXPath("//button[contains(., 'Continuar')]")

// Deps are what every page object is built from.
type Deps struct {
	Interactor *interact.Interactor
	Config     *config.Config
	Gate       manual.Gate
}

type page struct {
	in   *interact.Interactor
	cfg  *config.Config
	gate manual.Gate
	log  zerolog.Logger
}

func newPage(d Deps, name string) page {
	gate := d.Gate
	if gate == nil {
		gate = manual.NoopGate{}
	}
	return page{
		in:   d.Interactor,
		cfg:  d.Config,
		gate: gate,
		log:  logging.Component(d.Interactor.Logger(), name),
	}
}

// scroll moves the window by px and lets the layout settle.
func (p page) scroll(px int) error {
	if err := p.in.ScrollBy(px); err != nil {
		return err
	}
	p.in.Pause(time.Second)
	return nil
}

// scrollAndContinue brings the Continue button into view and clicks it.
func (p page) scrollAndContinue(name string) error {
	if err := p.in.ScrollIntoView(continueButton, name, 10*time.Second); err != nil {
		return err
	}
	p.in.Pause(time.Second)
	return p.in.ClickWithFallback(continueButton, name, 0)
}
