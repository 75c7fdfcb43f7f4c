package pages

import (
	"time"

	"github.com/avtest-qa/booking-e2e/internal/interact"
	"github.com/avtest-qa/booking-e2e/internal/locator"
)

var (
	selectFareOpener = locator.ByXPath("(//button[contains(@class, 'journey_price_button') and .//span[contains(text(), 'Seleccionar de tarifa')]])[1]")
	selectFareButton = locator.ByXPath("(//button[contains(@class, 'fare_button') and contains(., 'Seleccionar')])[1]")
)

const resultsScrollStep = 250

// SelectFlightPage lists the flights found by the search.
type SelectFlightPage struct {
	page
}

func NewSelectFlightPage(d Deps) *SelectFlightPage {
	return &SelectFlightPage{page: newPage(d, "select_flight")}
}

// ValidateSearchResults waits for the first flight's fare selector.
func (p *SelectFlightPage) ValidateSearchResults() error {
	p.in.Pause(5 * time.Second)
	if err := p.scrollDown(1); err != nil {
		return err
	}
	if _, err := p.in.WaitVisible(selectFareOpener, 20*time.Second); err != nil {
		p.log.Error().Err(err).Msg("no flight results or fare selector")
		return err
	}
	p.log.Info().Msg("search results loaded")
	return nil
}

// SelectCheapestFlight opens the first flight's fares and picks the first.
func (p *SelectFlightPage) SelectCheapestFlight() error {
	if err := p.in.ClickWithFallback(selectFareOpener, "fare selector", 0); err != nil {
		return err
	}
	if err := p.scrollDown(3); err != nil {
		return err
	}
	// the fare modal intercepts native clicks
	return p.in.Click(selectFareButton, interact.Forced, "select fare", 10*time.Second)
}

func (p *SelectFlightPage) scrollDown(times int) error {
	for n := 0; n < times; n++ {
		if err := p.in.ScrollBy(resultsScrollStep); err != nil {
			return err
		}
		p.in.Pause(500 * time.Millisecond)
	}
	return nil
}
