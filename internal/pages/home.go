package pages

import (
	"context"
	"strconv"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/fixtures"
	"github.com/avtest-qa/booking-e2e/internal/interact"
	"github.com/avtest-qa/booking-e2e/internal/locator"
	"github.com/avtest-qa/booking-e2e/internal/manual"
)

var (
	homeClosePopup   = locator.ByXPath("//button[@aria-label='Cerrar' or @class='close-button' or text()='Aceptar']")
	homeOneWay       = locator.ByXPath("//span[text()='Solo ida']")
	homeOriginButton = locator.ByID("originBtn")
	homeOriginSearch = locator.ByID("departureStationInputId")
	homeDestSearch   = locator.ByID("arrivalStationInputId")
	homeSearchButton = locator.ByID("searchButton")
)

const (
	homeDateInputID = "date-departure-input"
	homeAdultsID    = "adults-selector"
	homeInfantsID   = "infants-selector"

	// ActionSearchCaptcha is the gate opened after the search is submitted.
	ActionSearchCaptcha = "search_captcha"
)

// HomePage is the flight search form.
type HomePage struct {
	page
}

func NewHomePage(d Deps) *HomePage {
	return &HomePage{page: newPage(d, "home")}
}

// Open navigates to the configured base URL.
func (p *HomePage) Open() error {
	return p.in.Navigate(p.cfg.URL(""))
}

// CloseInitialPopup dismisses the welcome or cookie banner when one shows up.
func (p *HomePage) CloseInitialPopup() {
	err := p.in.ClickWithFallback(homeClosePopup, "initial pop-up close", 10*time.Second)
	if err != nil {
		p.log.Info().Msg("no initial pop-up, continuing")
	}
}

func (p *HomePage) SelectOneWay() error {
	return p.in.ClickWithFallback(homeOneWay, "one-way trip", 10*time.Second)
}

// SearchFlight fills the search form for s, submits it and hands over to the
// operator for the bot check that follows the search.
func (p *HomePage) SearchFlight(ctx context.Context, s fixtures.Scenario) error {
	if err := p.pickCity(homeOriginButton, homeOriginSearch, s.Origin, "origin"); err != nil {
		return err
	}
	p.in.Pause(3500 * time.Millisecond)

	if err := p.pickCity(locator.Locator{}, homeDestSearch, s.Destination, "destination"); err != nil {
		return err
	}
	p.in.Pause(4 * time.Second)

	// the calendar and passenger widgets are bypassed; a missing field leaves
	// the site default in place
	p.in.BestEffort("departure date", func() error {
		return p.in.InjectValue(homeDateInputID, s.DepartureDate, "departure date")
	})
	p.in.Pause(time.Second)
	p.in.BestEffort("adults", func() error {
		return p.in.InjectValue(homeAdultsID, strconv.Itoa(s.Adults), "adults")
	})
	p.in.BestEffort("infants", func() error {
		return p.in.InjectValue(homeInfantsID, strconv.Itoa(s.Infants), "infants")
	})

	if err := p.in.Click(homeSearchButton, interact.Forced, "search flights", 0); err != nil {
		return err
	}
	p.in.Pause(5 * time.Second)

	return p.gate.Await(ctx, manual.Action{
		Name:         ActionSearchCaptcha,
		Instructions: "Bot verification expected: solve the CAPTCHA in the browser (checkbox, then Continue)",
		Window:       p.cfg.Manual.SearchCaptcha,
	})
}

// pickCity opens the city pop-up with opener (when set), types code into the
// search field and clicks the matching city, whose element id is the code.
func (p *HomePage) pickCity(opener, search locator.Locator, code, name string) error {
	if opener.Value != "" {
		if err := p.in.ClickWithFallback(opener, name+" button", 0); err != nil {
			return err
		}
	}
	if err := p.in.TypeWithClear(search, code, name+" search", 0); err != nil {
		return err
	}
	return p.in.ClickWithFallback(locator.ByID(code), name+" city "+code, 0)
}
