package pages

import (
	"time"

	"github.com/avtest-qa/booking-e2e/internal/locator"
)

var (
	detailsHeader       = locator.ByXPath("//div[contains(@class, 'journey-selector_selected-date')]")
	detailsDateSelector = locator.ByXPath("//div[contains(@class, 'journey-selector_selected-date') and .//span[contains(text(), 'noviembre') or contains(text(), 'diciembre')]]")
)

// FlightDetailsPage is the itinerary summary some site versions show before
// the passenger form.
type FlightDetailsPage struct {
	page
}

func NewFlightDetailsPage(d Deps) *FlightDetailsPage {
	return &FlightDetailsPage{page: newPage(d, "flight_details")}
}

func (p *FlightDetailsPage) Validate() error {
	_, err := p.in.WaitVisible(detailsHeader, 15*time.Second)
	return err
}

// ContinueToPassengerDetails clicks the selected date, which some versions
// need before they enable Continue, then continues.
func (p *FlightDetailsPage) ContinueToPassengerDetails() error {
	if err := p.in.ClickWithFallback(detailsDateSelector, "date selector", 0); err != nil {
		return err
	}
	p.in.Pause(time.Second)
	return p.scrollAndContinue("continue (flight details)")
}
