package pages

import (
	"fmt"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/locator"
)

var servicesHeader = locator.ByXPath("//div[contains(text(), 'Servicios disponibles') or contains(text(), 'Selecciona los servicios')]")

// Baggage is one service card whose add buttons (one per passenger or
// segment) are all clicked.
type Baggage struct {
	Name    string
	Buttons locator.Locator
}

func baggageButtons(captions ...string) locator.Locator {
	cond := ""
	for n, c := range captions {
		if n > 0 {
			cond += " or "
		}
		cond += "contains(., " + locator.XPathLiteral(c) + ")"
	}
	return locator.ByXPath(fmt.Sprintf(
		"//div[%s]/ancestor::div[contains(@class, 'service-card')]//button[contains(., 'Añadir') or contains(., 'Seleccionar') or contains(., 'Agregar')]",
		cond))
}

// RequiredBaggage are the services every booking adds.
var RequiredBaggage = []Baggage{
	{Name: "carry-on", Buttons: baggageButtons("Equipaje de mano", "Carry-on")},
	{Name: "checked", Buttons: baggageButtons("Equipaje facturado", "Checked baggage")},
	{Name: "sport", Buttons: baggageButtons("Equipaje deportivo", "Sport baggage")},
}

// ServicesPage offers baggage and other extras.
type ServicesPage struct {
	page
}

func NewServicesPage(d Deps) *ServicesPage {
	return &ServicesPage{page: newPage(d, "services")}
}

func (p *ServicesPage) Validate() error {
	_, err := p.in.WaitVisible(servicesHeader, 15*time.Second)
	return err
}

// SelectRequiredBaggage adds every RequiredBaggage service. A service that
// is missing or fails is logged and skipped. It returns the number of add
// buttons clicked.
func (p *ServicesPage) SelectRequiredBaggage() int {
	total := 0
	for _, b := range RequiredBaggage {
		p.in.BestEffort("baggage "+b.Name, func() error {
			n, err := p.addBaggage(b)
			total += n
			return err
		})
	}
	return total
}

func (p *ServicesPage) addBaggage(b Baggage) (int, error) {
	buttons, err := p.in.FindAll(b.Buttons)
	if err != nil {
		return 0, err
	}
	if len(buttons) == 0 {
		p.log.Warn().Str("service", b.Name).Msg("no add buttons, skipping")
		return 0, nil
	}
	for n, btn := range buttons {
		if err := btn.ScrollIntoView(); err != nil {
			return n, err
		}
		if err := p.in.ForceClickElement(btn, b.Name); err != nil {
			return n, err
		}
		p.in.Pause(500 * time.Millisecond)
	}
	p.log.Info().Str("service", b.Name).Int("count", len(buttons)).Msg("service added")
	return len(buttons), nil
}

// Continue moves on to seat selection.
func (p *ServicesPage) Continue() error {
	return p.scrollAndContinue("continue (services)")
}
