package pages

import (
	"strconv"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/interact"
	"github.com/avtest-qa/booking-e2e/internal/locator"
)

var (
	seatmapHeader = locator.ByXPath("//div[contains(text(), 'Selección de asientos')]")
	seatmapTabs   = locator.ByXPath("//div[@role='tablist']//button[contains(., 'Pasajero')]")
	seatmapSeat   = locator.ByXPath("(//div[contains(@class, 'seat-available') or contains(@class, 'seat-standard') and not(contains(@class, 'seat-occupied'))][1] | //button[contains(@class, 'seat-button') and not(@disabled)])[1]")
)

// SeatTabs returns the 1-based passenger tabs that get a seat out of n:
// the odd ones.
func SeatTabs(n int) []int {
	tabs := make([]int, 0, (n+1)/2)
	for i := 1; i <= n; i += 2 {
		tabs = append(tabs, i)
	}
	return tabs
}

// SeatmapPage assigns seats per passenger tab.
type SeatmapPage struct {
	page
}

func NewSeatmapPage(d Deps) *SeatmapPage {
	return &SeatmapPage{page: newPage(d, "seatmap")}
}

// Validate waits for the seat map title. A late title is only a warning.
func (p *SeatmapPage) Validate() error {
	if _, err := p.in.WaitVisible(seatmapHeader, 20*time.Second); err != nil {
		p.log.Warn().Err(err).Msg("seat map title not shown, continuing")
	}
	return nil
}

// SelectSeatsForOddPassengers picks the first available seat for each
// passenger tab in SeatTabs. Even tabs are left untouched. It returns the
// tabs that got a seat.
func (p *SeatmapPage) SelectSeatsForOddPassengers() ([]int, error) {
	tabs, err := p.in.FindAll(seatmapTabs)
	if err != nil {
		return nil, err
	}
	p.log.Info().Int("passengers", len(tabs)).Msg("passenger tabs found")

	var seated []int
	for _, idx := range SeatTabs(len(tabs)) {
		tab := tabs[idx-1]
		name := "passenger " + strconv.Itoa(idx)
		ok := p.in.BestEffort("seat for "+name, func() error {
			if err := tab.ScrollIntoView(); err != nil {
				return err
			}
			if err := p.in.ForceClickElement(tab, name+" tab"); err != nil {
				return err
			}
			p.in.Pause(time.Second)
			if err := p.in.Click(seatmapSeat, interact.Forced, "seat for "+name, 0); err != nil {
				return err
			}
			p.in.Pause(2 * time.Second)
			return nil
		})
		if ok {
			seated = append(seated, idx)
		}
	}
	return seated, nil
}

// Continue moves on to payment.
func (p *SeatmapPage) Continue() error {
	return p.scrollAndContinue("continue (seatmap)")
}
