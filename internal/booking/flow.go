// Package booking runs the one-way booking flow for a scenario and records
// its outcome.
package booking

import (
	"context"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/fixtures"
	"github.com/avtest-qa/booking-e2e/internal/funnel"
	"github.com/avtest-qa/booking-e2e/internal/pages"
)

// Flow builds the funnel steps for s. The flight details summary is only
// included when the configuration enables it.
func Flow(d pages.Deps, s fixtures.Scenario) []funnel.Step {
	in := d.Interactor
	home := pages.NewHomePage(d)
	results := pages.NewSelectFlightPage(d)
	details := pages.NewFlightDetailsPage(d)
	passenger := pages.NewPassengerDetailsPage(d)
	services := pages.NewServicesPage(d)
	seatmap := pages.NewSeatmapPage(d)
	payment := pages.NewPaymentPage(d)

	steps := []funnel.Step{
		{
			State: funnel.Home,
			Act: func(ctx context.Context) error {
				if err := home.Open(); err != nil {
					return err
				}
				home.CloseInitialPopup()
				in.Pause(5 * time.Second)
				if err := home.SelectOneWay(); err != nil {
					return err
				}
				return home.SearchFlight(ctx, s)
			},
		},
		{
			State:    funnel.SearchResults,
			Validate: func(context.Context) error { return results.ValidateSearchResults() },
			Act: func(context.Context) error {
				if err := results.SelectCheapestFlight(); err != nil {
					return err
				}
				in.Pause(8 * time.Second)
				return nil
			},
		},
	}

	if d.Config.Flow.FlightDetails {
		steps = append(steps, funnel.Step{
			State:    funnel.FlightDetails,
			Validate: func(context.Context) error { return details.Validate() },
			Act:      func(context.Context) error { return details.ContinueToPassengerDetails() },
		})
	}

	return append(steps,
		funnel.Step{
			State:    funnel.PassengerDetails,
			Validate: func(context.Context) error { return passenger.Validate() },
			Act:      func(ctx context.Context) error { return passenger.FillFirstPassenger(ctx, s.Passenger) },
		},
		funnel.Step{
			State:    funnel.Services,
			Validate: func(context.Context) error { return services.Validate() },
			Act: func(context.Context) error {
				services.SelectRequiredBaggage()
				return services.Continue()
			},
		},
		funnel.Step{
			State:    funnel.Seatmap,
			Validate: func(context.Context) error { return seatmap.Validate() },
			Act: func(context.Context) error {
				if _, err := seatmap.SelectSeatsForOddPassengers(); err != nil {
					return err
				}
				return seatmap.Continue()
			},
		},
		funnel.Step{
			State: funnel.Payment,
			Act:   payment.AwaitHandoff,
		},
	)
}
