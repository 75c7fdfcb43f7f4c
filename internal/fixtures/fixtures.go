// Package fixtures holds the typed test data driven through the booking funnel.
package fixtures

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Passenger is the data typed into the first passenger's form.
type Passenger struct {
	GenderControlID string `mapstructure:"gender_control_id" yaml:"gender_control_id" validate:"required"`
	Gender          string `mapstructure:"gender" yaml:"gender" validate:"required"`
	FirstName       string `mapstructure:"first_name" yaml:"first_name" validate:"required"`
	LastName        string `mapstructure:"last_name" yaml:"last_name" validate:"required"`
	BirthDay        string `mapstructure:"birth_day" yaml:"birth_day" validate:"required,numeric"`
	BirthMonth      string `mapstructure:"birth_month" yaml:"birth_month" validate:"required"`
	BirthYear       string `mapstructure:"birth_year" yaml:"birth_year" validate:"required,numeric,len=4"`
	Nationality     string `mapstructure:"nationality" yaml:"nationality" validate:"required"`
	DocumentType    string `mapstructure:"document_type" yaml:"document_type"`
	DocumentNumber  string `mapstructure:"document_number" yaml:"document_number" validate:"omitempty,numeric"`
	LoyaltyProgram  string `mapstructure:"loyalty_program" yaml:"loyalty_program"`
	LoyaltyNumber   string `mapstructure:"loyalty_number" yaml:"loyalty_number" validate:"required_with=LoyaltyProgram"`
	PhonePrefix     string `mapstructure:"phone_prefix" yaml:"phone_prefix" validate:"required"`
	Phone           string `mapstructure:"phone" yaml:"phone" validate:"required,numeric"`
	Email           string `mapstructure:"email" yaml:"email" validate:"required,email"`
	ConfirmEmail    string `mapstructure:"confirm_email" yaml:"confirm_email" validate:"required,eqfield=Email"`
}

// Scenario is one one-way search and the passenger booked on it.
type Scenario struct {
	Origin        string    `mapstructure:"origin" yaml:"origin" validate:"required,len=3,alpha,uppercase"`
	Destination   string    `mapstructure:"destination" yaml:"destination" validate:"required,len=3,alpha,uppercase,nefield=Origin"`
	DepartureDate string    `mapstructure:"departure_date" yaml:"departure_date" validate:"required,datetime=2006-01-02"`
	Adults        int       `mapstructure:"adults" yaml:"adults" validate:"min=1,max=9"`
	Infants       int       `mapstructure:"infants" yaml:"infants" validate:"min=0,ltefield=Adults"`
	Passenger     Passenger `mapstructure:"passenger" yaml:"passenger"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field of the scenario, including the passenger.
func (s Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid scenario %s: %s", s.Route(), strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid scenario %s: %w", s.Route(), err)
	}
	return nil
}

// Route is the ORIGIN-DEST pair used in test names and CLI filters.
func (s Scenario) Route() string {
	return s.Origin + "-" + s.Destination
}

// TestName is the name a run of this scenario is recorded under.
func (s Scenario) TestName() string {
	return "test_oneway_booking_flow_" + s.Route()
}

// DefaultPassenger returns the passenger data the suite books with.
func DefaultPassenger() Passenger {
	return Passenger{
		GenderControlID: "IdPaxGender_0",
		Gender:          "Masculino",
		FirstName:       "Test",
		LastName:        "Automation",
		BirthDay:        "5",
		BirthMonth:      "Febrero",
		BirthYear:       "1995",
		Nationality:     "Colombia",
		DocumentType:    "Cédula de Ciudadanía",
		DocumentNumber:  "1024567890",
		// the site renders this option with a trailing space
		LoyaltyProgram: "lifemiles ",
		LoyaltyNumber:  "1114060886",
		PhonePrefix:    "Colombia",
		Phone:          "3185578482",
		Email:          "test.automation@gmail.com",
		ConfirmEmail:   "test.automation@gmail.com",
	}
}

// DefaultScenarios returns the routes exercised when none are configured.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Origin: "BOG", Destination: "CTG", DepartureDate: "2026-12-01", Adults: 1, Infants: 0, Passenger: DefaultPassenger()},
		{Origin: "MDE", Destination: "SCL", DepartureDate: "2026-12-01", Adults: 3, Infants: 0, Passenger: DefaultPassenger()},
	}
}

// Filter returns the scenarios whose Route matches one of routes.
// An empty routes list returns all scenarios.
func Filter(scenarios []Scenario, routes []string) []Scenario {
	if len(routes) == 0 {
		return scenarios
	}
	want := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		want[strings.ToUpper(strings.TrimSpace(r))] = struct{}{}
	}
	var out []Scenario
	for _, s := range scenarios {
		if _, ok := want[s.Route()]; ok {
			out = append(out, s)
		}
	}
	return out
}
