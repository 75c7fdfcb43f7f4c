package pages

import (
	"context"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/fixtures"
	"github.com/avtest-qa/booking-e2e/internal/locator"
	"github.com/avtest-qa/booking-e2e/internal/manual"
)

var (
	paxGenderCombobox = locator.ByXPath("//button[contains(@id, 'IdPaxGender') and @role='combobox']")
	paxFirstName      = locator.ByXPath("//input[contains(@id, 'IdFirstName') and not(contains(@id, 'Document'))][1]")
	paxLastName       = locator.ByXPath("//input[contains(@id, 'IdLastName') or contains(@name, 'IdLastName')][1]")

	paxBirthDay    = locator.ByXPath("//button[contains(@id, 'dateDayId_IdDateOfBirthHidden')]")
	paxBirthMonth  = locator.ByXPath("//button[contains(@id, 'dateMonthId_IdDateOfBirthHidden')]")
	paxBirthYear   = locator.ByXPath("//button[contains(@id, 'dateYearId_IdDateOfBirthHidden')]")
	paxNationality = locator.ByXPath("//button[contains(@id, 'IdDocNationality')]")

	paxDocType         = locator.ByID("passengerId")
	paxDocNumber       = locator.ByXPath("//input[contains(@id, 'DocumentNumber')]")
	paxLoyaltyProgram  = locator.ByID("customerPrograms")
	paxLoyaltyNumber   = locator.ByID("AVloyaltyNumber")
	paxPhonePrefix     = locator.ByID("phone_prefixPhoneId")
	paxPhoneNumber     = locator.ByID("phone_phoneNumberId")
	paxEmail           = locator.ByID("email")
	paxConfirmEmail    = locator.ByID("confirmEmail")
	paxConsent         = locator.ByXPath("//label[./span[contains(text(), 'Acepto el uso de mis datos personales')]]")
	paxContinueCaption = locator.ByXPath("//span[contains(text(), 'Continuar')]")
)

// ActionPassengerContinue is the gate opened once the passenger form is filled.
const ActionPassengerContinue = "passenger_continue"

const fieldTimeout = 5 * time.Second

// GenderOption locates the gender option with the given caption.
func GenderOption(gender string) locator.Locator {
	return locator.ByXPath("//button[@role='option' and .//span[text()=" + locator.XPathLiteral(gender) + "]]")
}

// PassengerDetailsPage is the form for the first passenger and the contact
// details of the booking.
type PassengerDetailsPage struct {
	page
}

func NewPassengerDetailsPage(d Deps) *PassengerDetailsPage {
	return &PassengerDetailsPage{page: newPage(d, "passenger_details")}
}

// Validate waits for the gender control. The form is slow to render.
func (p *PassengerDetailsPage) Validate() error {
	if _, err := p.in.WaitVisible(paxGenderCombobox, 40*time.Second); err != nil {
		p.log.Error().Err(err).Msg("passenger form did not load")
		return err
	}
	return nil
}

// FillFirstPassenger fills every field of the first passenger, accepts the
// data policy and waits for the operator before continuing.
func (p *PassengerDetailsPage) FillFirstPassenger(ctx context.Context, pax fixtures.Passenger) error {
	p.in.Pause(5 * time.Second)

	if err := p.fillIdentity(pax); err != nil {
		return err
	}
	if err := p.fillBirthDate(pax); err != nil {
		return err
	}
	if err := p.fillDocument(pax); err != nil {
		return err
	}
	if err := p.fillLoyalty(pax); err != nil {
		return err
	}
	if err := p.fillContact(pax); err != nil {
		return err
	}

	if err := p.in.ScrollToBottom(); err != nil {
		return err
	}
	p.in.Pause(time.Second)
	if err := p.in.ClickWithFallback(paxConsent, "data policy consent", 0); err != nil {
		return err
	}

	if err := p.gate.Await(ctx, manual.Action{
		Name:         ActionPassengerContinue,
		Instructions: "Click Continue in the browser to submit the passenger form",
		Window:       p.cfg.Manual.PassengerContinue,
	}); err != nil {
		return err
	}

	// the operator has usually continued already
	p.in.BestEffort("passenger continue", p.forceContinue)
	p.log.Info().Msg("passenger details completed")
	return nil
}

func (p *PassengerDetailsPage) fillIdentity(pax fixtures.Passenger) error {
	if err := p.in.ClickWithFallback(locator.ByID(pax.GenderControlID), "gender", 0); err != nil {
		return err
	}
	if err := p.in.ClickWithFallback(GenderOption(pax.Gender), "gender option "+pax.Gender, 0); err != nil {
		return err
	}
	if err := p.in.ForceType(paxFirstName, pax.FirstName, "first name", fieldTimeout); err != nil {
		return err
	}
	return p.in.ForceType(paxLastName, pax.LastName, "last name", fieldTimeout)
}

// fillBirthDate selects day, month and year. Each open dropdown shifts the
// page down, so the view is corrected after every selection.
func (p *PassengerDetailsPage) fillBirthDate(pax fixtures.Passenger) error {
	if err := p.scroll(100); err != nil {
		return err
	}
	for _, f := range []struct {
		button locator.Locator
		value  string
		name   string
	}{
		{paxBirthDay, pax.BirthDay, "birth day"},
		{paxBirthMonth, pax.BirthMonth, "birth month"},
		{paxBirthYear, pax.BirthYear, "birth year"},
	} {
		if err := p.in.SelectFromCustomDropdown(f.button, f.value, f.name); err != nil {
			return err
		}
		if err := p.scroll(-100); err != nil {
			return err
		}
	}
	return nil
}

// fillDocument picks the nationality. Type and number are not validated by
// the site for every nationality, so failures there are tolerated.
func (p *PassengerDetailsPage) fillDocument(pax fixtures.Passenger) error {
	if err := p.in.SelectFromCustomDropdown(paxNationality, pax.Nationality, "document nationality"); err != nil {
		return err
	}
	if pax.DocumentType != "" {
		p.in.BestEffort("document type", func() error {
			return p.in.SelectFromCustomDropdown(paxDocType, pax.DocumentType, "document type")
		})
	}
	if pax.DocumentNumber != "" {
		p.in.BestEffort("document number", func() error {
			return p.in.ForceType(paxDocNumber, pax.DocumentNumber, "document number", 3*time.Second)
		})
	}
	return nil
}

func (p *PassengerDetailsPage) fillLoyalty(pax fixtures.Passenger) error {
	if pax.LoyaltyProgram == "" {
		return nil
	}
	if err := p.in.SelectFromCustomDropdown(paxLoyaltyProgram, pax.LoyaltyProgram, "loyalty program"); err != nil {
		return err
	}
	if err := p.scroll(-80); err != nil {
		return err
	}
	return p.in.ForceType(paxLoyaltyNumber, pax.LoyaltyNumber, "loyalty number", fieldTimeout)
}

func (p *PassengerDetailsPage) fillContact(pax fixtures.Passenger) error {
	if err := p.in.SelectFromCustomDropdown(paxPhonePrefix, pax.PhonePrefix, "phone prefix"); err != nil {
		return err
	}
	for _, f := range []struct {
		field locator.Locator
		value string
		name  string
	}{
		{paxPhoneNumber, pax.Phone, "phone number"},
		{paxEmail, pax.Email, "email"},
		{paxConfirmEmail, pax.ConfirmEmail, "confirm email"},
	} {
		if err := p.in.ForceType(f.field, f.value, f.name, fieldTimeout); err != nil {
			return err
		}
	}
	return nil
}

// forceContinue clicks the Continue caption and then its button, both
// forced, since the sticky footer covers them.
func (p *PassengerDetailsPage) forceContinue() error {
	button, err := p.in.WaitVisible(continueButton, 10*time.Second)
	if err != nil {
		return err
	}
	if err := button.ScrollIntoView(); err != nil {
		return err
	}
	p.in.Pause(500 * time.Millisecond)

	caption, err := p.in.WaitVisible(paxContinueCaption, 0)
	if err != nil {
		return err
	}
	if err := p.in.ForceClickElement(caption, "continue caption"); err != nil {
		return err
	}
	return p.in.ForceClickElement(button, "continue (passenger details)")
}
