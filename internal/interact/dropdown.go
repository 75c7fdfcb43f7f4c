package interact

import (
	"strings"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/locator"
)

const (
	DropdownOpenTimeout   = 5 * time.Second
	DropdownOptionTimeout = 7 * time.Second

	optionSpans = "//button[@role='option']//span"
)

// OptionCandidates lists the option texts that match text. A one-digit
// number also matches its two-digit zero-padded form.
func OptionCandidates(text string) []string {
	if len(text) == 1 && text[0] >= '0' && text[0] <= '9' {
		return []string{text, "0" + text}
	}
	return []string{text}
}

// OptionLocator locates the option of a custom dropdown by its text.
func OptionLocator(text string) locator.Locator {
	candidates := OptionCandidates(text)
	preds := make([]string, 0, len(candidates))
	for _, c := range candidates {
		preds = append(preds, "text()="+locator.XPathLiteral(c))
	}
	return locator.ByXPath(optionSpans + "[" + strings.Join(preds, " or ") + "]")
}

// SelectFromCustomDropdown opens a non-native dropdown with a forced click,
// force-clicks the option whose text is optionText and fires change and blur
// on the dropdown button so the framework picks up the new state.
func (i *Interactor) SelectFromCustomDropdown(button locator.Locator, optionText, name string) error {
	i.log.Info().Str("control", name).Str("option", optionText).Msg("selecting dropdown option")

	btn, err := i.WaitVisible(button, DropdownOpenTimeout)
	if err != nil {
		return err
	}
	if err := btn.ForceClick(); err != nil {
		return &InteractionError{Action: "open dropdown", Name: name, Locator: button, Err: err}
	}
	i.Pause(500 * time.Millisecond)

	optLoc := OptionLocator(optionText)
	opt, err := i.driver.Find(optLoc, DropdownOptionTimeout)
	if err != nil {
		i.log.Error().Err(err).Str("control", name).Str("option", optionText).Msg("dropdown option not found")
		return &SelectionError{Control: name, Option: optionText, Err: err}
	}
	if err := opt.ScrollIntoView(); err != nil {
		return &SelectionError{Control: name, Option: optionText, Err: err}
	}
	i.Pause(500 * time.Millisecond)

	if err := opt.ForceClick(); err != nil {
		return &SelectionError{Control: name, Option: optionText, Err: err}
	}
	for _, event := range []string{"change", "blur"} {
		if err := btn.Dispatch(event); err != nil {
			return &SelectionError{Control: name, Option: optionText, Err: err}
		}
	}
	i.stats.ForcedClicks += 2
	i.metrics.Interaction("select", Forced.String())
	i.log.Info().Str("control", name).Str("option", optionText).Msg("dropdown option selected")
	return nil
}
