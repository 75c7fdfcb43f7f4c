package interact

import (
	"fmt"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/locator"
)

// ElementNotFoundError means an expected element never became visible.
type ElementNotFoundError struct {
	Locator locator.Locator
	Timeout time.Duration
	Err     error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %s not visible after %s", e.Locator, e.Timeout)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// InteractionError means a click or type failed on every strategy tried.
type InteractionError struct {
	Action  string
	Name    string
	Locator locator.Locator
	Err     error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("%s on %s %s failed: %v", e.Action, e.Name, e.Locator, e.Err)
}

func (e *InteractionError) Unwrap() error { return e.Err }

// SelectionError means a custom dropdown option never appeared or could not
// be chosen.
type SelectionError struct {
	Control string
	Option  string
	Err     error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("could not select %q in %s: %v", e.Option, e.Control, e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }
