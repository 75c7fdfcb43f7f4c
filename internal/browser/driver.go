// Package browser is the browser driver the page objects depend on: an
// interface for element lookup and DOM commands, and its playwright
// implementation.
package browser

import (
	"errors"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/locator"
)

var (
	// ErrNotVisible is returned by Find when the element does not become
	// visible within the timeout.
	ErrNotVisible = errors.New("element not visible")
	// ErrClickIntercepted is returned by Click and CanClick when another
	// element would receive the click.
	ErrClickIntercepted = errors.New("click intercepted by another element")
)

// Element is a handle to one located element.
type Element interface {
	// Click performs a native click with hit-testing.
	Click(timeout time.Duration) error
	// CanClick runs the native click's actionability checks without clicking.
	CanClick(timeout time.Duration) error
	// ForceClick dispatches el.click() in the page, bypassing hit-testing.
	ForceClick() error
	Clear() error
	// Type enters value as simulated keystrokes.
	Type(value string) error
	// SetValue assigns the element's underlying value.
	SetValue(value string) error
	// Dispatch fires a bubbling synthetic event of the given type.
	Dispatch(event string) error
	// ScrollIntoView aligns the element with the top of the viewport.
	ScrollIntoView() error
}

// Driver is the page-level surface.
type Driver interface {
	Navigate(url string) error
	// Find waits until the first element matching loc is visible.
	Find(loc locator.Locator, timeout time.Duration) (Element, error)
	// FindAll returns the elements currently matching loc, without waiting.
	FindAll(loc locator.Locator) ([]Element, error)
	// ExecuteScript evaluates a JS function expression with arg in the page.
	ExecuteScript(js string, arg any) (any, error)
	Screenshot() ([]byte, error)
}
