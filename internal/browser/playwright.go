package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/avtest-qa/booking-e2e/internal/locator"
)

// pageDriver implements Driver on a playwright page.
type pageDriver struct {
	page playwright.Page
}

// NewDriver wraps page.
func NewDriver(page playwright.Page) Driver {
	return &pageDriver{page: page}
}

func (d *pageDriver) Navigate(url string) error {
	_, err := d.page.Goto(url)
	if err != nil && strings.Contains(err.Error(), "ERR_TOO_MANY_REDIRECTS") {
		return fmt.Errorf("redirect loop navigating to %s: %w", url, err)
	}
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (d *pageDriver) Find(loc locator.Locator, timeout time.Duration) (Element, error) {
	l := d.page.Locator(loc.Selector()).First()
	err := l.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(timeout),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s after %s", ErrNotVisible, loc, timeout)
		}
		return nil, err
	}
	return &pageElement{loc: l}, nil
}

func (d *pageDriver) FindAll(loc locator.Locator) ([]Element, error) {
	all, err := d.page.Locator(loc.Selector()).All()
	if err != nil {
		return nil, err
	}
	elems := make([]Element, 0, len(all))
	for _, l := range all {
		elems = append(elems, &pageElement{loc: l})
	}
	return elems, nil
}

func (d *pageDriver) ExecuteScript(js string, arg any) (any, error) {
	return d.page.Evaluate(js, arg)
}

func (d *pageDriver) Screenshot() ([]byte, error) {
	return d.page.Screenshot()
}

type pageElement struct {
	loc playwright.Locator
}

func (e *pageElement) Click(timeout time.Duration) error {
	return classifyClick(e.loc.Click(playwright.LocatorClickOptions{
		Timeout: millis(timeout),
	}))
}

func (e *pageElement) CanClick(timeout time.Duration) error {
	return classifyClick(e.loc.Click(playwright.LocatorClickOptions{
		Trial:   playwright.Bool(true),
		Timeout: millis(timeout),
	}))
}

func (e *pageElement) ForceClick() error {
	_, err := e.loc.Evaluate("el => el.click()", nil)
	return err
}

func (e *pageElement) Clear() error {
	return e.loc.Clear()
}

func (e *pageElement) Type(value string) error {
	return e.loc.PressSequentially(value)
}

func (e *pageElement) SetValue(value string) error {
	_, err := e.loc.Evaluate("(el, v) => { el.value = v; }", value)
	return err
}

func (e *pageElement) Dispatch(event string) error {
	_, err := e.loc.Evaluate("(el, type) => el.dispatchEvent(new Event(type, { bubbles: true }))", event)
	return err
}

func (e *pageElement) ScrollIntoView() error {
	_, err := e.loc.Evaluate("el => el.scrollIntoView(true)", nil)
	return err
}

// classifyClick maps playwright's hit-test failure onto ErrClickIntercepted.
// Playwright retries an obstructed click until its timeout and reports the
// obstruction in the call log.
func classifyClick(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "intercepts pointer events") || strings.Contains(msg, "not receiving pointer events") {
		return fmt.Errorf("%w: %v", ErrClickIntercepted, err)
	}
	return err
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
