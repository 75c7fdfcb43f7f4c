// Package browsertest provides an in-memory browser.Driver for tests of the
// interactor and page objects.
package browsertest

import (
	"fmt"
	"time"

	"github.com/avtest-qa/booking-e2e/internal/browser"
	"github.com/avtest-qa/booking-e2e/internal/locator"
)

// Element is a scripted browser.Element.
type Element struct {
	Name string
	// Hidden elements are never found.
	Hidden bool
	// Obstructed elements fail trial and native clicks with
	// browser.ErrClickIntercepted.
	Obstructed bool
	// ObstructedOnClick elements pass the trial click but the native click
	// is intercepted.
	ObstructedOnClick bool
	ClickErr          error
	ForceErr          error
	TypeErr           error
	SetValueErr       error

	Value            string
	Events           []string
	NativeClicks     int
	ForcedClicks     int
	TrialClicks      int
	ScrolledIntoView int

	driver *Driver
}

func (e *Element) record(op string) {
	if e.driver != nil {
		e.driver.record(op + ":" + e.Name)
	}
}

func (e *Element) Click(time.Duration) error {
	if e.Obstructed || e.ObstructedOnClick {
		return fmt.Errorf("%w: <div class=overlay> intercepts pointer events", browser.ErrClickIntercepted)
	}
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.NativeClicks++
	e.record("click")
	return nil
}

func (e *Element) CanClick(time.Duration) error {
	e.TrialClicks++
	if e.Obstructed {
		return fmt.Errorf("%w: <div class=overlay> intercepts pointer events", browser.ErrClickIntercepted)
	}
	return e.ClickErr
}

func (e *Element) ForceClick() error {
	if e.ForceErr != nil {
		return e.ForceErr
	}
	e.ForcedClicks++
	e.record("force-click")
	return nil
}

func (e *Element) Clear() error {
	e.Value = ""
	return nil
}

func (e *Element) Type(value string) error {
	if e.TypeErr != nil {
		return e.TypeErr
	}
	e.Value += value
	e.record("type")
	return nil
}

func (e *Element) SetValue(value string) error {
	if e.SetValueErr != nil {
		return e.SetValueErr
	}
	e.Value = value
	e.record("set-value")
	return nil
}

func (e *Element) Dispatch(event string) error {
	e.Events = append(e.Events, event)
	return nil
}

func (e *Element) ScrollIntoView() error {
	e.ScrolledIntoView++
	return nil
}

// Clicks is the number of clicks of either kind that landed.
func (e *Element) Clicks() int {
	return e.NativeClicks + e.ForcedClicks
}

// Script is one ExecuteScript call.
type Script struct {
	JS  string
	Arg any
}

// Driver is a browser.Driver over a fixed set of elements keyed by
// selector. It is not safe for concurrent use.
type Driver struct {
	// Permissive drivers create a visible element for any unknown locator.
	Permissive bool

	elements map[string]*Element
	lists    map[string][]*Element

	Navigations   []string
	Scripts       []Script
	ScriptErr     func(js string, arg any) error
	Image         []byte
	ScreenshotErr error
	Finds         []string
	Log           []string
}

func NewDriver() *Driver {
	return &Driver{
		elements: map[string]*Element{},
		lists:    map[string][]*Element{},
		Image:    []byte("\x89PNG"),
	}
}

// Add registers el under loc and returns it.
func (d *Driver) Add(loc locator.Locator, el *Element) *Element {
	if el.Name == "" {
		el.Name = loc.Value
	}
	el.driver = d
	d.elements[loc.Selector()] = el
	return el
}

// AddAll registers the FindAll result for loc.
func (d *Driver) AddAll(loc locator.Locator, els ...*Element) []*Element {
	for _, el := range els {
		el.driver = d
	}
	d.lists[loc.Selector()] = els
	return els
}

// Element returns the element registered (or auto-created) for loc.
func (d *Driver) Element(loc locator.Locator) *Element {
	return d.elements[loc.Selector()]
}

func (d *Driver) record(entry string) {
	d.Log = append(d.Log, entry)
}

func (d *Driver) Navigate(url string) error {
	d.Navigations = append(d.Navigations, url)
	return nil
}

func (d *Driver) Find(loc locator.Locator, timeout time.Duration) (browser.Element, error) {
	d.Finds = append(d.Finds, loc.Selector())
	el, ok := d.elements[loc.Selector()]
	if !ok && d.Permissive {
		el = &Element{Name: loc.Value, driver: d}
		d.elements[loc.Selector()] = el
		ok = true
	}
	if !ok || el.Hidden {
		return nil, fmt.Errorf("%w: %s after %s", browser.ErrNotVisible, loc, timeout)
	}
	return el, nil
}

func (d *Driver) FindAll(loc locator.Locator) ([]browser.Element, error) {
	els := d.lists[loc.Selector()]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (d *Driver) ExecuteScript(js string, arg any) (any, error) {
	d.Scripts = append(d.Scripts, Script{JS: js, Arg: arg})
	if d.ScriptErr != nil {
		if err := d.ScriptErr(js, arg); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	if d.ScreenshotErr != nil {
		return nil, d.ScreenshotErr
	}
	return d.Image, nil
}

// Visible returns a visible element with the given name.
func Visible(name string) *Element {
	return &Element{Name: name}
}
