package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validator struct {
	config   *Config
	errors   []string
	warnings []string
}

func NewValidator(cfg *Config) *Validator {
	return &Validator{
		config:   cfg,
		errors:   []string{},
		warnings: []string{},
	}
}

// Validate reports every problem at once rather than stopping at the first.
func (v *Validator) Validate() error {
	v.validateBaseURL()
	v.validateBrowser()
	v.validateTimeouts()
	v.validateManual()
	v.validateScenarios()

	if len(v.errors) > 0 {
		return fmt.Errorf("config validation failed:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

// Warnings returns the non-fatal findings of the last Validate call.
func (v *Validator) Warnings() []string {
	return v.warnings
}

func (v *Validator) validateBaseURL() {
	if v.config.BaseURL == "" {
		v.addError("base_url is not set")
		return
	}
	u, err := url.Parse(v.config.BaseURL)
	if err != nil || u.Host == "" {
		v.addError(fmt.Sprintf("base_url %q is not an absolute URL", v.config.BaseURL))
		return
	}
	if u.Scheme != "https" {
		v.addWarning(fmt.Sprintf("base_url %q is not served over https", v.config.BaseURL))
	}
}

func (v *Validator) validateBrowser() {
	switch v.config.Browser.Kind {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	case "chrome":
		// accepted for compatibility with the --browser values of older runs
		v.config.Browser.Kind = BrowserChromium
	default:
		v.addError(fmt.Sprintf("browser.kind %q is not one of chromium, firefox, webkit", v.config.Browser.Kind))
	}
	if v.config.Browser.Viewport.Width <= 0 || v.config.Browser.Viewport.Height <= 0 {
		v.addError("browser.viewport must have a positive width and height")
	}
}

func (v *Validator) validateTimeouts() {
	if v.config.Timeouts.Default <= 0 {
		v.addError("timeouts.default must be positive")
	}
	if v.config.Timeouts.Probe <= 0 {
		v.addError("timeouts.probe must be positive")
	}
	if v.config.Timeouts.ClickProbe <= 0 {
		v.addError("timeouts.click_probe must be positive")
	}
	if v.config.Timeouts.Probe > v.config.Timeouts.Default {
		v.addWarning("timeouts.probe is longer than timeouts.default")
	}
	if v.config.Pacing.Scale < 0 {
		v.addError("pacing.scale must not be negative")
	}
}

func (v *Validator) validateManual() {
	switch v.config.Manual.Mode {
	case ManualTimed, ManualPrompt, ManualNone:
	case ManualFile:
		if v.config.Manual.ResumeDir == "" {
			v.addError("manual.resume_dir is required when manual.mode is file")
		}
	default:
		v.addError(fmt.Sprintf("manual.mode %q is not one of timed, prompt, file, none", v.config.Manual.Mode))
	}
}

func (v *Validator) validateScenarios() {
	for _, s := range v.config.Scenarios {
		if err := s.Validate(); err != nil {
			v.addError(err.Error())
		}
	}
}

func (v *Validator) addError(message string) {
	v.errors = append(v.errors, "   - "+message)
}

func (v *Validator) addWarning(message string) {
	v.warnings = append(v.warnings, "   - "+message)
}

func Validate(cfg *Config) error {
	return NewValidator(cfg).Validate()
}
