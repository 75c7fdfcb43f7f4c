package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/avtest-qa/booking-e2e/internal/config"
)

// Session owns one playwright browser, context and page.
type Session struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page
	Config     config.BrowserConfig
}

// Launch starts playwright and opens a page in the configured browser.
func Launch(cfg config.BrowserConfig) (*Session, error) {
	s := &Session{Config: cfg}

	if cfg.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{cfg.Kind}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		// the driver may be missing even when browsers are cached
		_ = playwright.Install(&playwright.RunOptions{SkipInstallBrowsers: true})
		pw, err = playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright after retry: %w", err)
		}
	}
	s.Playwright = pw

	browserType, err := s.browserType()
	if err != nil {
		s.Close()
		return nil, err
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("could not launch %s: %w", cfg.Kind, err)
	}
	s.Browser = browser

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.Viewport.Width,
			Height: cfg.Viewport.Height,
		},
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("could not create context: %w", err)
	}
	s.Context = context

	page, err := context.NewPage()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	s.Page = page

	page.SetDefaultTimeout(float64(cfg.DefaultTimeout.Milliseconds()))

	return s, nil
}

// Driver returns the Driver for the session's page.
func (s *Session) Driver() Driver {
	return NewDriver(s.Page)
}

// Close tears the session down page first. It is safe on a partially
// launched session.
func (s *Session) Close() {
	if s.Page != nil {
		_ = s.Page.Close()
	}
	if s.Context != nil {
		_ = s.Context.Close()
	}
	if s.Browser != nil {
		_ = s.Browser.Close()
	}
	if s.Playwright != nil {
		_ = s.Playwright.Stop()
	}
}

func (s *Session) browserType() (playwright.BrowserType, error) {
	switch s.Config.Kind {
	case config.BrowserChromium, "":
		return s.Playwright.Chromium, nil
	case config.BrowserFirefox:
		return s.Playwright.Firefox, nil
	case config.BrowserWebKit:
		return s.Playwright.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser kind %q", s.Config.Kind)
	}
}
