package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtest-qa/booking-e2e/internal/fixtures"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	cfg, err := FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, "https://nuxqa4.avtest.ink/", cfg.BaseURL)
	assert.Equal(t, BrowserChromium, cfg.Browser.Kind)
	assert.Equal(t, 1920, cfg.Browser.Viewport.Width)
	assert.Equal(t, 1080, cfg.Browser.Viewport.Height)
	assert.Equal(t, 25*time.Second, cfg.Timeouts.Default)
	assert.Equal(t, time.Second, cfg.Timeouts.Probe)
	assert.Equal(t, 3*time.Second, cfg.Timeouts.ClickProbe)
	assert.Equal(t, "test_results.db", cfg.Database.Path)
	assert.Equal(t, ManualTimed, cfg.Manual.Mode)
	assert.Equal(t, 25*time.Second, cfg.Manual.SearchCaptcha)
	assert.False(t, cfg.Flow.FlightDetails)
	assert.Equal(t, fixtures.DefaultScenarios(), cfg.Scenarios)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "booking.yaml")
	content := `
base_url: https://staging.example.com/
browser:
  kind: firefox
  headless: true
manual:
  mode: none
pacing:
  scale: 0
scenarios:
  - origin: BOG
    destination: MDE
    departure_date: "2026-11-15"
    adults: 2
    infants: 1
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	t.Setenv("BOOKING_DATABASE_PATH", filepath.Join(dir, "results.db"))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com/", cfg.BaseURL)
	assert.Equal(t, BrowserFirefox, cfg.Browser.Kind)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, ManualNone, cfg.Manual.Mode)
	assert.Equal(t, filepath.Join(dir, "results.db"), cfg.Database.Path)
	require.Len(t, cfg.Scenarios, 1)
	assert.Equal(t, "BOG-MDE", cfg.Scenarios[0].Route())
	assert.Equal(t, fixtures.DefaultPassenger(), cfg.Scenarios[0].Passenger)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("browser:\n  kind: webkit\n"), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, BrowserWebKit, cfg.Browser.Kind)
}

func TestValidate(t *testing.T) {
	t.Run("chrome alias", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Browser.Kind = "chrome"
		require.NoError(t, Validate(cfg))
		assert.Equal(t, BrowserChromium, cfg.Browser.Kind)
	})

	t.Run("collects every error", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.BaseURL = ""
		cfg.Browser.Kind = "opera"
		cfg.Manual.Mode = "later"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base_url is not set")
		assert.Contains(t, err.Error(), `browser.kind "opera"`)
		assert.Contains(t, err.Error(), `manual.mode "later"`)
	})

	t.Run("file mode needs resume dir", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Manual.Mode = ManualFile
		cfg.Manual.ResumeDir = ""
		require.ErrorContains(t, Validate(cfg), "manual.resume_dir")
	})

	t.Run("http base url is a warning", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.BaseURL = "http://localhost:8080"
		v := NewValidator(cfg)
		require.NoError(t, v.Validate())
		assert.Len(t, v.Warnings(), 1)
	})

	t.Run("invalid scenario", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Scenarios[0].Adults = 0
		require.ErrorContains(t, Validate(cfg), "BOG-CTG")
	})
}

func TestURL(t *testing.T) {
	cfg := &Config{BaseURL: "https://nuxqa4.avtest.ink/"}
	assert.Equal(t, "https://nuxqa4.avtest.ink/", cfg.URL(""))
	assert.Equal(t, "https://nuxqa4.avtest.ink/es/booking", cfg.URL("/es/booking"))
}

func TestPacing(t *testing.T) {
	assert.Equal(t, 2*time.Second, PacingConfig{Scale: 1}.Pause(2*time.Second))
	assert.Equal(t, time.Second, PacingConfig{Scale: 0.5}.Pause(2*time.Second))
	assert.Zero(t, PacingConfig{Scale: 0}.Pause(2*time.Second))
}

func TestResumeFile(t *testing.T) {
	m := ManualConfig{ResumeDir: "/tmp/resume"}
	assert.Equal(t, "/tmp/resume/search_captcha.resume", m.ResumeFile("search_captcha"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, loadDotEnv(filepath.Join(dir, ".env")), "a missing file is not an error")

	good := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(good, []byte("BOOKING_DOTENV_CHECK=loaded\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BOOKING_DOTENV_CHECK") })
	require.NoError(t, loadDotEnv(good))
	assert.Equal(t, "loaded", os.Getenv("BOOKING_DOTENV_CHECK"))

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("BOOKING_BASE_URL=\"https://unterminated\n"), 0o644))
	assert.ErrorContains(t, loadDotEnv(bad), "bad.env")
}

func TestNewRejectsMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BOOKING_BASE_URL=\"https://unterminated\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = New("")
	assert.ErrorContains(t, err, ".env")
}
