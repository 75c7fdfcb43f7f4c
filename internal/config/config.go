package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/avtest-qa/booking-e2e/internal/fixtures"
)

// Config is the run configuration threaded through the browser session,
// the page objects and the result store.
type Config struct {
	BaseURL     string              `mapstructure:"base_url"`
	Browser     BrowserConfig       `mapstructure:"browser"`
	Timeouts    TimeoutsConfig      `mapstructure:"timeouts"`
	Database    DatabaseConfig      `mapstructure:"database"`
	Diagnostics DiagnosticsConfig   `mapstructure:"diagnostics"`
	Manual      ManualConfig        `mapstructure:"manual"`
	Pacing      PacingConfig        `mapstructure:"pacing"`
	Logging     LoggingConfig       `mapstructure:"logging"`
	Metrics     MetricsConfig       `mapstructure:"metrics"`
	Flow        FlowConfig          `mapstructure:"flow"`
	Scenarios   []fixtures.Scenario `mapstructure:"scenarios"`
}

type BrowserConfig struct {
	Kind           string        `mapstructure:"kind"`
	Headless       bool          `mapstructure:"headless"`
	SlowMo         time.Duration `mapstructure:"slow_mo"`
	Install        bool          `mapstructure:"install"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
	Viewport       struct {
		Width  int `mapstructure:"width"`
		Height int `mapstructure:"height"`
	} `mapstructure:"viewport"`
}

// TimeoutsConfig holds the interactor's per-call defaults.
type TimeoutsConfig struct {
	Default    time.Duration `mapstructure:"default"`
	Probe      time.Duration `mapstructure:"probe"`
	ClickProbe time.Duration `mapstructure:"click_probe"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type DiagnosticsConfig struct {
	Dir string `mapstructure:"dir"`
}

// ManualConfig controls how the suite waits for the human operator at
// CAPTCHA and confirmation steps.
type ManualConfig struct {
	Mode              string        `mapstructure:"mode"`
	ResumeDir         string        `mapstructure:"resume_dir"`
	SearchCaptcha     time.Duration `mapstructure:"search_captcha"`
	PassengerContinue time.Duration `mapstructure:"passenger_continue"`
	PaymentCapture    time.Duration `mapstructure:"payment_capture"`
}

// PacingConfig scales every fixed pause. 0 disables them.
type PacingConfig struct {
	Scale float64 `mapstructure:"scale"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type FlowConfig struct {
	FlightDetails bool `mapstructure:"flight_details"`
}

const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"

	ManualTimed  = "timed"
	ManualPrompt = "prompt"
	ManualFile   = "file"
	ManualNone   = "none"

	envPrefix = "BOOKING"
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://nuxqa4.avtest.ink/")

	v.SetDefault("browser.kind", BrowserChromium)
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.slow_mo", 0)
	v.SetDefault("browser.install", true)
	v.SetDefault("browser.default_timeout", 45*time.Second)
	v.SetDefault("browser.viewport.width", 1920)
	v.SetDefault("browser.viewport.height", 1080)

	v.SetDefault("timeouts.default", 25*time.Second)
	v.SetDefault("timeouts.probe", time.Second)
	v.SetDefault("timeouts.click_probe", 3*time.Second)

	v.SetDefault("database.path", "test_results.db")
	v.SetDefault("diagnostics.dir", "./test-results/diagnostics")

	v.SetDefault("manual.mode", ManualTimed)
	v.SetDefault("manual.resume_dir", "./test-results/resume")
	v.SetDefault("manual.search_captcha", 25*time.Second)
	v.SetDefault("manual.passenger_continue", 20*time.Second)
	v.SetDefault("manual.payment_capture", 30*time.Second)

	v.SetDefault("pacing.scale", 1.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "test_execution.log")

	v.SetDefault("metrics.textfile", "")
	v.SetDefault("flow.flight_details", false)
}

// New returns a viper instance with defaults, the optional booking.yaml from
// configPath, a .env file and BOOKING_* environment overrides applied.
func New(configPath string) (*viper.Viper, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	SetDefaults(v)

	v.SetConfigType("yaml")
	v.SetConfigName("booking")
	if configPath != "" {
		if strings.HasSuffix(configPath, ".yaml") || strings.HasSuffix(configPath, ".yml") {
			v.SetConfigFile(configPath)
		} else {
			v.AddConfigPath(configPath)
		}
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load builds and validates the configuration.
func Load(configPath string) (*Config, error) {
	v, err := New(configPath)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper unmarshals v and validates the result.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = fixtures.DefaultScenarios()
	}
	for i := range cfg.Scenarios {
		if cfg.Scenarios[i].Passenger == (fixtures.Passenger{}) {
			cfg.Scenarios[i].Passenger = fixtures.DefaultPassenger()
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// URL joins path onto the base URL.
func (c *Config) URL(path string) string {
	if path == "" {
		return c.BaseURL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Pause scales a fixed pause by the pacing factor.
func (p PacingConfig) Pause(d time.Duration) time.Duration {
	if p.Scale <= 0 {
		return 0
	}
	return time.Duration(float64(d) * p.Scale)
}

// ResumeFile is the file an operator creates to resume a file-mode gate.
func (m ManualConfig) ResumeFile(action string) string {
	return filepath.Join(m.ResumeDir, action+".resume")
}

// loadDotEnv loads KEY=VALUE lines from path if present. Variables already
// set in the environment take precedence.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
