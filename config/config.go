package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration
type Config struct {
	Site       SiteConfig     `yaml:"site"`
	Vocabulary Vocabulary     `yaml:"vocabulary"`
	Fetch      FetchConfig    `yaml:"fetch"`
	Server     ServerConfig   `yaml:"server"`
	Telegram   TelegramConfig `yaml:"telegram"`
	Log        LogConfig      `yaml:"log"`
}

// SiteConfig describes the markup conventions of the scraped site
type SiteConfig struct {
	BaseURL             string `yaml:"base_url"`
	StationLinkSelector string `yaml:"station_link_selector"`
	TitleSuffix         string `yaml:"title_suffix"`
	OpenedLabel         string `yaml:"opened_label"`
	ClosedLabel         string `yaml:"closed_label"`
	CoordinatesLabel    string `yaml:"coordinates_label"`
}

// Language is one target language with its fixed item description
type Language struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// Vocabulary holds the Wikidata property and item codes emitted for each station
type Vocabulary struct {
	Languages          []Language `yaml:"languages"`
	InstanceOf         string     `yaml:"instance_of"`
	RailwayStation     string     `yaml:"railway_station"`
	ReferenceURL       string     `yaml:"reference_url"`
	Country            string     `yaml:"country"`
	CountryItem        string     `yaml:"country_item"`
	PartOfLine         string     `yaml:"part_of_line"`
	StartTime          string     `yaml:"start_time"`
	EndTime            string     `yaml:"end_time"`
	CoordinateLocation string     `yaml:"coordinate_location"`
}

// FetchConfig controls how pages are retrieved
type FetchConfig struct {
	Backend     string        `yaml:"backend"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	Concurrency int           `yaml:"concurrency"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type TelegramConfig struct {
	// Empty means everyone may use the bot
	AllowedUsers []int64 `yaml:"allowed_users"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	BackendColly = "colly"
	BackendRod   = "rod"
)

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration for danskejernbaner.dk and Wikidata
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:             "https://danskejernbaner.dk/",
			StationLinkSelector: `td > a.text-underline-hover[href^="vis.station.php"]`,
			TitleSuffix:         ", en artikel",
			OpenedLabel:         "Åbnet",
			ClosedLabel:         "Nedlagt",
			CoordinatesLabel:    "GPS koordinater",
		},
		Vocabulary: Vocabulary{
			Languages: []Language{
				{Code: "en", Description: "former railway station in Denmark"},
				{Code: "da", Description: "tidligere jernbanestation i Denmark"},
			},
			InstanceOf:         "P31",
			RailwayStation:     "Q4663385",
			ReferenceURL:       "S854",
			Country:            "P17",
			CountryItem:        "Q35",
			PartOfLine:         "P81",
			StartTime:          "P1619",
			EndTime:            "P3999",
			CoordinateLocation: "P625",
		},
		Fetch: FetchConfig{
			Backend:     BackendColly,
			Timeout:     30 * time.Second,
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Concurrency: 1,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration can drive a conversion
func (c *Config) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site.base_url %q is not an absolute URL", c.Site.BaseURL)
	}
	if strings.TrimSpace(c.Site.StationLinkSelector) == "" {
		return fmt.Errorf("site.station_link_selector is empty")
	}

	switch c.Fetch.Backend {
	case BackendColly, BackendRod:
	default:
		return fmt.Errorf("invalid fetch.backend %q (allowed: %s, %s)", c.Fetch.Backend, BackendColly, BackendRod)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency must be >= 1, got %d", c.Fetch.Concurrency)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}

	v := c.Vocabulary
	if len(v.Languages) == 0 {
		return fmt.Errorf("vocabulary.languages is empty")
	}
	for _, l := range v.Languages {
		if l.Code == "" {
			return fmt.Errorf("vocabulary.languages has an entry without code")
		}
	}
	codes := map[string]string{
		"instance_of":         v.InstanceOf,
		"railway_station":     v.RailwayStation,
		"reference_url":       v.ReferenceURL,
		"country":             v.Country,
		"country_item":        v.CountryItem,
		"part_of_line":        v.PartOfLine,
		"start_time":          v.StartTime,
		"end_time":            v.EndTime,
		"coordinate_location": v.CoordinateLocation,
	}
	for name, code := range codes {
		if code == "" {
			return fmt.Errorf("vocabulary.%s is empty", name)
		}
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (allowed: text, json)", c.Log.Format)
	}

	return nil
}

// ParseLogLevel maps a config level name to a slog level
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log.level %q (allowed: debug, info, warn, error)", s)
	}
}
