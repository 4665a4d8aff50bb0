package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  station_link_selector: "td > a.text-primary[href^='vis.station.php']"
vocabulary:
  languages:
    - code: en
      description: railway station in Denmark
fetch:
  timeout: 5s
  concurrency: 4
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "td > a.text-primary[href^='vis.station.php']", cfg.Site.StationLinkSelector)
	require.Equal(t, "https://danskejernbaner.dk/", cfg.Site.BaseURL)
	require.Equal(t, []Language{{Code: "en", Description: "railway station in Denmark"}}, cfg.Vocabulary.Languages)
	require.Equal(t, "P625", cfg.Vocabulary.CoordinateLocation)
	require.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, 4, cfg.Fetch.Concurrency)
	require.Equal(t, BackendColly, cfg.Fetch.Backend)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "fetch:\n  backend: curl\n"},
		{"zero concurrency", "fetch:\n  concurrency: 0\n"},
		{"relative base url", "site:\n  base_url: danskejernbaner.dk\n"},
		{"empty property code", "vocabulary:\n  start_time: \"\"\n"},
		{"no languages", "vocabulary:\n  languages: []\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"malformed yaml", "fetch: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
