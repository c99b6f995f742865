package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "casetracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.covidtracking.com/v2", cfg.Upstream.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Upstream.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Display.ChartWindow)
	assert.Equal(t, "last-writer-wins", cfg.Display.StalePolicy)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Output.Colors)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
upstream:
  base_url: http://localhost:9999/v2
  timeout: 5s
display:
  locale: de-DE
  timezone: UTC
  chart_window: 14
  stale_policy: latest-only
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/v2", cfg.Upstream.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 14, cfg.Display.ChartWindow)
	assert.Equal(t, "latest-only", cfg.Display.StalePolicy)
	assert.Equal(t, "json", cfg.Logging.Format)

	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, language.MustParse("de-DE"), tag)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CASETRACKER_SERVER_ADDR", ":9090")
	t.Setenv("CASETRACKER_DISPLAY_CHART_WINDOW", "7")

	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 7, cfg.Display.ChartWindow)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad level", body: "logging:\n  level: loud\n"},
		{name: "bad format", body: "logging:\n  format: xml\n"},
		{name: "bad policy", body: "display:\n  stale_policy: cancel\n"},
		{name: "bad timezone", body: "display:\n  timezone: Mars/Olympus\n"},
		{name: "bad locale", body: "display:\n  locale: \"!!\"\n"},
		{name: "negative window", body: "display:\n  chart_window: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
