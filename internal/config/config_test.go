package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/readings.csv", cfg.Data.SourceFile)
	assert.Equal(t, "Châtelet RER A", cfg.Data.StationName)
	assert.Equal(t, "date/heure", cfg.Data.TimestampColumn)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("AQ_DATA_SOURCE_FILE", "/srv/aq/station.csv")
	t.Setenv("AQ_SERVER_PORT", "9090")

	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/aq/station.csv", cfg.Data.SourceFile)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadFromFile_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9191
data:
  source_file: /data/chatelet.csv
  station_name: "Test Station"
labels:
  weekdays: [Lundi, Mardi, Mercredi, Jeudi, Vendredi, Samedi, Dimanche]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "/data/chatelet.csv", cfg.Data.SourceFile)
	assert.Equal(t, "Test Station", cfg.Data.StationName)
	assert.Equal(t, "Lundi", cfg.Labels.WeekdayLabels()[0])
	// File did not set the timestamp column; the default survives the merge.
	assert.Equal(t, "date/heure", cfg.Data.TimestampColumn)
}

func TestLoadFromFile_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9191\n"), 0o644))

	t.Setenv("AQ_SERVER_PORT", "7070")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFromFile_InvalidPort(t *testing.T) {
	t.Setenv("AQ_SERVER_PORT", "70000")

	_, err := LoadFromFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadFromFile_MissingFileIgnored(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestWeekdayLabels_Fallback(t *testing.T) {
	var labels LabelsConfig
	assert.Equal(t, DefaultWeekdayLabels, labels.WeekdayLabels())

	labels.Weekdays = []string{"only", "two"}
	assert.Equal(t, DefaultWeekdayLabels, labels.WeekdayLabels())

	full := []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}
	labels.Weekdays = full
	assert.Equal(t, full, labels.WeekdayLabels())
}
