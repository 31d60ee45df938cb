package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centinela/guardia-engine/config"
	"github.com/centinela/guardia-engine/roster"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2026, cfg.Year)
	assert.Len(t, cfg.Roster, 13)
	assert.Equal(t, "TNIM BUTASSI", cfg.Roster[0].Name)
	assert.Equal(t, 1, cfg.Roster[0].Rank)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// GIVEN: A YAML file changing only the port and year
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("server:\n  port: 3000\nyear: 2027\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	// THEN: Overridden fields change, the rest keeps the defaults
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 2027, cfg.Year)
	assert.Len(t, cfg.Roster, 13)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate_RejectsDuplicateNames(t *testing.T) {
	cfg := config.Default()
	cfg.Roster[1].Name = cfg.Roster[0].Name

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate roster name")
}

func TestValidate_RejectsBadHolidayFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Holidays = append(cfg.Holidays, "25/12/2026")

	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsEmptyRoster(t *testing.T) {
	cfg := config.Default()
	cfg.Roster = nil

	assert.Error(t, cfg.Validate())
}

func TestBuildCalendar(t *testing.T) {
	cfg := config.Default()

	cal, err := cfg.BuildCalendar()
	require.NoError(t, err)
	assert.Equal(t, 2026, cal.Year())
	// Navidad is in the default holiday list.
	assert.Equal(t, roster.DayHoliday, cal.Classify(time.December, 25))
}

func TestBuildRoster_KeepsOrder(t *testing.T) {
	cfg := config.Default()

	r := cfg.BuildRoster()
	require.Len(t, r, 13)
	assert.Equal(t, "TNIM BUTASSI", r[0].Name)
	assert.Equal(t, 1490, r[0].RegistryID)
	assert.Equal(t, "GUCO BENITEZ", r[12].Name)
	assert.Equal(t, 13, r[12].Rank)
}
