/*
Package config loads the service configuration.

PURPOSE:
  Defines the YAML configuration shape (server settings, roster, holiday
  calendar) with a built-in default covering the 2026 duty roster, and
  turns the validated configuration into the engine's Calendar and Roster
  values.

PRECEDENCE:
  Defaults < YAML file < command-line flags (applied by cmd/server).

SEE ALSO:
  - roster/calendar.go: Calendar built from the holiday list
  - cmd/server/main.go: flag overrides and wiring
*/
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/centinela/guardia-engine/roster"
)

// Config is the full service configuration.
type Config struct {
	Server   Server         `yaml:"server"`
	Year     int            `yaml:"year" validate:"required,min=2000,max=2100"`
	Holidays []string       `yaml:"holidays" validate:"dive,datetime=2006-01-02"`
	Roster   []PersonConfig `yaml:"roster" validate:"required,min=1,dive"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Port            int           `yaml:"port" validate:"min=0,max=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimit       RateLimit     `yaml:"rate_limit"`
}

// RateLimit configures the per-client request limiter.
type RateLimit struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps" validate:"min=0"`
	Burst   int     `yaml:"burst" validate:"min=0"`
}

// PersonConfig is one roster member in seniority order.
type PersonConfig struct {
	Name       string `yaml:"name" validate:"required"`
	Rank       int    `yaml:"rank" validate:"required,min=1"`
	RegistryID int    `yaml:"registry_id" validate:"min=0"`
}

// Default returns the built-in configuration: the 2026 duty roster with
// the Argentine national holiday calendar.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       RateLimit{Enabled: true, RPS: 20, Burst: 40},
		},
		Year: 2026,
		Holidays: []string{
			"2026-01-01", // Año Nuevo
			"2026-02-16", "2026-02-17", // Carnaval
			"2026-03-23", "2026-03-24", // Memoria, Verdad y Justicia
			"2026-04-02", // Malvinas
			"2026-04-03", // Viernes Santo
			"2026-05-01", // Día del Trabajador
			"2026-05-25", // Revolución de Mayo
			"2026-06-15", "2026-06-20", // Gral. Belgrano
			"2026-07-09", "2026-07-10", // Independencia
			"2026-08-17", // Gral. San Martín
			"2026-10-12", // Diversidad Cultural
			"2026-11-23", // Soberanía Nacional
			"2026-12-07", "2026-12-08", // Inmaculada Concepción
			"2026-12-25", // Navidad
		},
		Roster: []PersonConfig{
			{Name: "TNIM BUTASSI", Rank: 1, RegistryID: 1490},
			{Name: "TNAU BARRIOS", Rank: 2, RegistryID: 1512},
			{Name: "TN MACHUCA", Rank: 3, RegistryID: 1516},
			{Name: "TF ZALAZAR", Rank: 4, RegistryID: 1650},
			{Name: "TF ONETO CAJAL", Rank: 5, RegistryID: 1789},
			{Name: "TFCO LEDESMA", Rank: 6, RegistryID: 1840},
			{Name: "TFIM GONZALEZ", Rank: 7, RegistryID: 1855},
			{Name: "TFIM RACEDO BRITOS", Rank: 8, RegistryID: 2065},
			{Name: "TCCO PALMA", Rank: 9, RegistryID: 2093},
			{Name: "TC LEDESMA", Rank: 10, RegistryID: 2142},
			{Name: "GUIM DIAZ", Rank: 11, RegistryID: 2240},
			{Name: "GUIM TORRES", Rank: 12, RegistryID: 2260},
			{Name: "GUCO BENITEZ", Rank: 13, RegistryID: 2281},
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, including roster name uniqueness.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	seen := make(map[string]bool, len(c.Roster))
	for _, p := range c.Roster {
		if seen[p.Name] {
			return fmt.Errorf("invalid config: duplicate roster name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// BuildCalendar constructs the engine calendar from the holiday list.
// Holidays outside the configured year are ignored.
func (c *Config) BuildCalendar() (*roster.Calendar, error) {
	holidays := make([]time.Time, 0, len(c.Holidays))
	for _, raw := range c.Holidays {
		d, err := time.Parse(roster.DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", raw, err)
		}
		holidays = append(holidays, d)
	}
	return roster.NewCalendar(c.Year, holidays), nil
}

// BuildRoster constructs the engine roster in configured order.
func (c *Config) BuildRoster() roster.Roster {
	persons := make(roster.Roster, 0, len(c.Roster))
	for _, p := range c.Roster {
		persons = append(persons, roster.Person{
			Name:       p.Name,
			Rank:       p.Rank,
			RegistryID: p.RegistryID,
		})
	}
	return persons
}
