package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// DemandOverride raises or lowers staffing for dates matched by its rule.
type DemandOverride struct {
	RRule          string `yaml:"rrule" validate:"required"`
	PeoplePerShift *int   `yaml:"peoplePerShift,omitempty" validate:"omitempty,min=1"`
}

// Config represents the application configuration
type Config struct {
	OpeningTime     string           `yaml:"openingTime" validate:"required"`
	ClosingTime     string           `yaml:"closingTime" validate:"required"`
	ShiftLength     string           `yaml:"shiftLength" validate:"required"`
	PeoplePerShift  int              `yaml:"peoplePerShift" validate:"required,min=1"`
	ClosedDays      []string         `yaml:"closedDays,omitempty"`
	ClosureRules    []string         `yaml:"closureRules,omitempty"`
	DemandOverrides []DemandOverride `yaml:"demandOverrides,omitempty" validate:"dive"`
	DatabaseURL     string           `yaml:"databaseURL" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from rostergen_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the time and weekday fields,
// and the rrule syntax of closure rules and overrides
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := ParseTimeOfDay(cfg.OpeningTime); err != nil {
		return fmt.Errorf("invalid openingTime: %w", err)
	}
	if _, err := ParseTimeOfDay(cfg.ClosingTime); err != nil {
		return fmt.Errorf("invalid closingTime: %w", err)
	}
	if _, err := time.ParseDuration(cfg.ShiftLength); err != nil {
		return fmt.Errorf("invalid shiftLength: %w", err)
	}

	for i, day := range cfg.ClosedDays {
		if _, err := ParseWeekday(day); err != nil {
			return fmt.Errorf("invalid closedDays[%d]: %w", i, err)
		}
	}

	// Validate rrule syntax for closure rules and each override
	for i, rule := range cfg.ClosureRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in closureRules[%d]: %w", i, err)
		}
	}
	for i, override := range cfg.DemandOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in demandOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// ParseTimeOfDay parses a "15:04" clock time into an offset from midnight.
func ParseTimeOfDay(value string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q: %w", value, err)
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

// ParseWeekday maps a weekday name like "monday" to its time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// findConfigFile searches for rostergen_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "rostergen_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
