package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// WalkOverride defines slot customizations applied when generating weeks.
// Dates are matched by the rrule; matched slots are either skipped (no walk)
// or pinned to a specific person.
type WalkOverride struct {
	RRule     string   `yaml:"rrule" validate:"required"`
	TimeSlots []string `yaml:"timeSlots,omitempty"`
	Skip      bool     `yaml:"skip,omitempty"`
	PersonID  string   `yaml:"personId,omitempty"`
}

// SeedMember describes one roster entry created at first bootstrap
type SeedMember struct {
	ID          string `yaml:"id" validate:"required"`
	Name        string `yaml:"name" validate:"required"`
	AvatarColor string `yaml:"avatarColor,omitempty"`
	Claimed     bool   `yaml:"claimed,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Storage       string         `yaml:"storage" validate:"required,oneof=sqlite postgres"`
	SQLitePath    string         `yaml:"sqlitePath,omitempty"`
	PostgresURL   string         `yaml:"postgresURL,omitempty"`
	GroupAIDs     []string       `yaml:"groupAIds" validate:"required,min=3"`
	GroupBIDs     []string       `yaml:"groupBIds" validate:"required,min=3"`
	WalkOverrides []WalkOverride `yaml:"walkOverrides,omitempty" validate:"dive"`
	SeedFamily    []SeedMember   `yaml:"seedFamily,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from blanca_config.yaml,
// looking in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile("blanca_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadWithEnv loads blanca_config.<env>.yaml, falling back to the
// environment-less file when no environment-specific one exists
func LoadWithEnv(env string) (*Config, error) {
	if env != "" {
		envFile := fmt.Sprintf("blanca_config.%s.yaml", env)
		if configPath, err := findConfigFile(envFile); err == nil {
			return LoadFromPath(configPath)
		}
	}
	return Load()
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

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage == "" {
		cfg.Storage = "sqlite"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "blanca.db"
	}
}

// Validate validates the configuration struct, the rotation group sets and
// the override rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Storage == "postgres" && cfg.PostgresURL == "" {
		return fmt.Errorf("postgresURL is required when storage is postgres")
	}

	for _, id := range cfg.GroupAIDs {
		if slices.Contains(cfg.GroupBIDs, id) {
			return fmt.Errorf("rotation groups must be disjoint: %q appears in both groupAIds and groupBIds", id)
		}
	}

	for i, override := range cfg.WalkOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in walkOverrides[%d]: %w", i, err)
		}
		if !override.Skip && override.PersonID == "" {
			return fmt.Errorf("walkOverrides[%d] must set skip or personId", i)
		}
		for _, slot := range override.TimeSlots {
			if !model.TimeSlot(slot).IsValid() {
				return fmt.Errorf("walkOverrides[%d] has unknown time slot %q", i, slot)
			}
		}
	}

	return nil
}

// findConfigFile searches for the named file in the current directory and
// the home directory
func findConfigFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", name)
}
