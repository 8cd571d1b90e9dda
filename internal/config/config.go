package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
)

const configBaseName = "duty_config"

// HolidaysConfig selects the public holidays used to classify days
type HolidaysConfig struct {
	Country string   `yaml:"country,omitempty" validate:"omitempty,oneof=FR fr"`
	RRules  []string `yaml:"rrules,omitempty" validate:"dive,required"`
}

// RulesConfig holds the optional eligibility rules
type RulesConfig struct {
	MaxPerPost          int  `yaml:"maxPerPost" validate:"min=0"`
	DifferentPostPerDay bool `yaml:"differentPostPerDay"`
	RestAfterDuty       bool `yaml:"restAfterDuty"`
	LimitWeekendDays    bool `yaml:"limitWeekendDays"`
	MaxWeekendDays      *int `yaml:"maxWeekendDays,omitempty" validate:"omitempty,min=0,max=31"`
}

// WeekendBlocksConfig configures the Friday-Sunday block posts
type WeekendBlocksConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Posts        []string `yaml:"posts,omitempty" validate:"dive,required"`
	Compensation bool     `yaml:"compensation"`
}

// ScoringConfig overrides the scoring constants. Unset fields keep the defaults.
type ScoringConfig struct {
	OverTargetPenalty  *float64 `yaml:"overTargetPenalty,omitempty" validate:"omitempty,min=0"`
	PreferenceBonus    *float64 `yaml:"preferenceBonus,omitempty" validate:"omitempty,min=0"`
	CompensationMalus  *float64 `yaml:"compensationMalus,omitempty" validate:"omitempty,min=0"`
	CompensationWindow *int     `yaml:"compensationWindow,omitempty" validate:"omitempty,min=1"`
}

// BalancerConfig overrides the balancer limits
type BalancerConfig struct {
	MaxIterations          *int     `yaml:"maxIterations,omitempty" validate:"omitempty,min=1,max=100"`
	ReferenceParticipation *float64 `yaml:"referenceParticipation,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// Config represents the application configuration
type Config struct {
	WorkspacePath string              `yaml:"workspacePath" validate:"required"`
	Holidays      HolidaysConfig      `yaml:"holidays"`
	Rules         RulesConfig         `yaml:"rules"`
	WeekendBlocks WeekendBlocksConfig `yaml:"weekendBlocks"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Balancer      BalancerConfig      `yaml:"balancer"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from duty_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads duty_config.<env>.yaml, or duty_config.yaml when env is empty
func LoadWithEnv(env string) (*Config, error) {
	fileName := configBaseName + ".yaml"
	if env != "" {
		fileName = fmt.Sprintf("%s.%s.yaml", configBaseName, env)
	}

	configPath, err := findConfigFile(fileName)
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

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.Holidays.RRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in holidays.rrules[%d]: %w", i, err)
		}
	}

	blocks := cfg.WeekendBlocks
	if (blocks.Enabled || blocks.Compensation) && len(blocks.Posts) == 0 {
		return fmt.Errorf("config validation failed: weekendBlocks.posts is required when blocks or compensation are enabled")
	}

	return nil
}

// AssignmentSettings maps the configuration onto engine settings, starting
// from the defaults
func (c *Config) AssignmentSettings() assigner.Settings {
	settings := assigner.DefaultSettings()

	settings.MaxPerPost = c.Rules.MaxPerPost
	settings.DifferentPostPerDay = c.Rules.DifferentPostPerDay
	settings.RestAfterDuty = c.Rules.RestAfterDuty
	settings.LimitWeekendDays = c.Rules.LimitWeekendDays
	if c.Rules.MaxWeekendDays != nil {
		settings.MaxWeekendDays = *c.Rules.MaxWeekendDays
	}

	settings.WeekendBlocks = c.WeekendBlocks.Enabled
	settings.WeekdayCompensation = c.WeekendBlocks.Compensation
	settings.BlockPosts = append([]string(nil), c.WeekendBlocks.Posts...)

	if c.Scoring.OverTargetPenalty != nil {
		settings.OverTargetPenalty = *c.Scoring.OverTargetPenalty
	}
	if c.Scoring.PreferenceBonus != nil {
		settings.PreferenceBonus = *c.Scoring.PreferenceBonus
	}
	if c.Scoring.CompensationMalus != nil {
		settings.CompensationMalus = *c.Scoring.CompensationMalus
	}
	if c.Scoring.CompensationWindow != nil {
		settings.CompensationWindow = *c.Scoring.CompensationWindow
	}

	if c.Balancer.MaxIterations != nil {
		settings.BalancerMaxIterations = *c.Balancer.MaxIterations
	}
	if c.Balancer.ReferenceParticipation != nil {
		settings.ReferenceParticipation = *c.Balancer.ReferenceParticipation
	}

	return settings
}

// HolidayProvider builds the provider for the configured country and rules.
// It returns nil when neither is set.
func (c *Config) HolidayProvider() (calendar.HolidayProvider, error) {
	var providers calendar.CombinedHolidays

	if country := calendar.ProviderForCountry(c.Holidays.Country); country != nil {
		providers = append(providers, country)
	}

	if len(c.Holidays.RRules) > 0 {
		rules, err := calendar.NewRRuleHolidays(c.Holidays.RRules...)
		if err != nil {
			return nil, fmt.Errorf("failed to build holiday rules: %w", err)
		}
		providers = append(providers, rules)
	}

	if len(providers) == 0 {
		return nil, nil
	}
	return providers, nil
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
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

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
