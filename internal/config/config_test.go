package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		WorkspacePath: "rota.yaml",
		Holidays: HolidaysConfig{
			Country: "FR",
			RRules:  []string{"FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=26"},
		},
		Rules: RulesConfig{
			MaxPerPost:       3,
			LimitWeekendDays: true,
			MaxWeekendDays:   intPtr(6),
		},
		WeekendBlocks: WeekendBlocksConfig{
			Enabled:      true,
			Posts:        []string{"Garde"},
			Compensation: true,
		},
		Scoring:  ScoringConfig{CompensationWindow: intPtr(3)},
		Balancer: BalancerConfig{MaxIterations: intPtr(50), ReferenceParticipation: floatPtr(0.9)},
	}

	assert.NoError(t, Validate(cfg))
}

func TestValidate_MinimalConfig(t *testing.T) {
	assert.NoError(t, Validate(&Config{WorkspacePath: "rota.yaml"}))
}

func TestValidate_MissingWorkspacePath(t *testing.T) {
	err := Validate(&Config{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_OutOfRangeValues(t *testing.T) {
	cases := map[string]Config{
		"max weekend days": {WorkspacePath: "w", Rules: RulesConfig{MaxWeekendDays: intPtr(40)}},
		"max per post":     {WorkspacePath: "w", Rules: RulesConfig{MaxPerPost: -1}},
		"window":           {WorkspacePath: "w", Scoring: ScoringConfig{CompensationWindow: intPtr(0)}},
		"reference":        {WorkspacePath: "w", Balancer: BalancerConfig{ReferenceParticipation: floatPtr(1.5)}},
		"iterations":       {WorkspacePath: "w", Balancer: BalancerConfig{MaxIterations: intPtr(500)}},
		"country":          {WorkspacePath: "w", Holidays: HolidaysConfig{Country: "XX"}},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := &Config{
		WorkspacePath: "rota.yaml",
		Holidays:      HolidaysConfig{RRules: []string{"FREQ=YEARLY;BYMONTH=5;BYMONTHDAY=1", "INVALID_RRULE_SYNTAX"}},
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holidays.rrules[1]")
}

func TestValidate_BlocksWithoutPosts(t *testing.T) {
	cfg := &Config{WorkspacePath: "rota.yaml", WeekendBlocks: WeekendBlocksConfig{Compensation: true}}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekendBlocks.posts")
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "test_config.yaml", `
workspacePath: "data/rota.yaml"
holidays:
  country: FR
  rrules:
    - "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=26"
rules:
  maxPerPost: 2
  restAfterDuty: true
  limitWeekendDays: true
  maxWeekendDays: 5
weekendBlocks:
  enabled: true
  posts: ["Garde"]
  compensation: true
scoring:
  overTargetPenalty: 0.5
balancer:
  maxIterations: 20
`)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "data/rota.yaml", cfg.WorkspacePath)
	assert.Equal(t, "FR", cfg.Holidays.Country)
	assert.True(t, cfg.Rules.RestAfterDuty)
	assert.Equal(t, []string{"Garde"}, cfg.WeekendBlocks.Posts)
	require.NotNil(t, cfg.Rules.MaxWeekendDays)
	assert.Equal(t, 5, *cfg.Rules.MaxWeekendDays)
	assert.Nil(t, cfg.Scoring.PreferenceBonus)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "bad.yaml", "workspacePath: [unclosed")

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "duty_config.test.yaml", `workspacePath: "test.yaml"`)
	writeConfig(t, dir, "duty_config.yaml", `workspacePath: "default.yaml"`)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "test.yaml", cfg.WorkspacePath)

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "default.yaml", cfg.WorkspacePath)
}

func TestAssignmentSettings_Defaults(t *testing.T) {
	cfg := &Config{WorkspacePath: "rota.yaml"}

	assert.Equal(t, assigner.DefaultSettings(), cfg.AssignmentSettings())
}

func TestAssignmentSettings_Overrides(t *testing.T) {
	cfg := &Config{
		WorkspacePath: "rota.yaml",
		Rules: RulesConfig{
			MaxPerPost:          2,
			DifferentPostPerDay: true,
			RestAfterDuty:       true,
			LimitWeekendDays:    true,
			MaxWeekendDays:      intPtr(6),
		},
		WeekendBlocks: WeekendBlocksConfig{Enabled: true, Posts: []string{"Garde"}, Compensation: true},
		Scoring: ScoringConfig{
			OverTargetPenalty:  floatPtr(1),
			PreferenceBonus:    floatPtr(0.2),
			CompensationMalus:  floatPtr(0.5),
			CompensationWindow: intPtr(2),
		},
		Balancer: BalancerConfig{MaxIterations: intPtr(10), ReferenceParticipation: floatPtr(0.8)},
	}

	settings := cfg.AssignmentSettings()

	assert.Equal(t, assigner.Settings{
		MaxPerPost:             2,
		DifferentPostPerDay:    true,
		RestAfterDuty:          true,
		LimitWeekendDays:       true,
		MaxWeekendDays:         6,
		WeekendBlocks:          true,
		BlockPosts:             []string{"Garde"},
		WeekdayCompensation:    true,
		CompensationMalus:      0.5,
		CompensationWindow:     2,
		OverTargetPenalty:      1,
		PreferenceBonus:        0.2,
		BalancerMaxIterations:  10,
		ReferenceParticipation: 0.8,
	}, settings)
}

func TestHolidayProvider(t *testing.T) {
	cfg := &Config{WorkspacePath: "rota.yaml"}
	provider, err := cfg.HolidayProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	cfg.Holidays = HolidaysConfig{Country: "FR", RRules: []string{"FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=26"}}
	provider, err = cfg.HolidayProvider()
	require.NoError(t, err)
	require.NotNil(t, provider)

	december, err := provider.HolidaysFor(2025, time.December)
	require.NoError(t, err)
	assert.True(t, december.Contains(calendar.Date(2025, time.December, 25)))
	assert.True(t, december.Contains(calendar.Date(2025, time.December, 26)))
	assert.False(t, december.Contains(calendar.Date(2025, time.December, 24)))
}
