// Package config loads the recognized environment/configuration keys of
// SPEC_FULL.md §6.5 (time scale, QTE tuning, oracle backend settings, ...).
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// OracleSettings configures the pluggable NPC dialogue backend (§4.6, §6.5).
type OracleSettings struct {
	Enabled     bool          `yaml:"enabled"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
}

// Config holds every recognized key from §6.5.
type Config struct {
	TimeScale                float64        `yaml:"time_scale"`
	ComplexQTE               bool           `yaml:"complex_qte"`
	QTECodeMinLen            int            `yaml:"qte_code_min_len"`
	QTECodeMaxLen            int            `yaml:"qte_code_max_len"`
	QTEAlphabet              string         `yaml:"qte_alphabet"`
	DefaultOffensiveWindow   float64        `yaml:"default_offensive_window_minutes"`
	DefaultDefensiveWindow   float64        `yaml:"default_defensive_window_minutes"`
	InactivityThresholdSecs  float64        `yaml:"inactivity_threshold_seconds"`
	MinAttackAllCooldown     float64        `yaml:"min_attack_all_cooldown_minutes"`
	CLITickIntervalSeconds   float64        `yaml:"cli_tick_interval_seconds"`
	AmbientMinGapMinutes     float64        `yaml:"ambient_min_gap_minutes"`
	Oracle                   OracleSettings `yaml:"oracle"`
}

// Default returns the documented defaults for every key.
func Default() Config {
	return Config{
		TimeScale:               0.25,
		ComplexQTE:              false,
		QTECodeMinLen:           3,
		QTECodeMaxLen:           5,
		QTEAlphabet:             "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
		DefaultOffensiveWindow:  1.5,
		DefaultDefensiveWindow:  1.0,
		InactivityThresholdSecs: 20,
		MinAttackAllCooldown:    1,
		CLITickIntervalSeconds:  1,
		AmbientMinGapMinutes:    15,
		Oracle: OracleSettings{
			Enabled:     false,
			BaseURL:     "",
			Model:       "",
			Timeout:     20 * time.Second,
			Temperature: 0.7,
			MaxTokens:   256,
		},
	}
}

// Load builds a Config starting from Default(), optionally overlaying a YAML
// file, then applying `.env`/process environment overrides (environment wins,
// matching original_source/config.py's "env var takes precedence" rule).
func Load(yamlPath, dotenvPath string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if dotenvPath != "" {
		_ = godotenv.Load(dotenvPath) // optional; missing file is not fatal
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := envFloat("SV_TIME_SCALE"); ok && v > 0 {
		cfg.TimeScale = v
	}
	if v, ok := os.LookupEnv("SV_COMPLEX_QTE"); ok {
		cfg.ComplexQTE = strings.EqualFold(v, "true") || v == "1"
	}
	if v, ok := envFloat("SV_OFFENSIVE_QTE_WINDOW"); ok && v > 0 {
		cfg.DefaultOffensiveWindow = v
	}
	if v, ok := envFloat("SV_DEFENSIVE_QTE_WINDOW"); ok && v > 0 {
		cfg.DefaultDefensiveWindow = v
	}
	if v, ok := envFloat("SV_INACTIVITY_THRESHOLD_SECONDS"); ok && v > 0 {
		cfg.InactivityThresholdSecs = v
	}
	if v, ok := envFloat("SV_MIN_ATTACK_ALL_COOLDOWN"); ok && v > 0 {
		cfg.MinAttackAllCooldown = v
	}
	if v, ok := envFloat("SV_AMBIENT_MIN_GAP_MINUTES"); ok && v > 0 {
		cfg.AmbientMinGapMinutes = v
	}
	if v, ok := os.LookupEnv("SV_ORACLE_ENABLED"); ok {
		cfg.Oracle.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v, ok := os.LookupEnv("SV_ORACLE_BASE_URL"); ok {
		cfg.Oracle.BaseURL = v
	}
	if v, ok := os.LookupEnv("SV_ORACLE_MODEL"); ok {
		cfg.Oracle.Model = v
	}
}

func envFloat(key string) (float64, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SetTimeScale validates a new time scale per §4.1's failure semantics.
// Returns false if scale <= 0.
func (c *Config) SetTimeScale(scale float64) bool {
	if scale <= 0 {
		return false
	}
	c.TimeScale = scale
	return true
}
