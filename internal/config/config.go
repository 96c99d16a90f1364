// Package config handles configuration loading and management.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration.
type Config struct {
	Executor  ExecutorConfig  `mapstructure:"executor"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Loop      LoopConfig      `mapstructure:"loop"`
	Cost      CostConfig      `mapstructure:"cost"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ExecutorConfig holds execution settings for one chain.
type ExecutorConfig struct {
	// MaxParallel caps concurrent subtasks within a parallel phase.
	MaxParallel int `mapstructure:"max_parallel"`
	// TimeoutPerSubtask bounds each unit of work.
	TimeoutPerSubtask time.Duration `mapstructure:"timeout_per_subtask"`
	// TotalTimeout bounds the whole chain. Zero means unbounded.
	TotalTimeout time.Duration `mapstructure:"total_timeout"`
	// FailFast aborts remaining phases on the first subtask failure.
	FailFast bool `mapstructure:"fail_fast"`
	// EnableParallel allows eligible phases to fan out.
	EnableParallel bool `mapstructure:"enable_parallel"`
	// CumulativeTokens keeps token totals across runs on one executor.
	CumulativeTokens bool `mapstructure:"cumulative_tokens"`
}

// SchedulerConfig holds scheduling policy settings.
type SchedulerConfig struct {
	// SkipPolicy is what happens when a phase's dependencies are not
	// all satisfied: "warn" logs and skips, "abort" stops the run.
	SkipPolicy string `mapstructure:"skip_policy"`
}

// LoopConfig holds fix/review loop settings.
type LoopConfig struct {
	// MaxIterations bounds multi-round convergence on medium/low
	// severity issues.
	MaxIterations int `mapstructure:"max_iterations"`
}

// CostConfig holds budget and model settings.
type CostConfig struct {
	// Budget is the per-chain dollar budget for model assignment.
	Budget float64 `mapstructure:"budget"`
	// DefaultModel prices simulated usage records.
	DefaultModel string `mapstructure:"default_model"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// DebugLog is the debug log file path. Empty disables debug
	// logging.
	DebugLog string `mapstructure:"debug_log"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
//  1. Environment variables (CASARE_*)
//  2. Project config (.casare.yaml in current directory or parent)
//  3. User config (~/.config/casare/config.yaml)
//  4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CASARE")
	v.AutomaticEnv()
	v.BindEnv("executor.max_parallel", "CASARE_MAX_PARALLEL")
	v.BindEnv("executor.fail_fast", "CASARE_FAIL_FAST")
	v.BindEnv("cost.budget", "CASARE_BUDGET")
	v.BindEnv("logging.debug_log", "CASARE_DEBUG_LOG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("executor.max_parallel", cfg.Executor.MaxParallel)
	v.Set("executor.timeout_per_subtask", cfg.Executor.TimeoutPerSubtask.String())
	v.Set("executor.total_timeout", cfg.Executor.TotalTimeout.String())
	v.Set("executor.fail_fast", cfg.Executor.FailFast)
	v.Set("executor.enable_parallel", cfg.Executor.EnableParallel)
	v.Set("executor.cumulative_tokens", cfg.Executor.CumulativeTokens)
	v.Set("scheduler.skip_policy", cfg.Scheduler.SkipPolicy)
	v.Set("loop.max_iterations", cfg.Loop.MaxIterations)
	v.Set("cost.budget", cfg.Cost.Budget)
	v.Set("cost.default_model", cfg.Cost.DefaultModel)
	v.Set("logging.debug_log", cfg.Logging.DebugLog)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if
// it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("executor.max_parallel", 4)
	v.SetDefault("executor.timeout_per_subtask", "10m")
	v.SetDefault("executor.total_timeout", "0s")
	v.SetDefault("executor.fail_fast", false)
	v.SetDefault("executor.enable_parallel", true)
	v.SetDefault("executor.cumulative_tokens", false)

	v.SetDefault("scheduler.skip_policy", "warn")

	v.SetDefault("loop.max_iterations", 5)

	v.SetDefault("cost.budget", 10.0)
	v.SetDefault("cost.default_model", "claude-sonnet-4-20250514")

	v.SetDefault("logging.debug_log", "")
}

// getUserConfigDir returns the XDG config directory.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "casare")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "casare")
	}
	return filepath.Join(home, ".config", "casare")
}

// findProjectConfig searches for .casare.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".casare.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Executor: ExecutorConfig{
			MaxParallel:       4,
			TimeoutPerSubtask: 10 * time.Minute,
			EnableParallel:    true,
		},
		Scheduler: SchedulerConfig{
			SkipPolicy: "warn",
		},
		Loop: LoopConfig{
			MaxIterations: 5,
		},
		Cost: CostConfig{
			Budget:       10.0,
			DefaultModel: "claude-sonnet-4-20250514",
		},
	}
}
