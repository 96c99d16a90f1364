package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/casare/config.yaml
Project-specific overrides can be placed in .casare.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("executor.max_parallel: %d\n", cfg.Executor.MaxParallel)
	fmt.Printf("executor.timeout_per_subtask: %s\n", cfg.Executor.TimeoutPerSubtask)
	fmt.Printf("executor.total_timeout: %s\n", cfg.Executor.TotalTimeout)
	fmt.Printf("executor.fail_fast: %t\n", cfg.Executor.FailFast)
	fmt.Printf("executor.enable_parallel: %t\n", cfg.Executor.EnableParallel)
	fmt.Printf("executor.cumulative_tokens: %t\n", cfg.Executor.CumulativeTokens)
	fmt.Printf("scheduler.skip_policy: %s\n", cfg.Scheduler.SkipPolicy)
	fmt.Printf("loop.max_iterations: %d\n", cfg.Loop.MaxIterations)
	fmt.Printf("cost.budget: %.2f\n", cfg.Cost.Budget)
	fmt.Printf("cost.default_model: %s\n", cfg.Cost.DefaultModel)
	fmt.Printf("logging.debug_log: %s\n", cfg.Logging.DebugLog)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "executor.max_parallel":
		return strconv.Itoa(cfg.Executor.MaxParallel), nil
	case "executor.timeout_per_subtask":
		return cfg.Executor.TimeoutPerSubtask.String(), nil
	case "executor.total_timeout":
		return cfg.Executor.TotalTimeout.String(), nil
	case "executor.fail_fast":
		return strconv.FormatBool(cfg.Executor.FailFast), nil
	case "executor.enable_parallel":
		return strconv.FormatBool(cfg.Executor.EnableParallel), nil
	case "executor.cumulative_tokens":
		return strconv.FormatBool(cfg.Executor.CumulativeTokens), nil
	case "scheduler.skip_policy":
		return cfg.Scheduler.SkipPolicy, nil
	case "loop.max_iterations":
		return strconv.Itoa(cfg.Loop.MaxIterations), nil
	case "cost.budget":
		return strconv.FormatFloat(cfg.Cost.Budget, 'f', 2, 64), nil
	case "cost.default_model":
		return cfg.Cost.DefaultModel, nil
	case "logging.debug_log":
		return cfg.Logging.DebugLog, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "executor.max_parallel":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_parallel: %w", err)
		}
		cfg.Executor.MaxParallel = n
	case "executor.timeout_per_subtask":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for timeout_per_subtask: %w", err)
		}
		cfg.Executor.TimeoutPerSubtask = d
	case "executor.total_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for total_timeout: %w", err)
		}
		cfg.Executor.TotalTimeout = d
	case "executor.fail_fast":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for fail_fast: %w", err)
		}
		cfg.Executor.FailFast = b
	case "executor.enable_parallel":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for enable_parallel: %w", err)
		}
		cfg.Executor.EnableParallel = b
	case "executor.cumulative_tokens":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for cumulative_tokens: %w", err)
		}
		cfg.Executor.CumulativeTokens = b
	case "scheduler.skip_policy":
		if value != "warn" && value != "abort" {
			return fmt.Errorf("skip_policy must be warn or abort, got %q", value)
		}
		cfg.Scheduler.SkipPolicy = value
	case "loop.max_iterations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_iterations: %w", err)
		}
		cfg.Loop.MaxIterations = n
	case "cost.budget":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for budget: %w", err)
		}
		cfg.Cost.Budget = f
	case "cost.default_model":
		cfg.Cost.DefaultModel = value
	case "logging.debug_log":
		cfg.Logging.DebugLog = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
