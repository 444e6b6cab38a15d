package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/classmate-dev/classmate"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".classmate.yaml"
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence — only flags that were explicitly set)
	// Merge flags from the specific command and its parent (root) flags
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (CLASSMATE_* prefix)
	if err := k.Load(env.Provider("CLASSMATE_", ".", func(s string) string {
		// CLASSMATE_WORKSPACE_ROOT -> workspace.root
		// CLASSMATE_GENERATE_AUTO -> generate.auto
		// CLASSMATE_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "CLASSMATE_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildWorkspaceConfig constructs the library's WorkspaceConfig from koanf state.
func buildWorkspaceConfig() classmate.WorkspaceConfig {
	cfg := classmate.WorkspaceConfig{
		Root:         getStringWithFallback("root", "workspace.root", "."),
		UseGitignore: getBoolWithFallback("", "workspace.gitignore", true) && !k.Bool("no-gitignore"),
	}

	// Handle globs: check flag key first, then config key. Empty slices fall
	// through to the library defaults.
	if include := k.Strings("include"); len(include) > 0 {
		cfg.Include = include
	} else if include := k.Strings("workspace.include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := k.Strings("exclude"); len(exclude) > 0 {
		cfg.Exclude = exclude
	} else if exclude := k.Strings("workspace.exclude"); len(exclude) > 0 {
		cfg.Exclude = exclude
	}

	return cfg
}

// buildTriggerConfig constructs the library's TriggerConfig from koanf state.
func buildTriggerConfig() classmate.TriggerConfig {
	return classmate.TriggerConfig{
		Enabled: getBoolWithFallback("auto", "generate.auto", false),
		Prefix:  getStringWithFallback("prefix", "generate.prefix", classmate.DefaultPrefix),
		PrefixMode: classmate.PrefixMode(
			getStringWithFallback("prefix-mode", "generate.prefix-mode", string(classmate.PrefixFixed)),
		),
	}
}

// cliLogger returns the diagnostic logger for one command invocation.
// Diagnostics are verbose-only; serve always logs.
func cliLogger() *log.Logger {
	if getBoolWithFallback("verbose", "verbose", false) {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then
// returns the default. Bool flags are positive overrides: an unset flag merges
// its false default into koanf, so only a true flag value may win, otherwise
// the flag default would mask the config file. Default-true settings get a
// separate no-* flag instead.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if flagKey != "" && k.Bool(flagKey) {
		return true
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}
