package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// flagChanged reports whether flagName was set on the command line. A nil
// command or an empty flag name never counts as set.
func flagChanged(cmd *cobra.Command, flagName string) bool {
	if cmd == nil || flagName == "" {
		return false
	}
	return cmd.Flags().Changed(flagName)
}

// ApplyStringConfig applies a config file string value if the flag was not explicitly set
// and the config value is present. Returns the effective value and its source.
func ApplyStringConfig(cmd *cobra.Command, flagName string, currentValue string, configValue *string) (string, ConfigSource) {
	if flagChanged(cmd, flagName) {
		return currentValue, SourceFlag
	}
	if configValue != nil {
		return *configValue, SourceConfigFile
	}
	return currentValue, SourceDefault
}

// ApplyIntConfig applies a config file int value if the flag was not explicitly set
// and the config value is present. Returns the effective value and its source.
func ApplyIntConfig(cmd *cobra.Command, flagName string, currentValue int, configValue *int) (int, ConfigSource) {
	if flagChanged(cmd, flagName) {
		return currentValue, SourceFlag
	}
	if configValue != nil {
		return *configValue, SourceConfigFile
	}
	return currentValue, SourceDefault
}

// ApplyBoolConfig applies a config file bool value if the flag was not explicitly set
// and the config value is present. Returns the effective value and its source.
// This is critical for preventing boolean false from overriding config true values.
func ApplyBoolConfig(cmd *cobra.Command, flagName string, currentValue bool, configValue *bool) (bool, ConfigSource) {
	if flagChanged(cmd, flagName) {
		return currentValue, SourceFlag
	}
	if configValue != nil {
		return *configValue, SourceConfigFile
	}
	return currentValue, SourceDefault
}

// ApplyDurationConfig is ApplyStringConfig for durations written as strings
// in the config file.
func ApplyDurationConfig(cmd *cobra.Command, flagName string, currentValue time.Duration, configValue *string) (time.Duration, ConfigSource, error) {
	if flagChanged(cmd, flagName) {
		return currentValue, SourceFlag, nil
	}
	if configValue != nil {
		d, err := ParseDuration(*configValue)
		if err != nil {
			return currentValue, SourceDefault, err
		}
		return d, SourceConfigFile, nil
	}
	return currentValue, SourceDefault, nil
}

// ApplyEnvString applies an environment variable string value if set and flag was not changed.
// This handles the priority: config.toml < .env < env < flag
func ApplyEnvString(cmd *cobra.Command, flagName string, currentValue string, env EnvVar, currentSource ConfigSource) (string, ConfigSource) {
	if flagChanged(cmd, flagName) {
		return currentValue, SourceFlag
	}
	if env.IsSet() {
		return env.Value, env.Source
	}
	return currentValue, currentSource
}

// ApplyEnvBool applies an environment variable bool value if set and flag was not changed.
// Any non-empty value enables the setting, as with NO_COLOR.
func ApplyEnvBool(cmd *cobra.Command, flagName string, currentValue bool, env EnvVar, currentSource ConfigSource) (bool, ConfigSource) {
	if flagChanged(cmd, flagName) {
		return currentValue, SourceFlag
	}
	if env.IsSet() {
		return true, env.Source
	}
	return currentValue, currentSource
}

// ApplyEnvInt applies an environment variable int value if set and flag was not changed.
func ApplyEnvInt(cmd *cobra.Command, flagName string, currentValue int, env EnvVar, currentSource ConfigSource) (int, ConfigSource, error) {
	if flagChanged(cmd, flagName) {
		return currentValue, SourceFlag, nil
	}
	if env.IsSet() {
		n, err := strconv.Atoi(env.Value)
		if err != nil {
			return currentValue, currentSource, fmt.Errorf("invalid integer %q", env.Value)
		}
		return n, env.Source, nil
	}
	return currentValue, currentSource, nil
}

// ApplyEnvDuration applies an environment variable duration if set and flag was not changed.
func ApplyEnvDuration(cmd *cobra.Command, flagName string, currentValue time.Duration, env EnvVar, currentSource ConfigSource) (time.Duration, ConfigSource, error) {
	if flagChanged(cmd, flagName) {
		return currentValue, SourceFlag, nil
	}
	if env.IsSet() {
		d, err := ParseDuration(env.Value)
		if err != nil {
			return currentValue, currentSource, err
		}
		return d, env.Source, nil
	}
	return currentValue, currentSource, nil
}

// ParseDuration parses a Go duration string. "0" and the empty string mean zero.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use values like 500ms, 2s, 1m)", s)
	}
	return d, nil
}

// flagString returns the flag's value when it was set, def otherwise.
func flagString(cmd *cobra.Command, flagName, def string) string {
	if !flagChanged(cmd, flagName) {
		return def
	}
	v, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return def
	}
	return v
}

func flagInt(cmd *cobra.Command, flagName string, def int) int {
	if !flagChanged(cmd, flagName) {
		return def
	}
	v, err := cmd.Flags().GetInt(flagName)
	if err != nil {
		return def
	}
	return v
}

func flagBool(cmd *cobra.Command, flagName string, def bool) bool {
	if !flagChanged(cmd, flagName) {
		return def
	}
	v, err := cmd.Flags().GetBool(flagName)
	if err != nil {
		return def
	}
	return v
}

func flagDuration(cmd *cobra.Command, flagName string, def time.Duration) time.Duration {
	if !flagChanged(cmd, flagName) {
		return def
	}
	v, err := cmd.Flags().GetDuration(flagName)
	if err != nil {
		return def
	}
	return v
}
