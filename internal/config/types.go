package config

import (
	"fmt"
	"strconv"

	"github.com/nibzard/tasktrack/internal/render"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultTasksFile = "tasks.json"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for tasktrack.
type Config struct {
	// Storage
	TasksFile string `toml:"tasks_file"`

	// Output
	TimeFormat  string `toml:"time_format"`
	TableBorder string `toml:"table_border"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Computed
	WorkDir           string   `toml:"-"`
	UserConfigFile    string   `toml:"-"`
	ProjectConfigFile string   `toml:"-"`
	Warnings          []string `toml:"-"`
}

// configFields returns the configurable keys in display order.
func configFields() []string {
	return []string{
		"tasks_file",
		"time_format",
		"table_border",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	return configFields()
}

func setDefaults(cfg *Config) {
	cfg.TasksFile = DefaultTasksFile
	cfg.TimeFormat = render.DefaultTimeFormat
	cfg.TableBorder = render.DefaultBorder
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// Value returns the string form of the named field.
func (c *Config) Value(key string) string {
	switch key {
	case "tasks_file":
		return c.TasksFile
	case "time_format":
		return c.TimeFormat
	case "table_border":
		return c.TableBorder
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	}
	return ""
}

// setField sets the named field from its string form.
func setField(cfg *Config, key, value string) error {
	switch key {
	case "tasks_file":
		cfg.TasksFile = value
	case "time_format":
		cfg.TimeFormat = value
	case "table_border":
		cfg.TableBorder = value
	case "log_level":
		cfg.LogLevel = value
	case "log_format":
		cfg.LogFormat = value
	case "log_timestamps":
		cfg.LogTimestamps = boolFromString(value)
	case "log_caller":
		cfg.LogCaller = boolFromString(value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// copyField copies the named field from src to dst.
func copyField(dst, src *Config, key string) {
	_ = setField(dst, key, src.Value(key))
}
