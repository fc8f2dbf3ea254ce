package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasktrack/internal/logging"
	"github.com/nibzard/tasktrack/internal/render"
)

// LoadWithSources loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasktrack/tasktrack.toml or OS-specific config dir)
// 3. Project config file (tasktrack.toml or .tasktrack.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// The returned ConfigWithSources records where each field's value came from.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cfg.UserConfigFile = userConfigFile
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cfg.ProjectConfigFile = projectConfigFile
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
	}, nil
}

// loadConfigFile loads TOML config from path, applying only the keys the
// file defines. Unknown keys are recorded as warnings.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	fileCfg := &Config{}
	md, err := toml.DecodeFile(path, fileCfg)
	if err != nil {
		return err
	}

	for _, key := range configFields() {
		if !md.IsDefined(key) {
			continue
		}
		copyField(cfg, fileCfg, key)
		sources[key] = source
	}

	for _, key := range md.Undecoded() {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	cfg.TasksFile = expandPath(strings.TrimSpace(cfg.TasksFile))
	if cfg.TasksFile == "" {
		cfg.TasksFile = DefaultTasksFile
	}
	if !filepath.IsAbs(cfg.TasksFile) {
		cfg.TasksFile = filepath.Join(cfg.WorkDir, cfg.TasksFile)
	}

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = render.DefaultTimeFormat
	}

	cfg.TableBorder = strings.ToLower(strings.TrimSpace(cfg.TableBorder))
	if cfg.TableBorder == "" {
		cfg.TableBorder = render.DefaultBorder
	}
	if !render.ValidBorder(cfg.TableBorder) {
		return fmt.Errorf("invalid table_border %q (expected %s)", cfg.TableBorder, strings.Join(render.BorderNames(), "|"))
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log_level %q (expected debug|info|warn|error|fatal)", cfg.LogLevel)
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid log_format %q (expected text|json|logfmt)", cfg.LogFormat)
	}

	return nil
}

func findProjectConfigFile() string {
	names := []string{"tasktrack.toml", ".tasktrack.toml"}
	for _, name := range names {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

func findUserConfigFile() string {
	// First try ~/.tasktrack/tasktrack.toml
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".tasktrack", "tasktrack.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	// Then the OS-specific config directory
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "tasktrack", "tasktrack.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
