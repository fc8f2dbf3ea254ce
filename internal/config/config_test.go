package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points HOME, XDG_CONFIG_HOME and the working directory at fresh
// temp dirs and clears TASKTRACK_* variables.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, ev := range envVars {
		t.Setenv(ev.name, "")
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("tasktrack", flag.ContinueOnError)
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TasksFile != DefaultTasksFile {
		t.Errorf("TasksFile: got %q, want %q", cfg.TasksFile, DefaultTasksFile)
	}
	if cfg.TimeFormat != "02/01/2006 15:04:05" {
		t.Errorf("TimeFormat: got %q", cfg.TimeFormat)
	}
	if cfg.TableBorder != "normal" {
		t.Errorf("TableBorder: got %q, want normal", cfg.TableBorder)
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadDefaultsResolveTasksFile(t *testing.T) {
	_, work := isolate(t)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	cfg := cws.Config

	// t.Chdir may resolve symlinks differently; compare by base and dir contents.
	if filepath.Base(cfg.TasksFile) != DefaultTasksFile {
		t.Errorf("TasksFile: got %q", cfg.TasksFile)
	}
	if !filepath.IsAbs(cfg.TasksFile) {
		t.Errorf("TasksFile should be absolute: %q", cfg.TasksFile)
	}
	if !sameDir(t, filepath.Dir(cfg.TasksFile), work) {
		t.Errorf("TasksFile dir: got %q, want %q", filepath.Dir(cfg.TasksFile), work)
	}
	for _, field := range configFields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if cfg.UserConfigFile != "" || cfg.ProjectConfigFile != "" {
		t.Errorf("no config files expected, got %q / %q", cfg.UserConfigFile, cfg.ProjectConfigFile)
	}
}

func sameDir(t *testing.T, a, b string) bool {
	t.Helper()
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func TestLoadPrecedence(t *testing.T) {
	home, _ := isolate(t)

	writeFile(t, filepath.Join(home, ".tasktrack", "tasktrack.toml"), `
tasks_file = "user.json"
time_format = "2006-01-02"
table_border = "rounded"
log_level = "info"
`)
	writeFile(t, "tasktrack.toml", `
time_format = "15:04"
table_border = "thick"
`)
	t.Setenv("TASKTRACK_TABLE_BORDER", "double")
	t.Setenv("TASKTRACK_LOG_LEVEL", "error")

	cws, err := LoadWithSources(newFlagSet(), []string{"-log-level", "debug", "list"})
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		key        string
		wantValue  string
		wantSource ConfigSource
	}{
		{"time_format", "15:04", SourceProjFile},
		{"table_border", "double", SourceEnv},
		{"log_level", "debug", SourceFlag},
		{"log_format", "text", SourceDefault},
		{"tasks_file", "", SourceUserFile},
	}
	for _, tt := range tests {
		if tt.wantValue != "" && cfg.Value(tt.key) != tt.wantValue {
			t.Errorf("%s: got %q, want %q", tt.key, cfg.Value(tt.key), tt.wantValue)
		}
		if cws.Sources[tt.key] != tt.wantSource {
			t.Errorf("source of %s: got %q, want %q", tt.key, cws.Sources[tt.key], tt.wantSource)
		}
	}
	if filepath.Base(cfg.TasksFile) != "user.json" {
		t.Errorf("TasksFile: got %q, want .../user.json", cfg.TasksFile)
	}
	if cfg.ProjectConfigFile != "tasktrack.toml" {
		t.Errorf("ProjectConfigFile: got %q", cfg.ProjectConfigFile)
	}
}

func TestLoadLeavesSubcommandArgs(t *testing.T) {
	isolate(t)

	fs := newFlagSet()
	if _, err := LoadWithSources(fs, []string{"-file", "other.json", "add", "Buy milk"}); err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	rest := fs.Args()
	if len(rest) != 2 || rest[0] != "add" || rest[1] != "Buy milk" {
		t.Errorf("remaining args: got %v", rest)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TASKTRACK_FILE", "custom.json")
	t.Setenv("TASKTRACK_LOG_TIMESTAMPS", "yes")
	t.Setenv("TASKTRACK_LOG_FORMAT", "json")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.TasksFile != "custom.json" {
		t.Errorf("TasksFile: got %q, want custom.json", cfg.TasksFile)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
	if sources["tasks_file"] != SourceEnv {
		t.Errorf("source: got %q, want environment", sources["tasks_file"])
	}
	if _, ok := sources["time_format"]; ok {
		t.Error("unset variables should not be tracked")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"border", []string{"-border", "fancy_grid"}, "table_border"},
		{"log level", []string{"-log-level", "loud"}, "log_level"},
		{"log format", []string{"-log-format", "xml"}, "log_format"},
		{"unknown flag", []string{"-nope"}, "parsing flags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := LoadWithSources(newFlagSet(), tt.args)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadBadTOML(t *testing.T) {
	isolate(t)
	writeFile(t, ".tasktrack.toml", "tasks_file = \n")

	_, err := LoadWithSources(newFlagSet(), nil)
	if err == nil {
		t.Fatal("expected error for malformed TOML")
	}
	if errors.Is(err, ErrInvalidFlags) {
		t.Errorf("TOML error should not be a flag error: %v", err)
	}
}

func TestLoadMarksFlagErrors(t *testing.T) {
	isolate(t)

	_, err := LoadWithSources(newFlagSet(), []string{"-bogus", "list"})
	if !errors.Is(err, ErrInvalidFlags) {
		t.Fatalf("got %v, want ErrInvalidFlags", err)
	}
}

func TestLoadWarnsOnUnknownKeys(t *testing.T) {
	isolate(t)
	writeFile(t, "tasktrack.toml", "colour = true\n")

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	cfg := cws.Config
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "colour") {
		t.Errorf("Warnings: got %v", cfg.Warnings)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := isolate(t)
	t.Setenv("TASKTRACK_TEST_DIR", "/srv/tasks")

	tests := map[string]string{
		"":                            "",
		"~":                           home,
		"~/tasks.json":                filepath.Join(home, "tasks.json"),
		"$TASKTRACK_TEST_DIR/a.json":  "/srv/tasks/a.json",
		"plain.json":                  "plain.json",
		"~user/tasks.json":            "~user/tasks.json",
		"$TASKTRACK_UNSET_DIR/a.json": "/a.json",
	}
	for in, want := range tests {
		if got := expandPath(in); got != want {
			t.Errorf("expandPath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("example config does not decode: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Errorf("example has unknown keys: %v", md.Undecoded())
	}
	for _, key := range configFields() {
		if !md.IsDefined(key) {
			t.Errorf("example is missing %s", key)
		}
	}
	if cfg.TasksFile != DefaultTasksFile {
		t.Errorf("example tasks_file: got %q", cfg.TasksFile)
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q) = false", s)
		}
	}
	for _, s := range []string{"0", "false", "no", ""} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q) = true", s)
		}
	}
}
