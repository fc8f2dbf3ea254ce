package config

import "os"

// envVars maps environment variables to config keys.
var envVars = []struct {
	name string
	key  string
}{
	{"TASKTRACK_FILE", "tasks_file"},
	{"TASKTRACK_TIME_FORMAT", "time_format"},
	{"TASKTRACK_TABLE_BORDER", "table_border"},
	{"TASKTRACK_LOG_LEVEL", "log_level"},
	{"TASKTRACK_LOG_FORMAT", "log_format"},
	{"TASKTRACK_LOG_TIMESTAMPS", "log_timestamps"},
	{"TASKTRACK_LOG_CALLER", "log_caller"},
}

// loadFromEnv overrides config from environment variables.
// Empty variables are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, ev := range envVars {
		v := os.Getenv(ev.name)
		if v == "" {
			continue
		}
		if err := setField(cfg, ev.key, v); err != nil {
			continue
		}
		if sources != nil {
			sources[ev.key] = SourceEnv
		}
	}
}
