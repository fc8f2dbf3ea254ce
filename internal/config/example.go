package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasktrack configuration file
# Values can be overridden by environment variables or CLI flags

# Task file (relative to the working directory; supports ~ and $VAR)
tasks_file = "tasks.json"

# Go time layout for the Created At / Updated At columns
time_format = "02/01/2006 15:04:05"

# Table border: normal, rounded, thick, double, ascii, hidden, markdown
table_border = "normal"

# Logging (written to stderr)
log_level = "warn"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
