package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/nibzard/tasktrack/tasks.schema.json"

// Schema returns the JSON Schema for the task file.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. [2].status
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	Tasks    int
}

// ValidateFile reads and validates the task file at path.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Validate(data), nil
}

// Validate checks raw task file contents against the schema and reports
// duplicate IDs as warnings.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Warnings = append(result.Warnings, "task file is empty")
		return result
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}

	schema, err := compileSchema()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
		return result
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: err})
		return result
	}
	result.Tasks = len(tasks)
	result.Warnings = append(result.Warnings, duplicateWarnings(tasks)...)

	return result
}

// DuplicateIDs returns IDs used by more than one task, in ascending order.
func DuplicateIDs(tasks []Task) []int {
	seen := make(map[int]int, len(tasks))
	for _, t := range tasks {
		seen[t.ID]++
	}
	var dups []int
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Ints(dups)
	return dups
}

func duplicateWarnings(tasks []Task) []string {
	var warnings []string
	for _, id := range DuplicateIDs(tasks) {
		var positions []string
		for i, t := range tasks {
			if t.ID == id {
				positions = append(positions, fmt.Sprintf("[%d]", i))
			}
		}
		warnings = append(warnings, fmt.Sprintf("duplicate id %d at %s", id, strings.Join(positions, ", ")))
	}

	next := NextID(tasks)
	for _, t := range tasks {
		if t.ID == next {
			warnings = append(warnings, fmt.Sprintf("next added task would reuse id %d", next))
			break
		}
	}
	return warnings
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load task schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}
	return schema, nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts "/2/status" into "[2].status".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
