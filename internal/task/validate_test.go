package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantValid bool
		wantPath  string
	}{
		{
			name:      "valid file",
			data:      `[{"id":1,"description":"a","status":"todo","createdAt":"2026-10-17T09:00:00Z","updatedAt":"2026-10-17T09:00:00Z"}]`,
			wantValid: true,
		},
		{
			name:      "empty array",
			data:      `[]`,
			wantValid: true,
		},
		{
			name:      "legacy timestamps",
			data:      `[{"id":1,"description":"a","status":"done","createdAt":"17/10/2026 09:00:00","updatedAt":"17/10/2026 10:00:00"}]`,
			wantValid: true,
		},
		{
			name:      "not an array",
			data:      `{"tasks":[]}`,
			wantValid: false,
		},
		{
			name:      "invalid json",
			data:      `[{`,
			wantValid: false,
		},
		{
			name:      "unknown status",
			data:      `[{"id":1,"description":"a","status":"blocked","createdAt":"x","updatedAt":"x"}]`,
			wantValid: false,
			wantPath:  "[0].status",
		},
		{
			name:      "zero id",
			data:      `[{"id":0,"description":"a","status":"todo","createdAt":"x","updatedAt":"x"}]`,
			wantValid: false,
			wantPath:  "[0].id",
		},
		{
			name:      "missing description",
			data:      `[{"id":1,"status":"todo","createdAt":"x","updatedAt":"x"}]`,
			wantValid: false,
		},
		{
			name:      "unparseable timestamp",
			data:      `[{"id":1,"description":"a","status":"todo","createdAt":"whenever","updatedAt":"whenever"}]`,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]byte(tt.data))
			if result.Valid != tt.wantValid {
				t.Fatalf("Valid: got %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.wantPath == "" {
				return
			}
			found := false
			for _, err := range result.Errors {
				if strings.HasPrefix(err.Error(), tt.wantPath) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error at %s, got %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestValidateWarnsOnDuplicateIDs(t *testing.T) {
	data := `[
  {"id":2,"description":"two","status":"todo","createdAt":"2026-10-17T09:00:00Z","updatedAt":"2026-10-17T09:00:00Z"},
  {"id":3,"description":"three","status":"todo","createdAt":"2026-10-17T09:00:00Z","updatedAt":"2026-10-17T09:00:00Z"},
  {"id":3,"description":"four","status":"todo","createdAt":"2026-10-17T09:00:00Z","updatedAt":"2026-10-17T09:00:00Z"}
]`
	result := Validate([]byte(data))
	if !result.Valid {
		t.Fatalf("duplicates should not invalidate the file: %v", result.Errors)
	}
	if result.Tasks != 3 {
		t.Errorf("Tasks: got %d, want 3", result.Tasks)
	}

	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "duplicate id 3 at [1], [2]") {
		t.Errorf("missing duplicate warning, got %q", joined)
	}
}

func TestValidateWarnsOnUpcomingReuse(t *testing.T) {
	data := `[
  {"id":2,"description":"two","status":"todo","createdAt":"2026-10-17T09:00:00Z","updatedAt":"2026-10-17T09:00:00Z"},
  {"id":3,"description":"three","status":"todo","createdAt":"2026-10-17T09:00:00Z","updatedAt":"2026-10-17T09:00:00Z"}
]`
	result := Validate([]byte(data))
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "next added task would reuse id 3") {
		t.Errorf("missing reuse warning, got %q", joined)
	}
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if _, err := ValidateFile(path); err == nil {
		t.Error("expected error for missing file")
	}

	if err := os.WriteFile(path, []byte("[]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	result, err := ValidateFile(path)
	if err != nil {
		t.Fatalf("ValidateFile failed: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got %v", result.Errors)
	}
}

func TestDuplicateIDs(t *testing.T) {
	tasks := []Task{{ID: 4}, {ID: 1}, {ID: 4}, {ID: 1}, {ID: 2}}
	got := DuplicateIDs(tasks)
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Errorf("DuplicateIDs: got %v, want [1 4]", got)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"/":           "",
		"/0/status":   "[0].status",
		"#/12/id":     "[12].id",
		"/0/a~1b/c~0": "[0].a/b.c~",
	}
	for ptr, want := range tests {
		if got := jsonPointerToPath(ptr); got != want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", ptr, got, want)
		}
	}
}
