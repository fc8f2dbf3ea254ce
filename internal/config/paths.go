package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPath expands $VAR references and a leading ~ in a task file path.
// A ~ that cannot be resolved is left in place.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
