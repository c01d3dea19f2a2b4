package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads reference tables from a JSON or YAML file and validates them.
func Load(path string) (*Tables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var t Tables
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &t)
	case ".json":
		err = json.Unmarshal(b, &t)
	default:
		return nil, fmt.Errorf("unsupported refdata format: %s", ext)
	}
	if err != nil {
		return nil, err
	}
	if t.DefaultWalkMinutes == 0 {
		t.DefaultWalkMinutes = 10
	}
	if t.DefaultTransitionMinutes == 0 {
		t.DefaultTransitionMinutes = 45
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
