package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jonathan/ats-tailor/internal/analysis"
	"github.com/jonathan/ats-tailor/internal/schemas"
	"github.com/jonathan/ats-tailor/internal/types"
	schemafiles "github.com/jonathan/ats-tailor/schemas"
)

// loadJobProfile reads a job profile from JSON or TOML. JSON input is checked against the
// job profile schema; a mismatch is reported as a warning because the scorer accepts partial profiles.
func loadJobProfile(path string) (*types.JobProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job profile file %s: %w", path, err)
	}

	var profile types.JobProfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse job profile TOML %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job profile JSON %s: %w", path, err)
		}
		if err := schemas.Validate(schemafiles.JobProfile, data); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: job profile failed schema validation: %v\n", err)
			} else {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: could not validate job profile: %v\n", err)
			}
		}
	}
	if err := analysis.ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("job profile %s: %w", path, err)
	}
	return &profile, nil
}

// writeJSON writes v as indented JSON, creating the output directory.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	if format != "table" && format != "json" {
		return fmt.Errorf("invalid --format %q: must be table or json", format)
	}
	return nil
}
