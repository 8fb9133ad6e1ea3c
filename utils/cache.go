package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveCache writes a value as indented JSON to the given path, creating parent
// directories as needed
func SaveCache(path string, value interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %v", err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %v", err)
	}

	return os.WriteFile(path, data, 0600)
}

// LoadCache reads a JSON file from the given path into out
func LoadCache(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal cache file %s: %v", path, err)
	}

	return nil
}
