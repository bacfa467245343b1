package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToJSON serializes v to JSON.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// ToYAML serializes v to YAML.
func ToYAML(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

// WriteReport writes v to path, choosing JSON or YAML by the file extension.
func WriteReport(path string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = ToJSON(v, true)
	case ".yaml", ".yml":
		data, err = ToYAML(v)
	default:
		return fmt.Errorf("unsupported report format %q (use .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
