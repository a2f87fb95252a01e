package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Decode unmarshals b into v using the codec selected by the extension of path.
// Supports: .yaml/.yml, .json, .toml
func Decode(path string, b []byte, v any) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, v)
	case ".json":
		return json.Unmarshal(b, v)
	case ".toml":
		return toml.Unmarshal(b, v)
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
}

// Encode marshals v with the codec selected by the extension of path.
// JSON output is indented to stay hand-editable.
func Encode(path string, v any) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Marshal(v)
	case ".json":
		return json.MarshalIndent(v, "", "    ")
	case ".toml":
		return toml.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported config extension: %s", ext)
	}
}
