package whitelist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformedConfig is returned when a whitelist document cannot be parsed or
// does not match the expected structure. Callers typically fall back to an
// empty whitelist.
var ErrMalformedConfig = errors.New("malformed whitelist config")

// Parse decodes a JSON whitelist document:
//
//	{
//	  "global": {"headers": ["date"], "payload_keys": ["timestamp"]},
//	  "local": [{"host": "api.example.com", "headers": ["x-request-id"]}]
//	}
//
// Both top-level members are optional.
func Parse(data []byte) (*Config, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return decode(doc, data)
}

// ParseYAML decodes a whitelist document written in YAML with the same structure
// as the JSON form.
func ParseYAML(data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	// Round-trip through JSON so validation and decoding share one path.
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	var jsonDoc any
	if err := json.Unmarshal(jsonData, &jsonDoc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return decode(jsonDoc, jsonData)
}

// Load reads a whitelist file. Files ending in .yaml or .yml are parsed as YAML,
// everything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading whitelist file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

func decode(doc any, data []byte) (*Config, error) {
	if errs := validate(doc); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformedConfig, strings.Join(errs, "; "))
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return &cfg, nil
}
