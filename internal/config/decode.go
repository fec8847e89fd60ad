package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// DecodeJSON parses a dict-config document from JSON, the stdlib dialect.
func DecodeJSON(data []byte) (*Config, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid JSON: %w", err)
	}
	return decodeRaw(raw)
}

// DecodeYAML parses a dict-config document from YAML.
func DecodeYAML(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}
	return decodeRaw(normalizeYAMLMap(raw).(map[string]any))
}

// DecodeTOML parses a dict-config document from TOML.
func DecodeTOML(data []byte) (*Config, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("config: invalid TOML: %w", err)
	}
	return decodeRaw(raw)
}

// normalizeYAMLMap recursively converts map[string]interface{} keyed maps
// that gopkg.in/yaml.v3 may produce with non-string keys in nested
// positions, and map[any]any, into map[string]any so mapstructure's decode
// below can rely on a single shape throughout the tree.
func normalizeYAMLMap(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAMLMap(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAMLMap(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAMLMap(val)
		}
		return out
	default:
		return v
	}
}

func decodeRaw(raw map[string]any) (*Config, error) {
	if err := validateTopLevel(raw); err != nil {
		return nil, err
	}
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}
