package common

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads algorithm configuration from a YAML file
func LoadConfig(filePath string) (*AlgorithmConfig, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes, defaults and validates a YAML configuration document.
func ParseConfig(data []byte) (*AlgorithmConfig, error) {
	config, err := DecodeConfig(data)
	if err != nil {
		return nil, err
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// DecodeConfig only decodes a YAML configuration document. Callers that
// layer command line overrides on top validate afterwards.
func DecodeConfig(data []byte) (*AlgorithmConfig, error) {
	var config AlgorithmConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// SaveConfig saves algorithm configuration to a YAML file
func SaveConfig(config *AlgorithmConfig, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filePath, data, 0644)
}

// ParamFloat reads a numeric parameter. YAML decodes "1" as int and "0.5"
// as float64, and flags may hand over strings, so all three are accepted.
func ParamFloat(params map[string]interface{}, key string, def float64) (float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: parameter %s: %q is not a number", ErrInvalidConfig, key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: parameter %s: unsupported type %T", ErrInvalidConfig, key, raw)
	}
}

// ParamInt reads a non-fractional numeric parameter.
func ParamInt(params map[string]interface{}, key string, def int) (int, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint32:
		return int(v), nil
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: parameter %s: %q is not an integer", ErrInvalidConfig, key, v)
		}
		return i, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: parameter %s: %v is not an integer", ErrInvalidConfig, key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: parameter %s: unsupported type %T", ErrInvalidConfig, key, raw)
	}
}

// ParamString reads a string parameter.
func ParamString(params map[string]interface{}, key string, def string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: parameter %s: expected string, got %T", ErrInvalidConfig, key, raw)
	}
	return s, nil
}

// ParamBool reads a boolean parameter.
func ParamBool(params map[string]interface{}, key string, def bool) (bool, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: parameter %s: %q is not a boolean", ErrInvalidConfig, key, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: parameter %s: unsupported type %T", ErrInvalidConfig, key, raw)
	}
}
