package monitor

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultThreshold is used when a config omits error_threshold.
const DefaultThreshold = 2

// Config is the immutable input of a Monitor.
//
// Threshold must not be negative. Zero means every single error warns, so the
// zero Config is not the default: it warns on the first error. Callers without
// configuration of their own pass DefaultConfig.
type Config struct {
	Scope     Scope `yaml:"error_scope,omitempty"`
	Threshold int   `yaml:"error_threshold"`
}

// DefaultConfig counts both kinds of errors and warns on the third.
func DefaultConfig() Config {
	return Config{Scope: ScopeBoth, Threshold: DefaultThreshold}
}

// LoadConfig decodes YAML from r over DefaultConfig. An empty document yields
// the defaults; unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode monitor config: %w", err)
	}
	return config, nil
}

// LoadConfigFile reads a YAML config from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open monitor config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
