package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig overlays the YAML file on Defaults. A missing file yields the
// defaults unchanged.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfg := Defaults()

	cfgFile, err := os.ReadFile(y.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys absent from the file keep their default values.
	if err := yaml.Unmarshal(cfgFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", y.filename, err)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML, replacing the file.
func (y *YAMLProvider) SaveConfig(cfg *ConfigData) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(y.filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(y.filename, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists reports whether the config file is present.
func (y *YAMLProvider) Exists() (bool, error) {
	_, err := os.Stat(y.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Path returns the config file name.
func (y *YAMLProvider) Path() string {
	return y.filename
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}
