package config

// ConfigProvider defines the interface for configuration data sources.
// Every provider starts from Defaults and overlays whatever keys it stores,
// so a missing source yields the default configuration.
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Persist a complete configuration snapshot
	SaveConfig(cfg *ConfigData) error

	// Exists reports whether the backing store holds any configuration
	Exists() (bool, error)

	// Path names the backing store for display
	Path() string

	Close() error
}
