package config

import "time"

// Config describes one import source: a saved-variables dump file
// exported by the game client.
type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Path     string         `yaml:"path"`
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
}

// GetRefreshInterval returns the refresh interval as time.Duration.
func (s *ConfigSettings) GetRefreshInterval() time.Duration {
	if s.RefreshInterval <= 0 {
		return 900 * time.Second
	}
	return time.Duration(s.RefreshInterval) * time.Second
}
