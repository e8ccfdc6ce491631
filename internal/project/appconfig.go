// Package project persists nesting jobs and application settings as JSON.
// A missing settings file loads as defaults; a missing project file is an
// error.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppConfig holds user-level preferences that outlive any single job:
// default engine settings and the most recently opened project files.
type AppConfig struct {
	DefaultSheetWidth  float64  `json:"default_sheet_width"`
	DefaultSheetHeight float64  `json:"default_sheet_height"`
	DefaultMargin      float64  `json:"default_margin"`
	DefaultGap         float64  `json:"default_gap"`
	Theme              string   `json:"theme"`
	RecentProjects     []string `json:"recent_projects"`
}

// DefaultAppConfig returns the baseline settings a fresh install starts with.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultSheetWidth:  1220,
		DefaultSheetHeight: 2440,
		DefaultMargin:      0,
		DefaultGap:         3,
		Theme:              "system",
		RecentProjects:     []string{},
	}
}

// DefaultConfigDir returns ~/.nestcore, the default directory for settings
// and recent-project history (the current directory if the home directory
// cannot be determined).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".nestcore")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists cfg to path as indented JSON, creating any missing
// parent directories.
func SaveAppConfig(path string, cfg AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadAppConfig reads an AppConfig from path. A missing file yields
// DefaultAppConfig with no error.
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	if cfg.RecentProjects == nil {
		cfg.RecentProjects = []string{}
	}
	return cfg, nil
}

// AddRecentProject prepends path to cfg's recent list, deduplicating and
// capping it at maxRecent entries.
func AddRecentProject(cfg AppConfig, path string, maxRecent int) AppConfig {
	filtered := make([]string, 0, len(cfg.RecentProjects)+1)
	filtered = append(filtered, path)
	for _, p := range cfg.RecentProjects {
		if p != path {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) > maxRecent {
		filtered = filtered[:maxRecent]
	}
	cfg.RecentProjects = filtered
	return cfg
}
