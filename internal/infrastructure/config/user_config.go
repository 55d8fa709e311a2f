package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// UserConfig represents CLI preferences stored in ~/.coldroute/config.yaml.
// This file stores ONLY preferences, never credentials.
type UserConfig struct {
	// Daemon base URL the CLI talks to
	ServerURL string `mapstructure:"server_url"`

	// Depot used when a plan request does not name one
	DefaultDepotID string `mapstructure:"default_depot_id"`

	// Plan date used when a command does not pass --date (YYYY-MM-DD)
	DefaultPlanDate string `mapstructure:"default_plan_date"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a new user config handler
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".coldroute")
	configPath := filepath.Join(configDir, "config.yaml")

	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &UserConfigHandler{
		configPath: configPath,
	}, nil
}

// Load reads the user config from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	// If file doesn't exist, return empty config
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	v := viper.New()
	v.SetConfigFile(h.configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	v := viper.New()
	v.SetConfigFile(h.configPath)
	v.Set("server_url", config.ServerURL)
	v.Set("default_depot_id", config.DefaultDepotID)
	v.Set("default_plan_date", config.DefaultPlanDate)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetServerURL sets the daemon base URL
func (h *UserConfigHandler) SetServerURL(url string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.ServerURL = url
	return h.Save(config)
}

// SetDefaultDepot sets the default depot id
func (h *UserConfigHandler) SetDefaultDepot(depotID string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultDepotID = depotID
	return h.Save(config)
}

// SetDefaultPlanDate sets the default plan date
func (h *UserConfigHandler) SetDefaultPlanDate(planDate string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultPlanDate = planDate
	return h.Save(config)
}

// Clear removes all stored preferences
func (h *UserConfigHandler) Clear() error {
	return h.Save(&UserConfig{})
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
