// Package config handles lmspick configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (LMSPICK_*)
//  2. Config file (~/.config/lmspick/config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lmspick-dev/lmspick/internal/paths"
)

const (
	// DefaultAPIURL is the default content store endpoint.
	DefaultAPIURL = "https://lms.example.edu"
	// DefaultStartPath is the directory the picker opens in. The store
	// addresses its root as the empty string.
	DefaultStartPath = ""
	// DefaultCallbackPort of 0 lets the OS assign a free port for the
	// authorization callback listener.
	DefaultCallbackPort = 0
)

// Config holds the lmspick configuration.
type Config struct {
	v *viper.Viper
}

// Load reads configuration from all sources.
func Load() *Config {
	v := viper.New()

	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("store.name", "")
	v.SetDefault("auth.callback_port", DefaultCallbackPort)
	v.SetDefault("picker.start_path", DefaultStartPath)

	// Config file location
	if configDir, err := paths.ConfigRoot(); err == nil {
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("LMSPICK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found, but warn on other errors)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}

	return &Config{v: v}
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns a configuration value as int.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value interface{}) error {
	c.v.Set(key, value)

	configDir, err := paths.ConfigRoot()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	configFile := filepath.Join(configDir, "config.yaml")
	return c.v.WriteConfigAs(configFile)
}

// All returns all configuration as a flat map keyed by dotted setting names.
func (c *Config) All() map[string]interface{} {
	keys := c.v.AllKeys()
	settings := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		settings[key] = c.v.Get(key)
	}

	return settings
}

// APIURL returns the configured content store URL.
func (c *Config) APIURL() string {
	return c.GetString("api.url")
}

// StoreName returns the configured content store display name.
func (c *Config) StoreName() string {
	return c.GetString("store.name")
}

// CallbackPort returns the authorization callback listener port.
func (c *Config) CallbackPort() int {
	return c.GetInt("auth.callback_port")
}

// StartPath returns the directory the picker opens in.
func (c *Config) StartPath() string {
	return c.GetString("picker.start_path")
}
