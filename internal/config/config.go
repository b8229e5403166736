// Package config provides configuration management for the face engine
package config

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Display   DisplayConfig   `mapstructure:"display"`
	Eyes      EyesConfig      `mapstructure:"eyes"`
	Mouth     MouthConfig     `mapstructure:"mouth"`
	Link      LinkConfig      `mapstructure:"link"`
	Gesture   GestureConfig   `mapstructure:"gesture"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// EngineConfig tunes the frame loop and driver selection
type EngineConfig struct {
	FPS        int    `mapstructure:"fps"`
	Mode       string `mapstructure:"mode"`        // normal or cycle
	ShowLabels bool   `mapstructure:"show_labels"` // mood labels in the top band
	Seed       int64  `mapstructure:"seed"`        // 0 = seed from entropy
}

// DisplayConfig sets the panel dimensions
type DisplayConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// EyesConfig nudges the eye rig
type EyesConfig struct {
	CyOffset int `mapstructure:"cy_offset"` // vertical rig shift, positive moves the eyes up
}

// MouthConfig tunes the mouth layout
type MouthConfig struct {
	WidthFactor    float64 `mapstructure:"width_factor"`
	BaselineOffset int     `mapstructure:"baseline_offset"`
	ExtraDown      int     `mapstructure:"extra_down"`
}

// LinkConfig configures the control link
type LinkConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// GestureConfig configures the gesture feed receiver
type GestureConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// TelemetryConfig configures the state/metrics surface
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns sensible default configuration. Display size and
// mouth tuning match the 2.8" panel the face was built for.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			FPS:        30,
			Mode:       "normal",
			ShowLabels: false,
			Seed:       0,
		},
		Display: DisplayConfig{
			Width:  320,
			Height: 240,
		},
		Eyes: EyesConfig{
			CyOffset: 0,
		},
		Mouth: MouthConfig{
			WidthFactor:    0.55 * (2.0 / 3.0),
			BaselineOffset: 18,
			ExtraDown:      20,
		},
		Link: LinkConfig{
			Enabled: true,
			Listen:  "127.0.0.1:7777",
		},
		Gesture: GestureConfig{
			Enabled: false,
			URL:     "http://localhost:8090",
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
			Listen:  "127.0.0.1:8085",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configDir, err := GetConfigDir()
	if err != nil {
		return cfg, err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("CORTEXFACE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// Config file not found, use defaults and create one
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the configuration to file
func Save(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("engine", cfg.Engine)
	viper.Set("display", cfg.Display)
	viper.Set("eyes", cfg.Eyes)
	viper.Set("mouth", cfg.Mouth)
	viper.Set("link", cfg.Link)
	viper.Set("gesture", cfg.Gesture)
	viper.Set("telemetry", cfg.Telemetry)
	viper.Set("logging", cfg.Logging)

	configPath := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configPath)
}

// Watch re-reads the file on change and invokes onChange. Animation state
// itself is never persisted; only tuning is reloadable.
func Watch(onChange func(fsnotify.Event)) {
	viper.OnConfigChange(onChange)
	viper.WatchConfig()
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cortexface"), nil
}
