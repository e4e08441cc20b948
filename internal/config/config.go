package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete donelist configuration
type Config struct {
	// DataDir holds the database, lock file and logs
	DataDir string `mapstructure:"data_dir"`
	// DBPath overrides the database location (default: {data_dir}/donelist.db)
	DBPath        string              `mapstructure:"db_path"`
	TUI           TUIConfig           `mapstructure:"tui"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme is the color theme. Options: "nord", "dracula", "gruvbox", "catppuccin"
	Theme string `mapstructure:"theme"`
	// Filter is the filter shown on startup. Options: "all", "pending", "completed"
	Filter string `mapstructure:"filter"`
}

// LoggingConfig controls the log file
type LoggingConfig struct {
	// Level is the minimum level written. Options: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
}

// NotificationsConfig controls desktop notifications
type NotificationsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default returns a Config with default values
func Default() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		DataDir: dataDir,
		DBPath:  "",
		TUI: TUIConfig{
			Theme:  "nord",
			Filter: "all",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Notifications: NotificationsConfig{
			Enabled: false,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("data_dir", defaults.DataDir)
	viper.SetDefault("db_path", defaults.DBPath)

	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.filter", defaults.TUI.Filter)

	viper.SetDefault("logging.level", defaults.Logging.Level)

	viper.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// DatabasePath returns DBPath, or the default file inside DataDir
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "donelist.db")
}

// DefaultDataDir returns ~/.local/share/donelist, honouring XDG_DATA_HOME
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "donelist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".donelist"
	}
	return filepath.Join(home, ".local", "share", "donelist")
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "donelist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".donelist"
	}
	return filepath.Join(home, ".config", "donelist")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
