// Package config loads and saves mksyncd's settings (spec.md §6): the
// local screen name, logging knobs, the screen layout table, and the
// addresses the server and RemoteController listen on.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/logging"
)

var log = logging.L("config")

// Config mirrors default_configs.hpp's MKS_BASE_CONFIG_TABLE.
type Config struct {
	ScreenName        string                       `mapstructure:"screen_name"`
	MaxLogRecords     int                          `mapstructure:"max_log_records"`
	LogLevel          string                       `mapstructure:"log_level"`
	LogFile           string                       `mapstructure:"log_file"`
	ModuleList        []string                     `mapstructure:"module_list"`
	ScreenSettings    []events.VirtualScreenConfig `mapstructure:"screen_settings"`
	ServerIPAddress   string                       `mapstructure:"server_ipaddress"`
	RemoteController  string                       `mapstructure:"remote_controller"`
}

// Default mirrors default_configs.hpp's per-field default values.
func Default() *Config {
	return &Config{
		ScreenName:        "unknow",
		MaxLogRecords:     1000,
		LogLevel:          "warn",
		LogFile:           "",
		ServerIPAddress:   "0.0.0.0:8577",
		RemoteController:  "tcp://127.0.0.1:8578",
	}
}

// Load reads cfgFile (or the platform config dir's "mksync.yaml" when
// cfgFile is empty), overlays MKSYNC_-prefixed environment variables, and
// validates the result. Fatal validation errors block startup; warnings
// are logged and the offending field is clamped or defaulted in place.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("mksync")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("MKSYNC")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	result := cfg.ValidateTiered()
	for _, err := range result.Warnings {
		log.Warn("config validation", "error", err)
	}
	if result.HasFatals() {
		for _, err := range result.Fatals {
			log.Error("config validation fatal", "error", err)
		}
		return nil, fmt.Errorf("config has fatal validation errors: %v", result.Fatals[0])
	}

	return cfg, nil
}

// Save writes cfg to the platform config dir's default path.
func Save(cfg *Config) error {
	return SaveTo(cfg, "")
}

// SaveTo writes cfg as YAML to cfgFile, or the platform default path when
// cfgFile is empty.
func SaveTo(cfg *Config, cfgFile string) error {
	v := viper.New()
	v.Set("screen_name", cfg.ScreenName)
	v.Set("max_log_records", cfg.MaxLogRecords)
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_file", cfg.LogFile)
	v.Set("module_list", cfg.ModuleList)
	v.Set("screen_settings", cfg.ScreenSettings)
	v.Set("server_ipaddress", cfg.ServerIPAddress)
	v.Set("remote_controller", cfg.RemoteController)

	var cfgPath string
	if cfgFile != "" {
		cfgPath = cfgFile
		dir := filepath.Dir(cfgPath)
		if dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return err
			}
		}
	} else {
		cfgPath = filepath.Join(configDir(), "mksync.yaml")
		if err := os.MkdirAll(configDir(), 0700); err != nil {
			return err
		}
	}

	if err := v.WriteConfigAs(cfgPath); err != nil {
		return err
	}
	return os.Chmod(cfgPath, 0600)
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "mksync")
	case "darwin":
		return "/Library/Application Support/mksync"
	default:
		return "/etc/mksync"
	}
}
