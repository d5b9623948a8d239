// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file, environment variables, and command-line flags, providing a unified
// configuration system.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Init initializes the application's configuration using Viper. It sets up
// default values, defines configuration search paths, and enables reading
// from environment variables. It is called once at startup, before any
// command runs.
func Init(cfgFile string, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")                 // current working directory
		viper.AddConfigPath("/etc/lexharvest/")  // system-wide configuration
		viper.AddConfigPath("$HOME/.lexharvest") // user-specific configuration
	}

	// Defaults mirror the flag defaults so a bare invocation harvests the
	// full index into data/.
	viper.SetDefault("harvest.base_url", "https://www.urbandictionary.com")
	viper.SetDefault("harvest.browse_path", "/browse.php")
	viper.SetDefault("harvest.output_template", "data/{0}.data")
	viper.SetDefault("harvest.input_file", "input.list")
	viper.SetDefault("harvest.max_workers", 20)
	viper.SetDefault("harvest.max_attempts", 10)
	viper.SetDefault("harvest.base_delay", "10s")
	viper.SetDefault("harvest.remove_dead", false)
	viper.SetDefault("harvest.entry_selector", "ul.mt-3.columns-2 li a")
	viper.SetDefault("harvest.next_selector", "a[rel=next]")
	viper.SetDefault("harvest.user_agent", "lexharvest/1.0 (+https://github.com/lexharvest/lexharvest)")
	viper.SetDefault("harvest.request_timeout", "15s")
	viper.SetDefault("harvest.metrics_addr", "")
	viper.SetDefault("harvest.history_path", "")

	viper.SetEnvPrefix("LEXHARVEST") // e.g. LEXHARVEST_HARVEST_MAX_WORKERS=8
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.Debug("no config file found; using defaults and environment")
		} else {
			logger.Warn("error reading config file", zap.Error(err))
		}
	} else {
		logger.Info("using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
