package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the application's configuration structure.
type Config struct {
	LogLevel string
}

// LoadConfig loads the config from a file if specified, otherwise from
// the environment and flags.
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	viper.SetDefault("logLevel", "info")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("REPCRECD")
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	if configFile, err := cmd.Flags().GetString("config-file"); err == nil && configFile != "" {
		viper.SetConfigFile(configFile)

		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
