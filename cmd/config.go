// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/wirefish/internal/logger"
	"github.com/telekom/wirefish/pkg/config"
	"github.com/telekom/wirefish/pkg/report"
)

const envPrefix = "wirefish"

const (
	flagConfig      = "config"
	flagFormat      = "format"
	flagJSON        = "json"
	flagCSV         = "csv"
	flagOutput      = "output"
	flagMetricsFile = "metrics-file"
	flagPorts       = "ports"
	flagTimeout     = "timeout"
	flagTTL         = "ttl"
	flagHopTimeout  = "hop-timeout"
	flagIface       = "iface"
	flagInterval    = "interval"
	flagDuration    = "duration"
	flagListen      = "listen"
)

// flagKeys maps flags to the config keys they set
var flagKeys = map[string]string{
	flagFormat:      "output.format",
	flagOutput:      "output.file",
	flagMetricsFile: "telemetry.metricsFile",
	flagTimeout:     "timeout",
	flagHopTimeout:  "hopTimeout",
	flagIface:       "monitor.iface",
	flagInterval:    "monitor.interval",
	flagDuration:    "monitor.duration",
	flagListen:      "monitor.listen",
}

// rangeKeys maps range flags to the config keys of their bounds
var rangeKeys = map[string][2]string{
	flagPorts: {"ports.from", "ports.to"},
	flagTTL:   {"ttl.start", "ttl.max"},
}

// initConfig sets up the config file and environment lookup of v
func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	cfgFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return err
	}
	if cfgFile != "" {
		// Use config file from the flag
		v.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".wirefish" (without an extension)
		if home, hErr := os.UserHomeDir(); hErr == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".wirefish")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	logger.FromContext(cmd.Context()).DebugContext(cmd.Context(), "Using config file", "path", v.ConfigFileUsed())
	return nil
}

// loadConfig merges flags, environment and config file into the configuration of mode.
// Flags set on the command line win over the environment, which wins over the file.
func loadConfig(cmd *cobra.Command, mode config.Mode, args []string) (*config.Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	if err := initConfig(cmd, v); err != nil {
		return nil, err
	}

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}
	for flag, keys := range rangeKeys {
		if err := bindRange(cmd, v, flag, keys); err != nil {
			return nil, err
		}
	}

	cfg := &config.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.Mode = mode
	if len(args) > 0 {
		cfg.Target = args[0]
	}
	if ok, _ := cmd.Flags().GetBool(flagJSON); ok {
		cfg.Output.Format = report.FormatJSON
	}
	if ok, _ := cmd.Flags().GetBool(flagCSV); ok {
		cfg.Output.Format = report.FormatCSV
	}
	return cfg, nil
}

// bindRange parses a from-to flag into its two bound keys.
// The flag default is only a fallback for the config file and environment.
func bindRange(cmd *cobra.Command, v *viper.Viper, flag string, keys [2]string) error {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		return nil
	}
	from, to, err := config.ParseRange(f.Value.String())
	if err != nil {
		return fmt.Errorf("--%s: %w", flag, err)
	}
	if f.Changed {
		v.Set(keys[0], from)
		v.Set(keys[1], to)
		return nil
	}
	v.SetDefault(keys[0], from)
	v.SetDefault(keys[1], to)
	return nil
}
