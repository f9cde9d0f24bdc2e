// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads review-engine settings from an optional YAML file,
// REVIEW_ENGINE_* environment variables, and command-line flags, and builds
// the zap logger they describe.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/review-engine/pkg/types"
)

const (
	configName = "review-engine"
	envPrefix  = "REVIEW_ENGINE"
)

// flagKeys maps persistent flag names to the config keys they override.
var flagKeys = map[string]string{
	"project":   "project",
	"db":        "store.path",
	"log-level": "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project", "")
	v.SetDefault("store.path", "review.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("dedup.similarity_threshold", 0.90)
	v.SetDefault("dedup.max_length_gap", 10)
	v.SetDefault("advisor.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("advisor.api_key", "")
	v.SetDefault("advisor.max_retries", 3)
	v.SetDefault("advisor.max_tokens", 512)
}

// Load reads configuration. An explicit cfgFile must exist; otherwise
// review-engine.yaml is looked up in the working directory and
// ~/.config/review-engine/ and is optional. Flags in flags that were set on
// the command line take precedence over file and environment.
func Load(cfgFile string, flags *pflag.FlagSet) (*types.EngineConfig, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg types.EngineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// NewLogger builds a zap logger from cfg: "json" selects the production
// encoder, anything else the development console encoder.
func NewLogger(cfg types.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zapCfg.Level.SetLevel(lvl)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
