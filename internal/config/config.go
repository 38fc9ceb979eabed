// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the vcdcat configuration.
//
package config

import (
	"github.com/db47h/vcd"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
//
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the vcdcat configuration.
//
type Config struct {
	Parser ParserConfig `mapstructure:"parser"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// ParserConfig maps to the parser options.
//
type ParserConfig struct {
	Strict bool `mapstructure:"strict"`
	Flat   bool `mapstructure:"flat"`
	Extend bool `mapstructure:"extend"`
}

// OutputConfig selects the output format.
//
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig sets the level of diagnostics written to stderr.
//
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the configuration used when no configuration file is
// found.
//
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: FormatText},
		Log:    LogConfig{Level: "warn"},
	}
}

// Load reads the configuration file at path. If path is empty, a .vcdcat.toml,
// .vcdcat.yaml or .vcdcat.json file is looked up in the current directory, and
// the default configuration is returned if there is none.
//
func Load(path string) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("parser.strict", def.Parser.Strict)
	v.SetDefault("parser.flat", def.Parser.Flat)
	v.SetDefault("parser.extend", def.Parser.Extend)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("log.level", def.Log.Level)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".vcdcat")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the output format and log level.
//
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return errors.Errorf("invalid output format %q", c.Output.Format)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}

// Logger returns a development logger at the configured level.
//
func (c *Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	return zc.Build()
}

// Options returns the parser options for the configuration.
//
func (c *Config) Options(log *zap.Logger) []vcd.Option {
	opts := []vcd.Option{vcd.WithLogger(log)}
	if c.Parser.Strict {
		opts = append(opts, vcd.Strict())
	}
	if c.Parser.Flat {
		opts = append(opts, vcd.Flat())
	}
	if c.Parser.Extend {
		opts = append(opts, vcd.ExtendVectors())
	}
	return opts
}
