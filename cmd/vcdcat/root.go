// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"github.com/db47h/vcd"
	"github.com/db47h/vcd/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = newRootCmd()

// app holds the global flags and the resolved configuration.
//
type app struct {
	configPath string
	format     string
	strict     bool
	flat       bool
	extend     bool
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "vcdcat",
		Short: "Print the content of Value Change Dump files",
		Long: `vcdcat reads Value Change Dump files, optionally gzip or zstd compressed,
and prints their declarations, header, and signal values.

Flags override the settings of the configuration file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "configuration file (default .vcdcat.{toml,yaml,json})")
	f.StringVarP(&a.format, "format", "f", "", "output format: text, json or yaml")
	f.BoolVar(&a.strict, "strict", false, "fail on undeclared codes, malformed values and backward time")
	f.BoolVar(&a.flat, "flat", false, "do not build the scope tree")
	f.BoolVar(&a.extend, "extend", false, "pad or truncate vector values to their declared width")
	f.StringVar(&a.logLevel, "log-level", "", "diagnostics level: debug, info, warn or error")

	root.AddCommand(
		newListCmd(a),
		newInfoCmd(a),
		newValueCmd(a),
		newDeltasCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	fl := cmd.Flags()
	if fl.Changed("format") {
		cfg.Output.Format = a.format
	}
	if fl.Changed("strict") {
		cfg.Parser.Strict = a.strict
	}
	if fl.Changed("flat") {
		cfg.Parser.Flat = a.flat
	}
	if fl.Changed("extend") {
		cfg.Parser.Extend = a.extend
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	if a.log, err = cfg.Logger(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) open(name string) (*vcd.VCD, error) {
	return vcd.Open(name, a.cfg.Options(a.log)...)
}

// pattern returns the pattern in args[i], or nil if there is none.
//
func pattern(args []string, i int, glob bool) (vcd.Pattern, error) {
	if len(args) <= i {
		return nil, nil
	}
	if glob {
		return vcd.Glob(args[i])
	}
	return vcd.Regexp(args[i])
}
