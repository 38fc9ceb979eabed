// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/db47h/vcd"
	"github.com/spf13/cobra"
)

type delta struct {
	Time  uint64 `json:"time" yaml:"time"`
	Path  string `json:"path" yaml:"path"`
	Code  string `json:"code" yaml:"code"`
	Value string `json:"value" yaml:"value"`
}

func (d *delta) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d\t%s\t%s\n", d.Time, d.Path, d.Value)
	return err
}

func newDeltasCmd(a *app) *cobra.Command {
	var (
		glob  bool
		limit int
	)
	cmd := &cobra.Command{
		Use:   "deltas FILE [PATTERN]",
		Short: "Stream value changes",
		Long: `Print the value changes of FILE as they are read, without loading the
dump in memory. Each change is reported with the path of the first variable
declared with its identifier code.

If PATTERN is given, only changes of variables whose full path matches are
printed. PATTERN is a regular expression, or a glob with --glob.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pattern(args, 1, glob)
			if err != nil {
				return err
			}
			out, err := newStreamWriter(cmd.OutOrStdout(), a.cfg.Output.Format)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r, err := vcd.OpenReader(f)
			if err != nil {
				return err
			}
			defer r.Close()

			opts := a.cfg.Options(a.log)
			if p != nil {
				opts = append(opts, vcd.WithFilter(p))
			}
			names := make(map[string]string)
			n := 0
			err = vcd.Walk(r, &vcd.Funcs{
				OnDeclare: func(d *vcd.VarDecl) error {
					if _, ok := names[d.Code]; !ok {
						names[d.Code] = d.Path
					}
					return nil
				},
				OnChange: func(t uint64, code string, v vcd.Value) error {
					if limit > 0 && n >= limit {
						return vcd.Stop
					}
					n++
					return out.write(&delta{Time: t, Path: names[code], Code: code, Value: v.String()})
				},
			}, opts...)
			if err != nil {
				return err
			}
			return out.close()
		},
	}
	cmd.Flags().BoolVarP(&glob, "glob", "g", false, "PATTERN is a glob")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many changes")
	return cmd
}
