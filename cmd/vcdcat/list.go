// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type varEntry struct {
	Path    string   `json:"path" yaml:"path"`
	Code    string   `json:"code" yaml:"code"`
	Type    string   `json:"type" yaml:"type"`
	Width   int      `json:"width" yaml:"width"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

type listResponse struct {
	Vars []varEntry `json:"vars" yaml:"vars"`
}

func (r *listResponse) writeText(w io.Writer) error {
	fmt.Fprintln(w, "PATH\tCODE\tTYPE\tWIDTH\tALIASES")
	for _, v := range r.Vars {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", v.Path, v.Code, v.Type, v.Width, strings.Join(v.Aliases, " "))
	}
	return nil
}

func newListCmd(a *app) *cobra.Command {
	var glob bool
	cmd := &cobra.Command{
		Use:   "list FILE [PATTERN]",
		Short: "List declared variables",
		Long: `List the variables declared in FILE, in declaration order.

If PATTERN is given, only variables whose full path matches are listed.
PATTERN is a regular expression, or a glob with --glob.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pattern(args, 1, glob)
			if err != nil {
				return err
			}
			v, err := a.open(args[0])
			if err != nil {
				return err
			}
			var resp listResponse
			for _, path := range v.Paths() {
				if p != nil && !p.Match(path) {
					continue
				}
				s, err := v.Signal(path)
				if err != nil {
					return err
				}
				e := varEntry{Path: path, Code: s.Code, Type: s.Type, Width: s.Width}
				if vr, err := v.Var(path); err == nil {
					e.Type, e.Width = vr.Type, vr.Width
				}
				for _, al := range s.References() {
					if al != path {
						e.Aliases = append(e.Aliases, al)
					}
				}
				resp.Vars = append(resp.Vars, e)
			}
			return FormatResponse(cmd.OutOrStdout(), &resp, a.cfg.Output.Format)
		},
	}
	cmd.Flags().BoolVarP(&glob, "glob", "g", false, "PATTERN is a glob")
	return cmd
}
