// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/db47h/vcd"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type sample struct {
	Time    uint64 `json:"time" yaml:"time"`
	Seconds string `json:"seconds,omitempty" yaml:"seconds,omitempty"`
	Value   string `json:"value" yaml:"value"`
}

type valueResponse struct {
	Path    string   `json:"path" yaml:"path"`
	Code    string   `json:"code" yaml:"code"`
	Samples []sample `json:"samples" yaml:"samples"`
}

func (r *valueResponse) writeText(w io.Writer) error {
	for _, s := range r.Samples {
		if s.Seconds != "" {
			fmt.Fprintf(w, "%d\t%s s\t%s\n", s.Time, s.Seconds, s.Value)
		} else {
			fmt.Fprintf(w, "%d\t%s\n", s.Time, s.Value)
		}
	}
	return nil
}

func newValueCmd(a *app) *cobra.Command {
	var at, from, to uint64
	cmd := &cobra.Command{
		Use:   "value FILE PATH",
		Short: "Print the values of a signal",
		Long: `Print the values of the signal at PATH.

With --at, print the value in effect at that time. With --from and --to,
print the value at each time step of [from, to). Otherwise print all
recorded changes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.open(args[0])
			if err != nil {
				return err
			}
			s, err := v.Signal(args[1])
			if err != nil {
				return err
			}
			ts := v.Timescale()
			resp := valueResponse{Path: args[1], Code: s.Code}
			add := func(t uint64, val vcd.Value) error {
				smp := sample{Time: t, Value: val.String()}
				if !ts.IsZero() {
					d, err := ts.Seconds(t)
					if err != nil {
						return err
					}
					smp.Seconds = d.String()
				}
				resp.Samples = append(resp.Samples, smp)
				return nil
			}

			fl := cmd.Flags()
			switch {
			case fl.Changed("from") || fl.Changed("to"):
				if !fl.Changed("to") {
					to = v.EndTime() + 1
				}
				if to < from {
					return errors.Errorf("invalid range [%d, %d)", from, to)
				}
				t := from
				for val := range s.Slice(from, to) {
					if err = add(t, val); err != nil {
						return err
					}
					t++
				}
			case fl.Changed("at"):
				err = add(at, s.ValueAt(at))
			default:
				for t, val := range s.All() {
					if err = add(t, val); err != nil {
						break
					}
				}
			}
			if err != nil {
				return err
			}
			return FormatResponse(cmd.OutOrStdout(), &resp, a.cfg.Output.Format)
		},
	}
	fl := cmd.Flags()
	fl.Uint64Var(&at, "at", 0, "print the value at this time")
	fl.Uint64Var(&from, "from", 0, "start of the time range")
	fl.Uint64Var(&to, "to", 0, "end of the time range, excluded (default end of dump + 1)")
	return cmd
}
