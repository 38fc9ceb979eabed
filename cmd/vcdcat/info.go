// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/db47h/vcd"
	"github.com/spf13/cobra"
)

type infoResponse struct {
	File      string   `json:"file" yaml:"file"`
	Date      string   `json:"date,omitempty" yaml:"date,omitempty"`
	Version   string   `json:"version,omitempty" yaml:"version,omitempty"`
	Comments  []string `json:"comments,omitempty" yaml:"comments,omitempty"`
	Timescale string   `json:"timescale,omitempty" yaml:"timescale,omitempty"`
	Scale     string   `json:"scale,omitempty" yaml:"scale,omitempty"` // seconds per time unit
	Begin     uint64   `json:"begin" yaml:"begin"`
	End       uint64   `json:"end" yaml:"end"`
	Vars      int      `json:"vars" yaml:"vars"`
	Signals   int      `json:"signals" yaml:"signals"`
	Scopes    int      `json:"scopes" yaml:"scopes"`
}

func (r *infoResponse) writeText(w io.Writer) error {
	fmt.Fprintf(w, "file:\t%s\n", r.File)
	fmt.Fprintf(w, "date:\t%s\n", r.Date)
	fmt.Fprintf(w, "version:\t%s\n", r.Version)
	for _, c := range r.Comments {
		fmt.Fprintf(w, "comment:\t%s\n", c)
	}
	fmt.Fprintf(w, "timescale:\t%s\n", r.Timescale)
	if r.Scale != "" {
		fmt.Fprintf(w, "scale:\t%s s\n", r.Scale)
	}
	fmt.Fprintf(w, "time:\t%d - %d\n", r.Begin, r.End)
	fmt.Fprintf(w, "variables:\t%d\n", r.Vars)
	fmt.Fprintf(w, "signals:\t%d\n", r.Signals)
	fmt.Fprintf(w, "scopes:\t%d\n", r.Scopes)
	return nil
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print the header and a summary of a dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.open(args[0])
			if err != nil {
				return err
			}
			h := v.Header()
			resp := infoResponse{
				File:      args[0],
				Date:      h.Date,
				Version:   h.Version,
				Comments:  h.Comments,
				Timescale: h.Timescale.String(),
				Begin:     v.BeginTime(),
				End:       v.EndTime(),
				Vars:      len(v.Paths()),
				Signals:   v.Index().Len(),
			}
			if s := h.Timescale.Scale(); s != nil {
				resp.Scale = s.String()
			}
			if root := v.Root(); root != nil {
				_ = root.Walk(func(m vcd.Match) error {
					if m.IsScope() {
						resp.Scopes++
					}
					return nil
				})
			}
			return FormatResponse(cmd.OutOrStdout(), &resp, a.cfg.Output.Format)
		},
	}
}
