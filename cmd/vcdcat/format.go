// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"encoding/json"
	"io"
	"text/tabwriter"

	"github.com/db47h/vcd/internal/config"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// textWriter is implemented by responses that have a text format.
//
type textWriter interface {
	writeText(w io.Writer) error
}

// FormatResponse writes resp to w in the given format.
//
func FormatResponse(w io.Writer, resp interface{}, format string) error {
	switch format {
	case config.FormatJSON:
		return formatJSON(w, resp)
	case config.FormatYAML:
		return formatYAML(w, resp)
	case config.FormatText:
		tw, ok := resp.(textWriter)
		if !ok {
			return errors.Errorf("no text format for %T", resp)
		}
		return formatText(w, tw)
	}
	return errors.Errorf("unsupported format: %s", format)
}

func formatJSON(w io.Writer, resp interface{}) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func formatYAML(w io.Writer, resp interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return errors.Wrap(err, "failed to marshal YAML")
	}
	return enc.Close()
}

func formatText(w io.Writer, resp textWriter) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if err := resp.writeText(tw); err != nil {
		return err
	}
	return tw.Flush()
}

// streamWriter writes a sequence of records, one at a time.
//
type streamWriter interface {
	write(v interface{}) error
	close() error
}

type jsonStream struct{ enc *json.Encoder }

func (s jsonStream) write(v interface{}) error { return s.enc.Encode(v) }
func (s jsonStream) close() error              { return nil }

type yamlStream struct{ enc *yaml.Encoder }

func (s yamlStream) write(v interface{}) error { return s.enc.Encode(v) }
func (s yamlStream) close() error              { return s.enc.Close() }

type textStream struct{ w io.Writer }

func (s textStream) write(v interface{}) error { return v.(textWriter).writeText(s.w) }
func (s textStream) close() error              { return nil }

func newStreamWriter(w io.Writer, format string) (streamWriter, error) {
	switch format {
	case config.FormatJSON:
		return jsonStream{json.NewEncoder(w)}, nil
	case config.FormatYAML:
		return yamlStream{yaml.NewEncoder(w)}, nil
	case config.FormatText:
		return textStream{w}, nil
	}
	return nil, errors.Errorf("unsupported format: %s", format)
}
