// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// VCD is a parsed value change dump.
//
// A VCD is read-only once returned by Parse or Open and is safe for
// concurrent use.
//
type VCD struct {
	header Header
	index  *Index
	root   *Scope
	refs   map[string]string // path -> identifier code
	paths  []string          // declaration order

	begin, end uint64
	timed      bool
}

// Parse reads a dump from r.
//
// Unless the Flat option is given, the scope tree is built and available
// through Root, Scope and Var.
//
func Parse(r io.Reader, opts ...Option) (*VCD, error) {
	o := newOptions(opts)
	v := &VCD{
		index: NewIndex(),
		refs:  make(map[string]string),
	}
	b := &builder{vcd: v, log: o.log}
	if !o.flat {
		v.root = newScope("", "", nil)
		b.cur = v.root
	}
	var vis Visitor = b
	if o.visitor != nil {
		vis = visitors{b, o.visitor}
	}
	if err := walk(r, vis, o); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseString parses a dump held in a string.
//
func ParseString(s string, opts ...Option) (*VCD, error) {
	return Parse(strings.NewReader(s), opts...)
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open parses the dump file name. Gzip and zstd compressed files are detected
// and decompressed on the fly.
//
func Open(name string, opts ...Option) (*VCD, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	r, err := decompress(f)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	defer r.Close()
	v, err := Parse(r, opts...)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return v, nil
}

// OpenReader returns a reader for the possibly compressed dump read from r.
//
func OpenReader(r io.Reader) (io.ReadCloser, error) {
	return decompress(r)
}

func decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		z, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return z, nil
	case bytes.HasPrefix(magic, zstdMagic):
		d, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	}
	return io.NopCloser(br), nil
}

// Header returns the header information of the dump.
//
func (v *VCD) Header() Header { return v.header }

// Timescale returns the timescale of the dump. It is the zero Timescale if
// the dump does not declare one.
//
func (v *VCD) Timescale() Timescale { return v.header.Timescale }

// Index returns the identifier code index.
//
func (v *VCD) Index() *Index { return v.index }

// Root returns the root of the scope tree, or nil if the dump was parsed with
// the Flat option.
//
func (v *VCD) Root() *Scope { return v.root }

// BeginTime returns the first timestamp of the dump.
//
func (v *VCD) BeginTime() uint64 { return v.begin }

// EndTime returns the last timestamp of the dump.
//
func (v *VCD) EndTime() uint64 { return v.end }

// Paths returns the full path of every declared variable, in declaration
// order.
//
func (v *VCD) Paths() []string {
	p := make([]string, len(v.paths))
	copy(p, v.paths)
	return p
}

// References returns a copy of the path to identifier code mapping.
//
func (v *VCD) References() map[string]string {
	m := make(map[string]string, len(v.refs))
	for k, c := range v.refs {
		m[k] = c
	}
	return m
}

// Aliases returns the paths of all variables declared with the same
// identifier code as the variable at path.
//
func (v *VCD) Aliases(path string) ([]string, error) {
	c, ok := v.refs[path]
	if !ok {
		return nil, notFound("signal", path)
	}
	return v.index.Aliases(c), nil
}

// Signal returns the signal of the variable with the given full path.
//
func (v *VCD) Signal(path string) (*Signal, error) {
	c, ok := v.refs[path]
	if !ok {
		return nil, notFound("signal", path)
	}
	return v.index.get(c), nil
}

// Var returns the variable with the given full path.
//
func (v *VCD) Var(path string) (*Var, error) {
	m, err := v.Lookup(path)
	if err != nil {
		return nil, err
	}
	if m.Var == nil {
		return nil, notFound("variable", path)
	}
	return m.Var, nil
}

// Scope returns the scope with the given full path. An empty path returns the
// root scope.
//
func (v *VCD) Scope(path string) (*Scope, error) {
	if v.root == nil {
		return nil, errors.Wrap(notFound("scope", path), "no scope tree")
	}
	if path == "" {
		return v.root, nil
	}
	return v.root.Scope(path)
}

// Lookup returns the scope or variable with the given full path.
//
func (v *VCD) Lookup(path string) (Match, error) {
	if v.root != nil {
		return v.root.Lookup(path)
	}
	c, ok := v.refs[path]
	if !ok {
		return Match{}, notFound("path", path)
	}
	return Match{Path: path, Signal: v.index.get(c)}, nil
}

// Find returns the variables and scopes whose full path matches p. With a
// scope tree, matches are in depth first order (see Scope.Walk); without, only
// variables are searched, in declaration order.
//
func (v *VCD) Find(p Pattern) Matches {
	var ms Matches
	if v.root == nil {
		for _, path := range v.paths {
			if p.Match(path) {
				ms = append(ms, Match{Path: path, Signal: v.index.get(v.refs[path])})
			}
		}
		return ms
	}
	_ = v.root.Walk(func(m Match) error {
		if p.Match(m.Path) {
			ms = append(ms, m)
		}
		return nil
	})
	return ms
}

// FindOne returns the only variable or scope whose full path matches p. See
// Matches.One.
//
func (v *VCD) FindOne(p Pattern) (Match, error) {
	return v.Find(p).One(p)
}
