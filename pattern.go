// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// A Pattern selects paths.
//
type Pattern interface {
	Match(path string) bool
	String() string
}

type rePattern struct {
	re *regexp.Regexp
}

func (p rePattern) Match(path string) bool { return p.re.MatchString(path) }
func (p rePattern) String() string         { return p.re.String() }

// Regexp returns a pattern matching paths that contain a match of the regular
// expression expr. Use ^ and $ to anchor the expression.
//
func Regexp(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "pattern %q", expr)
	}
	return rePattern{re}, nil
}

// MustRegexp is like Regexp but panics on error.
//
func MustRegexp(expr string) Pattern {
	p, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return p
}

type globPattern struct {
	g    glob.Glob
	expr string
}

func (p globPattern) Match(path string) bool { return p.g.Match(path) }
func (p globPattern) String() string         { return p.expr }

// Glob returns a pattern matching whole paths against a glob expression with
// '.' as path separator: '*' matches within a path segment, '**' across
// segments. Brackets in signal names must be escaped: "top.out\[1:0\]".
//
func Glob(expr string) (Pattern, error) {
	g, err := glob.Compile(expr, '.')
	if err != nil {
		return nil, errors.Wrapf(err, "pattern %q", expr)
	}
	return globPattern{g, expr}, nil
}

// MustGlob is like Glob but panics on error.
//
func MustGlob(expr string) Pattern {
	p, err := Glob(expr)
	if err != nil {
		panic(err)
	}
	return p
}

type exactPattern map[string]struct{}

func (p exactPattern) Match(path string) bool {
	_, ok := p[path]
	return ok
}

func (p exactPattern) String() string {
	s := make([]string, 0, len(p))
	for k := range p {
		s = append(s, k)
	}
	sort.Strings(s)
	return strings.Join(s, "|")
}

// Exact returns a pattern matching only the given paths.
//
func Exact(paths ...string) Pattern {
	p := make(exactPattern, len(paths))
	for _, s := range paths {
		p[s] = struct{}{}
	}
	return p
}

// Match is a path matched by a Pattern. Exactly one of Scope or Signal is
// set. Var is set for signals when the scope tree is available.
//
type Match struct {
	Path   string
	Scope  *Scope
	Var    *Var
	Signal *Signal
}

// IsScope returns true if the match is a scope.
//
func (m *Match) IsScope() bool { return m.Scope != nil }

// Matches is a list of matches.
//
type Matches []Match

// Paths returns the path of each match.
//
func (ms Matches) Paths() []string {
	p := make([]string, len(ms))
	for i := range ms {
		p[i] = ms[i].Path
	}
	return p
}

// One returns the only match in ms. It fails with ErrNotFound if ms is empty
// and with an *AmbiguousError if ms has more than one match.
//
func (ms Matches) One(p Pattern) (Match, error) {
	switch len(ms) {
	case 0:
		return Match{}, notFound("pattern", p.String())
	case 1:
		return ms[0], nil
	}
	return Match{}, &AmbiguousError{Pattern: p.String(), Matches: ms}
}
