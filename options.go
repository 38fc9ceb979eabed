// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"go.uber.org/zap"
)

// An Option configures Parse, Open and Walk.
//
type Option func(*options)

type options struct {
	flat    bool
	strict  bool
	extend  bool
	filter  Pattern
	visitor Visitor
	log     *zap.Logger
}

func newOptions(opts []Option) *options {
	o := &options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Flat disables the construction of the scope tree. Signals remain
// accessible by full path, pattern and identifier code.
//
func Flat() Option {
	return func(o *options) { o.flat = true }
}

// Strict makes content anomalies fatal: value changes for undeclared
// identifier codes, unparseable values, vectors wider than their declaration
// and time going backwards.
//
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// ExtendVectors pads or truncates vector values to the declared width of
// their variable. See Value.Extend. Without this option, values are recorded
// as found in the dump.
//
func ExtendVectors() Option {
	return func(o *options) { o.extend = true }
}

// WithFilter restricts the variables that are declared, and the identifier
// codes whose changes are reported, to those whose full path matches p.
//
func WithFilter(p Pattern) Option {
	return func(o *options) { o.filter = p }
}

// WithVisitor makes Parse and Open deliver parsing events to v in addition to
// building the in-memory representation of the dump. v is called after the
// internal visitor.
//
func WithVisitor(v Visitor) Option {
	return func(o *options) { o.visitor = v }
}

// WithLogger sets the logger used to report tolerated anomalies at Debug
// level. The default logger discards everything.
//
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
