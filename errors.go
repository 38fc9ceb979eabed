// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Error kinds. Use errors.Is to test the kind of an error returned by this
// package.
//
var (
	// ErrMalformedHeader reports a structural error in the declaration
	// section: missing $end, $upscope without matching $scope, incomplete $var.
	// In strict mode, also a bit selection that does not match the declared
	// width.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrSyntax reports a structural error in the value change section:
	// unparseable timestamp, truncated value change, unterminated block.
	ErrSyntax = errors.New("syntax error")
	// ErrUnknownIdentifier reports a value change for an identifier code that
	// was never declared. Only returned in strict mode.
	ErrUnknownIdentifier = errors.New("unknown identifier code")
	// ErrMalformedValue reports a value that cannot be parsed at all, a
	// vector wider than its declaration, or a value whose kind does not match
	// the variable type. Only returned in strict mode.
	ErrMalformedValue = errors.New("malformed value")
	// ErrOutOfOrder reports a change recorded at a time earlier than the last
	// recorded change of the same signal.
	ErrOutOfOrder = errors.New("time out of order")
	// ErrNotFound reports a failed lookup.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous reports a pattern matching more than one entity where a
	// single one was requested. See AmbiguousError.
	ErrAmbiguous = errors.New("ambiguous match")
)

// Stop can be returned by a Visitor to stop walking a dump. Walk and Parse
// then return a nil error.
//
var Stop = errors.New("stop")

// ParseError wraps errors found in VCD input.
//
type ParseError struct {
	Kind  error  // one of the Err* kinds
	Line  int    // 1 based line number
	Token string // offending token, if any
	Msg   string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("line ")
	b.WriteString(strconv.Itoa(e.Line))
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Token != "" {
		b.WriteString(" near ")
		b.WriteString(strconv.Quote(e.Token))
	}
	return b.String()
}

// Unwrap returns e.Kind.
//
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Cause returns e.Kind. It makes errors.Cause from github.com/pkg/errors
// return the error kind.
//
func (e *ParseError) Cause() error {
	return e.Kind
}

// AmbiguousError is returned when a pattern matches several entities where
// only one was expected. The matches are available to the caller.
//
type AmbiguousError struct {
	Pattern string
	Matches Matches
}

func (e *AmbiguousError) Error() string {
	return "pattern " + strconv.Quote(e.Pattern) + ": " + ErrAmbiguous.Error() + " (" + strconv.Itoa(len(e.Matches)) + " matches)"
}

// Is reports whether target is ErrAmbiguous.
//
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

func notFound(what, name string) error {
	return errors.Wrapf(ErrNotFound, "%s %q", what, name)
}
