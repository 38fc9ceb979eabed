// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lex provides a small state function based lexer.
//
// A lexer is driven by StateFn's: each state reads runes with Next, may emit
// items with Emit and returns the next state to run. A nil state makes the
// lexer go back to its initial state; the position where the initial state
// starts is recorded as the start of the next emitted item.
//
package lex

import (
	"bufio"
	"fmt"
	"io"
)

// EOF is both the rune returned by Next at end of input and the Type of the
// last item emitted by a lexer.
//
const EOF = -1

// Type is an item type. Values >= 0 are free for use by client packages.
//
type Type int

// Pos is a byte offset in the input stream.
//
type Pos int

// Item is a lexical item.
//
type Item struct {
	Type  Type
	Pos   Pos // start offset
	Line  int // start line, 1 based
	Value interface{}
}

func (i Item) String() string {
	switch i.Type {
	case EOF:
		return "end of input"
	}
	if s, ok := i.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", i.Value)
}

// Text returns the item value as a string, or the empty string if the value
// is not a string.
//
func (i Item) Text() string {
	s, _ := i.Value.(string)
	return s
}

// StateFn is a lexer state function.
//
type StateFn func(l *Lexer) StateFn

// Interface is the interface implemented by lexers.
//
type Interface interface {
	// Lex returns the next item. Once an EOF item has been returned,
	// subsequent calls return EOF items.
	Lex() Item
	// Err returns the first I/O error encountered, if any.
	Err() error
}

// Lexer reads runes from an io.Reader and runs state functions over them.
//
type Lexer struct {
	r     *bufio.Reader
	init  StateFn
	state StateFn
	items []Item

	cur    rune
	width  int  // byte width of cur
	backed bool // cur has been pushed back
	pos    Pos  // offset of the next rune to read
	line   int  // line of the next rune to read

	start     Pos
	startLine int
	err       error
}

// New returns a new lexer reading from r, starting in state init.
//
func New(r io.Reader, init StateFn) *Lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 64*1024)
	}
	return &Lexer{r: br, init: init, line: 1, startLine: 1}
}

// Lex implements Interface.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.start, l.startLine = l.pos, l.line
			l.state = l.init
		}
		l.state = l.state(l)
	}
	i := l.items[0]
	l.items = l.items[1:]
	if len(l.items) == 0 {
		// reuse the backing array
		l.items = l.items[:0:cap(l.items)]
	}
	return i
}

// Err implements Interface.
//
func (l *Lexer) Err() error {
	return l.err
}

// Next reads the next rune from the input. It returns EOF at end of input or
// on a read error (see Err).
//
func (l *Lexer) Next() rune {
	if l.backed {
		l.backed = false
	} else {
		r, w, err := l.r.ReadRune()
		if err != nil {
			if err != io.EOF && l.err == nil {
				l.err = err
			}
			r, w = EOF, 0
		}
		l.cur, l.width = r, w
	}
	l.pos += Pos(l.width)
	if l.cur == '\n' {
		l.line++
	}
	return l.cur
}

// Current returns the last rune returned by Next.
//
func (l *Lexer) Current() rune {
	return l.cur
}

// Backup pushes back the last rune read by Next. Only one rune can be pushed
// back.
//
func (l *Lexer) Backup() {
	if l.backed {
		panic("lex: Backup called twice")
	}
	l.backed = true
	l.pos -= Pos(l.width)
	if l.cur == '\n' {
		l.line--
	}
}

// AcceptWhile reads runes for as long as f returns true. The first rune for
// which f returns false is pushed back.
//
func (l *Lexer) AcceptWhile(f func(r rune) bool) {
	r := l.Next()
	for r != EOF && f(r) {
		r = l.Next()
	}
	l.Backup()
}

// Emit emits an item of type t with value v. The item position is the
// position where the current token started.
//
func (l *Lexer) Emit(t Type, v interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Line: l.startLine, Value: v})
	l.start, l.startLine = l.pos, l.line
}
