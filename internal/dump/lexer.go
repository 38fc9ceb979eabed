// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dump tokenizes Value Change Dump text.
//
// VCD is whitespace delimited: the lexer only splits the input in words and
// tags each of them with a coarse class. Whether a word is an identifier code,
// a reference or a value is decided by the parser from context.
//
package dump

import (
	"io"
	"strings"
	"unicode"

	"github.com/db47h/vcd/internal/lex"
)

// Tokens
const (
	EOF     lex.Type = lex.EOF
	Keyword lex.Type = iota // $var, $end, ...
	Time                    // #1234
	Word                    // anything else
)

// Lexer returns a new lexer for VCD input.
//
func Lexer(r io.Reader) lex.Interface {
	return lex.New(r, lexInit)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' || unicode.IsSpace(r)
}

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case isSpace(r):
		l.AcceptWhile(isSpace)
		return nil
	case r == '$':
		return lexKeyword
	case r == '#':
		return lexTime
	}
	return lexWord
}

func word(l *lex.Lexer) string {
	var buf strings.Builder
	buf.Grow(8)
	buf.WriteRune(l.Current())
	r := l.Next()
	for r != lex.EOF && !isSpace(r) {
		buf.WriteRune(r)
		r = l.Next()
	}
	l.Backup()
	return buf.String()
}

func lexWord(l *lex.Lexer) lex.StateFn {
	l.Emit(Word, word(l))
	return nil
}

// lexKeyword emits a Keyword for "$" followed by letters. Other words starting
// with '$' are identifier codes.
//
func lexKeyword(l *lex.Lexer) lex.StateFn {
	w := word(l)
	typ := Keyword
	if len(w) < 2 {
		typ = Word
	}
	for _, r := range w[1:] {
		if !unicode.IsLetter(r) {
			typ = Word
			break
		}
	}
	l.Emit(typ, w)
	return nil
}

// lexTime emits the whole word. Checking that the digits are valid is the
// parser's job.
//
func lexTime(l *lex.Lexer) lex.StateFn {
	l.Emit(Time, word(l))
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(lex.EOF, "end of input")
	return lexEOF
}
