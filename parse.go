// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/db47h/vcd/internal/dump"
	"github.com/db47h/vcd/internal/lex"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	stateHeader = iota
	stateBody
)

// varInfo is what the parser remembers about an identifier code.
//
type varInfo struct {
	width    int
	kind     Kind
	selected bool // at least one declaration passed the filter
}

type parser struct {
	l      lex.Interface
	v      Visitor
	o      *options
	state  int
	scopes []string // full paths of open scopes
	vars   map[string]*varInfo
	hdr    Header
	time   uint64
	timed  bool
}

// Walk parses a dump read from r and delivers parsing events to v. Values are
// not retained: memory use only depends on the number of declared variables.
//
// If v returns Stop, Walk stops reading and returns nil.
//
func Walk(r io.Reader, v Visitor, opts ...Option) error {
	o := newOptions(opts)
	if o.visitor != nil {
		v = visitors{v, o.visitor}
	}
	return walk(r, v, o)
}

func walk(r io.Reader, v Visitor, o *options) error {
	p := &parser{
		l:    dump.Lexer(r),
		v:    v,
		o:    o,
		vars: make(map[string]*varInfo),
	}
	err := p.run()
	if errors.Is(err, Stop) {
		return nil
	}
	return err
}

func (p *parser) run() error {
	for {
		i := p.l.Lex()
		if i.Type == dump.EOF {
			if err := p.l.Err(); err != nil {
				return errors.Wrap(err, "read failed")
			}
			if p.state == stateHeader {
				p.o.log.Debug("end of input in declaration section", zap.Int("line", i.Line))
			}
			return nil
		}
		var err error
		if p.state == stateHeader {
			err = p.header(i)
		} else {
			err = p.body(i)
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) errorf(kind error, i lex.Item, format string, args ...interface{}) error {
	return errors.WithStack(&ParseError{
		Kind:  kind,
		Line:  i.Line,
		Token: i.Text(),
		Msg:   fmt.Sprintf(format, args...),
	})
}

// anomaly reports a content error: fatal in strict mode, logged otherwise.
//
func (p *parser) anomaly(kind error, i lex.Item, msg string) error {
	if p.o.strict {
		return p.errorf(kind, i, "%s", msg)
	}
	p.o.log.Debug(msg,
		zap.String("kind", kind.Error()),
		zap.Int("line", i.Line),
		zap.String("token", i.Text()))
	return nil
}

// block returns the words following keyword kw up to the matching $end.
//
func (p *parser) block(kw lex.Item, kind error) ([]string, error) {
	var words []string
	for {
		i := p.l.Lex()
		switch {
		case i.Type == dump.EOF:
			if err := p.l.Err(); err != nil {
				return nil, errors.Wrap(err, "read failed")
			}
			return nil, p.errorf(kind, kw, "missing $end")
		case i.Type == dump.Keyword && i.Text() == "$end":
			return words, nil
		}
		words = append(words, i.Text())
	}
}

func (p *parser) scope() string {
	if len(p.scopes) == 0 {
		return ""
	}
	return p.scopes[len(p.scopes)-1]
}

func (p *parser) header(i lex.Item) error {
	if i.Type != dump.Keyword {
		return p.errorf(ErrMalformedHeader, i, "unexpected token in declaration section")
	}
	kw := i.Text()
	if kw == "$end" {
		return p.errorf(ErrMalformedHeader, i, "$end without matching keyword")
	}
	words, err := p.block(i, ErrMalformedHeader)
	if err != nil {
		return err
	}
	switch kw {
	case "$date":
		p.hdr.Date = strings.Join(words, " ")
	case "$version":
		p.hdr.Version = strings.Join(words, " ")
	case "$comment":
		p.hdr.Comments = append(p.hdr.Comments, strings.Join(words, " "))
	case "$timescale":
		ts, err := ParseTimescale(words...)
		if err != nil {
			return p.errorf(ErrMalformedHeader, i, "%v", err)
		}
		p.hdr.Timescale = ts
	case "$scope":
		var typ, name string
		switch len(words) {
		case 0:
			return p.errorf(ErrMalformedHeader, i, "missing scope name")
		case 1:
			name = words[0]
		default:
			typ, name = words[0], strings.Join(words[1:], "")
		}
		p.scopes = append(p.scopes, joinPath(p.scope(), name))
		return p.v.EnterScope(typ, name)
	case "$upscope":
		if len(p.scopes) == 0 {
			return p.errorf(ErrMalformedHeader, i, "$upscope without matching $scope")
		}
		p.scopes = p.scopes[:len(p.scopes)-1]
		return p.v.LeaveScope()
	case "$var":
		return p.declare(i, words)
	case "$enddefinitions":
		if len(p.scopes) > 0 {
			p.o.log.Debug("unclosed scopes at $enddefinitions",
				zap.Int("line", i.Line),
				zap.Strings("scopes", p.scopes))
		}
		p.state = stateBody
		return p.v.EndDefinitions(&p.hdr)
	default:
		p.o.log.Debug("skipping unknown declaration", zap.Int("line", i.Line), zap.String("keyword", kw))
	}
	return nil
}

func (p *parser) declare(i lex.Item, words []string) error {
	if len(words) < 4 {
		return p.errorf(ErrMalformedHeader, i, "incomplete $var declaration")
	}
	width, err := strconv.Atoi(words[1])
	if err != nil || width <= 0 {
		return p.errorf(ErrMalformedHeader, i, "invalid width %q", words[1])
	}
	ref, err := dump.ParseRef(words[3:]...)
	if err != nil {
		return p.errorf(ErrMalformedHeader, i, "%v", err)
	}
	if sw := ref.Width(); sw != 0 && sw != width {
		msg := fmt.Sprintf("bit selection of %s does not match width %d", ref.Name, width)
		if err := p.anomaly(ErrMalformedHeader, i, msg); err != nil {
			return err
		}
	}
	scope := p.scope()
	d := &VarDecl{
		Type:   words[0],
		Width:  width,
		Code:   words[2],
		Name:   ref.Name,
		Base:   ref.Base,
		Path:   joinPath(scope, ref.Name),
		Scope:  scope,
		MSB:    ref.MSB,
		LSB:    ref.LSB,
		Ranged: ref.Ranged || ref.Index,
	}
	vi := p.vars[d.Code]
	if vi == nil {
		vi = &varInfo{width: width, kind: KindOf(d.Type, width)}
		p.vars[d.Code] = vi
	}
	if p.o.filter != nil && !p.o.filter.Match(d.Path) {
		return nil
	}
	vi.selected = true
	return p.v.Declare(d)
}

func (p *parser) body(i lex.Item) error {
	switch i.Type {
	case dump.Time:
		return p.setTime(i)
	case dump.Keyword:
		switch kw := i.Text(); kw {
		case "$dumpvars", "$dumpall", "$dumpon", "$dumpoff":
			return p.dumpBlock(i)
		case "$end":
			p.o.log.Debug("stray $end", zap.Int("line", i.Line))
		default:
			if _, err := p.block(i, ErrSyntax); err != nil {
				return err
			}
			if kw != "$comment" {
				p.o.log.Debug("skipping unknown command", zap.Int("line", i.Line), zap.String("keyword", kw))
			}
		}
		return nil
	}
	return p.change(i)
}

func (p *parser) dumpBlock(kw lex.Item) error {
	for {
		i := p.l.Lex()
		switch i.Type {
		case dump.EOF:
			if err := p.l.Err(); err != nil {
				return errors.Wrap(err, "read failed")
			}
			return p.errorf(ErrSyntax, kw, "missing $end")
		case dump.Keyword:
			if i.Text() == "$end" {
				return nil
			}
			if _, err := p.block(i, ErrSyntax); err != nil {
				return err
			}
			continue
		case dump.Time:
			if err := p.setTime(i); err != nil {
				return err
			}
			continue
		}
		if err := p.change(i); err != nil {
			return err
		}
	}
}

func (p *parser) setTime(i lex.Item) error {
	t, err := strconv.ParseUint(i.Text()[1:], 10, 64)
	if err != nil {
		return p.errorf(ErrSyntax, i, "invalid timestamp")
	}
	if p.timed && t < p.time {
		if err := p.anomaly(ErrOutOfOrder, i, "time goes backwards"); err != nil {
			return err
		}
	}
	p.time, p.timed = t, true
	return p.v.Time(t)
}

func (p *parser) change(i lex.Item) error {
	w := i.Text()
	var (
		v    Value
		code string
		err  error
	)
	switch c := w[0]; c {
	case 'b', 'B', 'r', 'R':
		id := p.l.Lex()
		if id.Type == dump.EOF {
			return p.errorf(ErrSyntax, i, "missing identifier code")
		}
		code = id.Text()
		if c == 'b' || c == 'B' {
			v, err = VectorValue(w[1:])
		} else {
			v, err = RealValue(w[1:])
		}
	default:
		if len(w) < 2 {
			return p.anomaly(ErrMalformedValue, i, "missing identifier code")
		}
		code = w[1:]
		v, err = BitValue(c)
	}

	vi := p.vars[code]
	if vi == nil {
		return p.anomaly(ErrUnknownIdentifier, i, "undeclared identifier code "+strconv.Quote(code))
	}
	if err != nil {
		return p.anomaly(ErrMalformedValue, i, err.Error())
	}
	if !vi.selected {
		return nil
	}
	if v.kind == Vector || v.kind == Bit {
		if vi.kind == Real {
			return p.anomaly(ErrMalformedValue, i, "bit value for real variable")
		}
		if v.Len() > vi.width {
			if err := p.anomaly(ErrMalformedValue, i, "value wider than declared width "+strconv.Itoa(vi.width)); err != nil {
				return err
			}
		}
		if p.o.extend {
			v = v.Extend(vi.width)
		}
	} else if vi.kind != Real {
		return p.anomaly(ErrMalformedValue, i, "real value for bit variable")
	}
	return p.v.Change(p.time, code, v)
}
