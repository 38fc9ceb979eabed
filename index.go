// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

// Index maps identifier codes to signals.
//
type Index struct {
	signals map[string]*Signal
	codes   []string // declaration order
}

// NewIndex returns an empty index.
//
func NewIndex() *Index {
	return &Index{signals: make(map[string]*Signal)}
}

// Register returns the signal for the given declaration, creating it if the
// identifier code is seen for the first time, and records the declaration
// path as an alias of the code. Registering the same code several times
// always returns the same *Signal.
//
func (x *Index) Register(d *VarDecl) *Signal {
	s := x.signals[d.Code]
	if s == nil {
		s = newSignal(d.Code, d.Type, d.Width)
		x.signals[d.Code] = s
		x.codes = append(x.codes, d.Code)
	}
	s.addRef(d.Path)
	return s
}

// Lookup returns the signal for the given identifier code.
//
func (x *Index) Lookup(code string) (*Signal, error) {
	if s := x.signals[code]; s != nil {
		return s, nil
	}
	return nil, notFound("identifier code", code)
}

func (x *Index) get(code string) *Signal {
	return x.signals[code]
}

// Aliases returns the paths of all variables declared with the given code.
//
func (x *Index) Aliases(code string) []string {
	if s := x.signals[code]; s != nil {
		return s.References()
	}
	return nil
}

// Codes returns all registered identifier codes in declaration order.
//
func (x *Index) Codes() []string {
	c := make([]string, len(x.codes))
	copy(c, x.codes)
	return c
}

// Len returns the number of registered codes.
//
func (x *Index) Len() int {
	return len(x.codes)
}
