// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

// A Signal is the value stream of a VCD identifier code. All variables
// declared with the same identifier code share the same *Signal.
//
// Type and Width are those of the first declaration of the code.
//
type Signal struct {
	Code  string
	Type  string // VCD variable type: wire, reg, real, ...
	Width int

	*Store
	refs []string
}

func newSignal(code, typ string, width int) *Signal {
	return &Signal{
		Code:  code,
		Type:  typ,
		Width: width,
		Store: NewStore(KindOf(typ, width)),
	}
}

// Kind returns the kind of values held by the signal.
//
func (s *Signal) Kind() Kind {
	return s.kind
}

// References returns the full paths of all variables sharing this signal, in
// declaration order.
//
func (s *Signal) References() []string {
	r := make([]string, len(s.refs))
	copy(r, s.refs)
	return r
}

func (s *Signal) addRef(path string) {
	for _, r := range s.refs {
		if r == path {
			return
		}
	}
	s.refs = append(s.refs, path)
}

func (s *Signal) removeRef(path string) {
	for i, r := range s.refs {
		if r == path {
			s.refs = append(s.refs[:i], s.refs[i+1:]...)
			return
		}
	}
}
