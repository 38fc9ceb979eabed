// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dump

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Ref is a variable reference as found in $var declarations. The reference
// name and its optional bit selection can be given as one or several words:
//
//	out [1:0]
//	out[1:0]
//	data [3]
//
type Ref struct {
	Name   string // reference with bit selection, without spaces: "out[1:0]"
	Base   string // reference without bit selection: "out"
	MSB    int
	LSB    int
	Ranged bool // [msb:lsb]
	Index  bool // [i]
}

// ParseRef joins the given reference words and parses the trailing bit
// selection if any. Malformed selections are kept as part of the base name.
//
func ParseRef(words ...string) (Ref, error) {
	name := strings.Join(words, "")
	if name == "" {
		return Ref{}, errors.New("empty reference")
	}
	r := Ref{Name: name, Base: name}
	if !strings.HasSuffix(name, "]") {
		return r, nil
	}
	i := strings.LastIndexByte(name, '[')
	if i <= 0 {
		return r, nil
	}
	sel := name[i+1 : len(name)-1]
	if c := strings.IndexByte(sel, ':'); c >= 0 {
		msb, err1 := strconv.Atoi(sel[:c])
		lsb, err2 := strconv.Atoi(sel[c+1:])
		if err1 != nil || err2 != nil {
			return r, nil
		}
		r.Base, r.MSB, r.LSB, r.Ranged = name[:i], msb, lsb, true
		return r, nil
	}
	idx, err := strconv.Atoi(sel)
	if err != nil {
		return r, nil
	}
	r.Base, r.MSB, r.LSB, r.Index = name[:i], idx, idx, true
	return r, nil
}

// Width returns the bit count implied by the selection, or 0 if there is
// none.
//
func (r *Ref) Width() int {
	switch {
	case r.Ranged:
		if r.MSB >= r.LSB {
			return r.MSB - r.LSB + 1
		}
		return r.LSB - r.MSB + 1
	case r.Index:
		return 1
	}
	return 0
}
