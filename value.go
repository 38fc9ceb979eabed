// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the kind of a Value.
//
type Kind uint8

// Value kinds. The zero Kind is for the zero Value, which represents the
// absence of value.
//
const (
	Invalid Kind = iota
	Bit          // single bit: 0, 1, x or z
	Vector       // bit vector, msb first
	Real         // IEEE double
)

var kindNames = [...]string{"invalid", "bit", "vector", "real"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// KindOf returns the Kind of values for a variable of the given VCD type
// and width.
//
func KindOf(varType string, width int) Kind {
	switch strings.ToLower(varType) {
	case "real", "realtime", "real_parameter", "shortreal":
		return Real
	}
	if width == 1 {
		return Bit
	}
	return Vector
}

// Value is a signal value.
//
// Values are kept in their canonical textual form: a string of '0', '1', 'x'
// and 'z' for bits and vectors (most significant bit first) or the decimal
// text of a real as it appeared in the dump. No numeric conversion is done
// unless explicitly requested with Uint or Float.
//
type Value struct {
	kind Kind
	text string
}

// Unknown returns the value of a signal of kind k before its first change:
// "x" for bits and vectors, the zero Value for reals.
//
func Unknown(k Kind) Value {
	if k == Real || k == Invalid {
		return Value{}
	}
	return Value{k, "x"}
}

// BitValue returns a single bit value. It returns an error if b is not one
// of 0, 1, x, z, X, Z.
//
func BitValue(b byte) (Value, error) {
	c, ok := canonBit(b)
	if !ok {
		return Value{}, errors.Errorf("invalid bit value %q", b)
	}
	return Value{Bit, string(c)}, nil
}

// VectorValue returns a bit vector value. bits is the binary representation
// of the vector, msb first, as found after the 'b' radix in a dump.
//
func VectorValue(bits string) (Value, error) {
	if bits == "" {
		return Value{}, errors.New("empty vector")
	}
	var b []byte
	for i := 0; i < len(bits); i++ {
		c, ok := canonBit(bits[i])
		if !ok {
			return Value{}, errors.Errorf("invalid bit %q in vector %q", bits[i], bits)
		}
		if c != bits[i] {
			if b == nil {
				b = []byte(bits)
			}
			b[i] = c
		}
	}
	if b != nil {
		bits = string(b)
	}
	return Value{Vector, bits}, nil
}

// RealValue returns a real value from its decimal text representation.
//
func RealValue(text string) (Value, error) {
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return Value{}, errors.Errorf("invalid real value %q", text)
	}
	return Value{Real, text}, nil
}

func canonBit(b byte) (byte, bool) {
	switch b {
	case '0', '1', 'x', 'z':
		return b, true
	case 'X', 'Z':
		return b + 'a' - 'A', true
	}
	return 0, false
}

// Kind returns the value's kind.
//
func (v Value) Kind() Kind { return v.kind }

// IsValid returns false for the zero Value.
//
func (v Value) IsValid() bool { return v.kind != Invalid }

// String returns the canonical text of the value.
//
func (v Value) String() string { return v.text }

// Len returns the number of bits in a bit or vector value, 0 for reals.
//
func (v Value) Len() int {
	if v.kind == Real {
		return 0
	}
	return len(v.text)
}

// Bit returns bit i of a bit or vector value, bit 0 being the least
// significant one. Bits beyond Len are returned according to the VCD
// left-extension rule (see Extend).
//
func (v Value) Bit(i int) byte {
	if v.kind != Bit && v.kind != Vector || i < 0 {
		return 0
	}
	if i < len(v.text) {
		return v.text[len(v.text)-1-i]
	}
	return extBit(v.text[0])
}

// IsKnown returns true if the value contains no x or z bits, or if it is a
// real.
//
func (v Value) IsKnown() bool {
	switch v.kind {
	case Real:
		return true
	case Invalid:
		return false
	}
	return strings.IndexAny(v.text, "xz") < 0
}

// Uint returns the unsigned integer value of a bit or vector value. It fails
// if the value contains unknown bits or is wider than 64 bits.
//
func (v Value) Uint() (uint64, error) {
	if v.kind != Bit && v.kind != Vector {
		return 0, errors.Errorf("cannot convert %s value to integer", v.kind)
	}
	if !v.IsKnown() {
		return 0, errors.Errorf("value %q has unknown bits", v.text)
	}
	return strconv.ParseUint(v.text, 2, 64)
}

// Float returns the value of a real.
//
func (v Value) Float() (float64, error) {
	if v.kind != Real {
		return 0, errors.Errorf("cannot convert %s value to float", v.kind)
	}
	return strconv.ParseFloat(v.text, 64)
}

// extBit returns the bit used to left-extend a vector whose msb is b: x and z
// extend with themselves, 0 and 1 extend with 0.
//
func extBit(b byte) byte {
	if b == 'x' || b == 'z' {
		return b
	}
	return '0'
}

// Extend returns a copy of a vector value padded or truncated to width bits.
// Padding follows the VCD rule: a leading x or z is repeated, 0 and 1 are
// extended with 0. Truncation keeps the least significant bits. Values of
// other kinds are returned unchanged.
//
func (v Value) Extend(width int) Value {
	if v.kind != Vector && v.kind != Bit || width <= 0 || len(v.text) == width {
		return v
	}
	kind := Vector
	if width == 1 {
		kind = Bit
	}
	if len(v.text) > width {
		return Value{kind, v.text[len(v.text)-width:]}
	}
	return Value{kind, strings.Repeat(string(extBit(v.text[0])), width-len(v.text)) + v.text}
}
