// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vcdtest provides utility functions for testing VCD consumers:
// generation of dumps from declarations and value changes, and signal
// comparison.
//
package vcdtest

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/vcd"
)

// Var is a variable declaration.
//
type Var struct {
	Scope string // dotted scope path, empty for top level variables
	Type  string
	Width int
	Code  string
	Name  string
}

// Path returns the full path of the variable.
//
func (v *Var) Path() string {
	if v.Scope == "" {
		return v.Name
	}
	return v.Scope + "." + v.Name
}

// Change is a value change.
//
type Change struct {
	Time  uint64
	Code  string
	Value vcd.Value
}

// Dump is a value change dump under construction. Changes must be added in
// time order.
//
type Dump struct {
	Timescale string
	Vars      []Var
	Changes   []Change
}

// Code returns the n-th identifier code in the sequence used by most
// simulators: "!", "\"", ... "~", "!!", "\"!", ...
//
func Code(n int) string {
	var b []byte
	for {
		b = append(b, byte('!'+n%94))
		n /= 94
		if n == 0 {
			break
		}
		n--
	}
	return string(b)
}

// Deltas returns the expected recorded changes for the identifier code: one
// delta per timestamp, the last change at a given time winning.
//
func (d *Dump) Deltas(code string) []vcd.Delta {
	var r []vcd.Delta
	for _, c := range d.Changes {
		if c.Code != code {
			continue
		}
		if n := len(r); n > 0 && r[n-1].Time == c.Time {
			r[n-1].Value = c.Value
			continue
		}
		r = append(r, vcd.Delta{Time: c.Time, Value: c.Value})
	}
	return r
}

// String returns the dump in VCD format.
//
func (d *Dump) String() string {
	var b strings.Builder
	if d.Timescale != "" {
		b.WriteString("$timescale ")
		b.WriteString(d.Timescale)
		b.WriteString(" $end\n")
	}

	var open []string
	for _, v := range d.Vars {
		var want []string
		if v.Scope != "" {
			want = strings.Split(v.Scope, ".")
		}
		i := 0
		for i < len(open) && i < len(want) && open[i] == want[i] {
			i++
		}
		for len(open) > i {
			b.WriteString("$upscope $end\n")
			open = open[:len(open)-1]
		}
		for _, s := range want[i:] {
			b.WriteString("$scope module ")
			b.WriteString(s)
			b.WriteString(" $end\n")
			open = append(open, s)
		}
		b.WriteString("$var ")
		b.WriteString(v.Type)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(v.Width))
		b.WriteByte(' ')
		b.WriteString(v.Code)
		b.WriteByte(' ')
		b.WriteString(v.Name)
		b.WriteString(" $end\n")
	}
	for range open {
		b.WriteString("$upscope $end\n")
	}
	b.WriteString("$enddefinitions $end\n")

	for i, c := range d.Changes {
		if i == 0 || c.Time != d.Changes[i-1].Time {
			b.WriteByte('#')
			b.WriteString(strconv.FormatUint(c.Time, 10))
			b.WriteByte('\n')
		}
		switch c.Value.Kind() {
		case vcd.Bit:
			b.WriteString(c.Value.String())
		case vcd.Real:
			b.WriteByte('r')
			b.WriteString(c.Value.String())
			b.WriteByte(' ')
		default:
			b.WriteByte('b')
			b.WriteString(c.Value.String())
			b.WriteByte(' ')
		}
		b.WriteString(c.Code)
		b.WriteByte('\n')
	}
	return b.String()
}

var scopes = []string{"", "top", "top.cpu", "top.cpu.alu", "top.mem", "tb"}

func randBits(r *rand.Rand, n int) string {
	const digits = "01xz"
	b := make([]byte, n)
	for i := range b {
		// mostly known bits
		if r.Intn(8) == 0 {
			b[i] = digits[2+r.Intn(2)]
		} else {
			b[i] = digits[r.Intn(2)]
		}
	}
	return string(b)
}

// RandomDump returns a dump of nvars variables with random values over steps
// timestamps. Some variables share their identifier code with a previous one.
//
func RandomDump(r *rand.Rand, nvars, steps int) *Dump {
	d := &Dump{Timescale: "1ns"}
	codes := 0
	for i := 0; i < nvars; i++ {
		v := Var{
			Scope: scopes[r.Intn(len(scopes))],
			Type:  "wire",
			Width: 1 + r.Intn(8),
			Name:  "v" + strconv.Itoa(i),
		}
		if i > 0 && r.Intn(5) == 0 {
			// alias
			p := d.Vars[r.Intn(i)]
			v.Code, v.Width, v.Type = p.Code, p.Width, p.Type
		} else {
			v.Code = Code(codes)
			codes++
			if r.Intn(6) == 0 {
				v.Type, v.Width = "real", 64
			}
		}
		d.Vars = append(d.Vars, v)
	}

	var t uint64
	for s := 0; s < steps; s++ {
		for c := 0; c < codes; c++ {
			if s > 0 && r.Intn(3) != 0 {
				continue
			}
			v := d.varFor(Code(c))
			var val vcd.Value
			switch {
			case v.Type == "real":
				val, _ = vcd.RealValue(strconv.FormatFloat(r.NormFloat64(), 'g', -1, 64))
			case v.Width == 1:
				val, _ = vcd.BitValue(randBits(r, 1)[0])
			default:
				val, _ = vcd.VectorValue(randBits(r, v.Width))
			}
			d.Changes = append(d.Changes, Change{t, Code(c), val})
		}
		t += 1 + uint64(r.Intn(3))
	}
	return d
}

func (d *Dump) varFor(code string) *Var {
	for i := range d.Vars {
		if d.Vars[i].Code == code {
			return &d.Vars[i]
		}
	}
	return nil
}

// CompareSignal checks that the changes recorded by s are exactly want.
//
func CompareSignal(t testing.TB, want []vcd.Delta, s *vcd.Signal) {
	t.Helper()
	got := s.Entries()
	if len(got) != len(want) {
		t.Errorf("signal %q: got %d changes, expected %d", s.Code, len(got), len(want))
	}
	for i := 0; i < len(got) && i < len(want); i++ {
		if got[i] != want[i] {
			t.Errorf("signal %q: change %d: got %v@%d, expected %v@%d",
				s.Code, i, got[i].Value, got[i].Time, want[i].Value, want[i].Time)
			return
		}
	}
}

// CompareSignals checks that two signals hold the same values over [start, end).
//
func CompareSignals(t testing.TB, a, b *vcd.Signal, start, end uint64) {
	t.Helper()
	for tm := start; tm < end; tm++ {
		if va, vb := a.ValueAt(tm), b.ValueAt(tm); va != vb {
			t.Errorf("signals %q and %q differ at time %d: %v != %v", a.Code, b.Code, tm, va, vb)
			return
		}
	}
}
