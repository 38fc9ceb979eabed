// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
)

// units maps time units to their power of ten exponent in seconds.
//
var units = map[string]int32{
	"s":  0,
	"ms": -3,
	"us": -6,
	"ns": -9,
	"ps": -12,
	"fs": -15,
}

// decimal context used for conversions. 40 digits hold any uint64 tick count
// times any magnitude.
//
var decCtx = apd.BaseContext.WithPrecision(40)

// Timescale is the real time duration of one simulation time unit.
//
// The zero Timescale is the timescale of a dump without $timescale
// declaration: no unit is assumed.
//
type Timescale struct {
	Magnitude int64  // 1, 10, 100 in standard dumps. Any positive integer is accepted.
	Unit      string // s, ms, us, ns, ps or fs

	scale  *apd.Decimal // Magnitude × Unit, exact
	factor *apd.Decimal // Unit
}

// ParseTimescale parses a timescale declaration given either as a single
// word ("1ns", "6666ps") or as a magnitude and a unit ("1", "us").
//
func ParseTimescale(words ...string) (Timescale, error) {
	s := strings.Join(words, "")
	i := 0
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Timescale{}, errors.Errorf("missing timescale magnitude in %q", s)
	}
	mag, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil || mag <= 0 {
		return Timescale{}, errors.Errorf("invalid timescale magnitude in %q", s)
	}
	unit := strings.ToLower(s[i:])
	exp, ok := units[unit]
	if !ok {
		return Timescale{}, errors.Errorf("invalid timescale unit %q", s[i:])
	}
	return Timescale{
		Magnitude: mag,
		Unit:      unit,
		scale:     apd.New(mag, exp),
		factor:    apd.New(1, exp),
	}, nil
}

// IsZero returns true if ts is the zero Timescale.
//
func (ts Timescale) IsZero() bool {
	return ts.scale == nil
}

// Scale returns the exact duration of one time unit in seconds. It returns
// nil for the zero Timescale.
//
func (ts Timescale) Scale() *apd.Decimal {
	if ts.scale == nil {
		return nil
	}
	return new(apd.Decimal).Set(ts.scale)
}

// Factor returns the nominal unit of the timescale in seconds, that is the
// declared unit without its magnitude (1E-12 for 6666ps). It is only exact for
// timescales with a magnitude of 1; use Scale for exact conversions. It
// returns nil for the zero Timescale.
//
func (ts Timescale) Factor() *apd.Decimal {
	if ts.factor == nil {
		return nil
	}
	return new(apd.Decimal).Set(ts.factor)
}

// Seconds converts a number of time units to seconds, exactly.
//
func (ts Timescale) Seconds(ticks uint64) (*apd.Decimal, error) {
	if ts.scale == nil {
		return nil, errors.New("no timescale")
	}
	t, _, err := new(apd.Decimal).SetString(strconv.FormatUint(ticks, 10))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	d := new(apd.Decimal)
	if _, err = decCtx.Mul(d, t, ts.scale); err != nil {
		return nil, errors.WithStack(err)
	}
	return d, nil
}

func (ts Timescale) String() string {
	if ts.scale == nil {
		return ""
	}
	return strconv.FormatInt(ts.Magnitude, 10) + ts.Unit
}
