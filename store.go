// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"iter"
	"sort"

	"github.com/pkg/errors"
)

// Delta is a recorded value change.
//
type Delta struct {
	Time  uint64
	Value Value
}

// Store is the value history of a signal: a sequence of deltas in strictly
// increasing time order.
//
// A Store is not safe for concurrent use while it is appended to. Once a
// dump has been parsed, stores are read-only and can be queried concurrently.
//
type Store struct {
	kind   Kind
	times  []uint64
	values []Value
}

// NewStore returns an empty store for values of kind k. The kind determines
// the value returned by ValueAt before the first recorded change.
//
func NewStore(k Kind) *Store {
	return &Store{kind: k}
}

// Append records value v at time t. If t is the time of the last recorded
// change, its value is replaced. It returns an error wrapping ErrOutOfOrder if
// t is before the last recorded change.
//
func (s *Store) Append(t uint64, v Value) error {
	n := len(s.times)
	if n > 0 {
		last := s.times[n-1]
		if t == last {
			s.values[n-1] = v
			return nil
		}
		if t < last {
			return errors.Wrapf(ErrOutOfOrder, "time %d before %d", t, last)
		}
	}
	s.times = append(s.times, t)
	s.values = append(s.values, v)
	return nil
}

// Len returns the number of recorded changes.
//
func (s *Store) Len() int {
	return len(s.times)
}

// At returns the i-th recorded change.
//
func (s *Store) At(i int) Delta {
	return Delta{s.times[i], s.values[i]}
}

// Begin returns the time of the first recorded change. ok is false if the
// store is empty.
//
func (s *Store) Begin() (t uint64, ok bool) {
	if len(s.times) == 0 {
		return 0, false
	}
	return s.times[0], true
}

// End returns the time of the last recorded change. ok is false if the store
// is empty.
//
func (s *Store) End() (t uint64, ok bool) {
	if len(s.times) == 0 {
		return 0, false
	}
	return s.times[len(s.times)-1], true
}

// search returns the index of the last change at or before t, or -1.
//
func (s *Store) search(t uint64) int {
	return sort.Search(len(s.times), func(i int) bool { return s.times[i] > t }) - 1
}

// ValueAt returns the value in effect at time t: the value of the last change
// recorded at or before t, or Unknown(kind) if t is before the first one.
//
func (s *Store) ValueAt(t uint64) Value {
	i := s.search(t)
	if i < 0 {
		return Unknown(s.kind)
	}
	return s.values[i]
}

// Slice returns the sequence of values in effect at each time step in
// [start, end). It yields end-start values, or none if end <= start. The
// returned sequence can be iterated several times.
//
func (s *Store) Slice(start, end uint64) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		if end <= start {
			return
		}
		i := s.search(start)
		v := Unknown(s.kind)
		if i >= 0 {
			v = s.values[i]
		}
		i++
		for t := start; t < end; t++ {
			if i < len(s.times) && s.times[i] == t {
				v = s.values[i]
				i++
			}
			if !yield(v) {
				return
			}
		}
	}
}

// All returns the sequence of recorded changes.
//
func (s *Store) All() iter.Seq2[uint64, Value] {
	return func(yield func(uint64, Value) bool) {
		for i, t := range s.times {
			if !yield(t, s.values[i]) {
				return
			}
		}
	}
}

// Entries returns a copy of the recorded changes.
//
func (s *Store) Entries() []Delta {
	d := make([]Delta, len(s.times))
	for i, t := range s.times {
		d[i] = Delta{t, s.values[i]}
	}
	return d
}
