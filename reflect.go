// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var (
	signalType  = reflect.TypeOf((*Signal)(nil))
	scopeType   = reflect.TypeOf((*Scope)(nil))
	varType     = reflect.TypeOf((*Var)(nil))
	matchesType = reflect.TypeOf(Matches(nil))
	signalsType = reflect.TypeOf([]*Signal(nil))
)

// Bind sets the fields of the struct pointed to by dst from the signals,
// variables and scopes of v. Fields are selected by their tag:
//
//	type counter struct {
//		Clock *vcd.Signal  `vcd:"counter_tb.clock"`
//		Out   *vcd.Var     `vcd:"counter_tb.out*,glob"`
//		Top   *vcd.Scope   `vcd:"counter_tb.top"`
//		Regs  vcd.Matches  `vcd:"\\.r[0-9]+$,regexp"`
//	}
//
// The first tag element is a full path, or a pattern if followed by "glob" or
// "regexp". Fields of type *Signal, *Var or *Scope must resolve to exactly
// one entity. Fields of type Matches or []*Signal receive all matches and may
// be left empty.
//
// Bind fails on the first field that cannot be resolved. Untagged fields are
// left untouched.
//
func Bind(v *VCD, dst interface{}) error {
	pv := reflect.ValueOf(dst)
	if pv.Kind() != reflect.Ptr || pv.Elem().Kind() != reflect.Struct {
		return errors.Errorf("Bind: unsupported type %T", dst)
	}
	e := pv.Elem()
	typ := e.Type()
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("vcd")
		if !ok {
			continue
		}
		fv := e.Field(i)
		if !fv.CanSet() {
			return errors.Errorf("Bind: field %q in %q is not exported", f.Name, typ.Name())
		}
		if err := bindField(v, fv, tag); err != nil {
			return errors.Wrapf(err, "Bind: field %q in %q", f.Name, typ.Name())
		}
	}
	return nil
}

func tagPattern(tag string) (Pattern, error) {
	tv := strings.Split(tag, ",")
	if len(tv) == 1 {
		return Exact(tv[0]), nil
	}
	expr, kind := strings.Join(tv[:len(tv)-1], ","), tv[len(tv)-1]
	switch kind {
	case "glob":
		return Glob(expr)
	case "regexp":
		return Regexp(expr)
	case "":
		return Exact(expr), nil
	}
	return nil, errors.Errorf("unsupported tag %q", tag)
}

func bindField(v *VCD, fv reflect.Value, tag string) error {
	p, err := tagPattern(tag)
	if err != nil {
		return err
	}
	switch fv.Type() {
	case signalType, scopeType, varType:
		m, err := v.FindOne(p)
		if err != nil {
			return err
		}
		switch fv.Type() {
		case signalType:
			if m.Signal == nil {
				return notFound("signal", m.Path)
			}
			fv.Set(reflect.ValueOf(m.Signal))
		case scopeType:
			if m.Scope == nil {
				return notFound("scope", m.Path)
			}
			fv.Set(reflect.ValueOf(m.Scope))
		default:
			if m.Var == nil {
				return notFound("variable", m.Path)
			}
			fv.Set(reflect.ValueOf(m.Var))
		}
	case matchesType:
		fv.Set(reflect.ValueOf(v.Find(p)))
	case signalsType:
		var sigs []*Signal
		for _, m := range v.Find(p) {
			if m.Signal != nil {
				sigs = append(sigs, m.Signal)
			}
		}
		fv.Set(reflect.ValueOf(sigs))
	default:
		return errors.Errorf("unsupported type %s", fv.Type())
	}
	return nil
}
