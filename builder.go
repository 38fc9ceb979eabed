// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"go.uber.org/zap"
)

// builder is the Visitor that materializes a dump into a VCD.
//
type builder struct {
	vcd *VCD
	cur *Scope // nil when the scope tree is disabled
	log *zap.Logger
}

func (b *builder) EnterScope(typ, name string) error {
	if b.cur != nil {
		b.cur = b.cur.child(typ, name)
	}
	return nil
}

func (b *builder) LeaveScope() error {
	if b.cur != nil && b.cur.parent != nil {
		b.cur = b.cur.parent
	}
	return nil
}

func (b *builder) Declare(d *VarDecl) error {
	v := b.vcd
	sig := v.index.Register(d)
	if old, ok := v.refs[d.Path]; !ok {
		v.paths = append(v.paths, d.Path)
	} else if old != d.Code {
		b.log.Debug("variable declared again with a different code",
			zap.String("path", d.Path),
			zap.String("code", d.Code),
			zap.String("previous", old))
		if prev := v.index.get(old); prev != nil {
			prev.removeRef(d.Path)
		}
	}
	v.refs[d.Path] = d.Code
	if b.cur != nil {
		b.cur.addVar(&Var{
			Name:   d.Name,
			Base:   d.Base,
			Type:   d.Type,
			Width:  d.Width,
			Code:   d.Code,
			MSB:    d.MSB,
			LSB:    d.LSB,
			Ranged: d.Ranged,
			Signal: sig,
		})
	}
	return nil
}

func (b *builder) EndDefinitions(h *Header) error {
	b.vcd.header = *h
	return nil
}

func (b *builder) Time(t uint64) error {
	v := b.vcd
	if !v.timed {
		v.begin, v.timed = t, true
	}
	if t > v.end {
		v.end = t
	}
	return nil
}

func (b *builder) Change(t uint64, code string, val Value) error {
	sig := b.vcd.index.get(code)
	if sig == nil {
		return nil
	}
	if err := sig.Append(t, val); err != nil {
		b.log.Debug("dropping value change", zap.String("code", code), zap.Error(err))
	}
	return nil
}
