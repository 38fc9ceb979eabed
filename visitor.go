// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

// Header holds the information found in the declaration section of a dump.
//
type Header struct {
	Date      string
	Version   string
	Timescale Timescale
	Comments  []string
}

// VarDecl is a $var declaration.
//
type VarDecl struct {
	Type  string // wire, reg, real, ...
	Width int
	Code  string // identifier code
	Name  string // local name, including bit selection: "out[1:0]"
	Base  string // local name without bit selection: "out"
	Path  string // full dotted path: "top.cpu.out[1:0]"
	Scope string // full path of the enclosing scope, empty at top level

	// Declared bit selection, if Ranged. A single bit index [i] sets
	// MSB == LSB == i.
	MSB, LSB int
	Ranged   bool
}

// A Visitor receives parsing events from Walk.
//
// Any error returned by a Visitor method aborts the walk and is returned by
// Walk, except for Stop which ends the walk without error.
//
type Visitor interface {
	// EnterScope is called on $scope.
	EnterScope(typ, name string) error
	// LeaveScope is called on $upscope.
	LeaveScope() error
	// Declare is called on $var.
	Declare(d *VarDecl) error
	// EndDefinitions is called on $enddefinitions.
	EndDefinitions(h *Header) error
	// Time is called each time the current simulation time changes.
	Time(t uint64) error
	// Change is called for each value change.
	Change(t uint64, code string, v Value) error
}

// Funcs is a Visitor built from optional functions. Nil fields are no-ops.
//
// For example, this prints all changes of a dump:
//
//	err := vcd.Walk(r, &vcd.Funcs{
//		OnChange: func(t uint64, code string, v vcd.Value) error {
//			fmt.Println(t, code, v)
//			return nil
//		}})
//
type Funcs struct {
	OnEnterScope     func(typ, name string) error
	OnLeaveScope     func() error
	OnDeclare        func(d *VarDecl) error
	OnEndDefinitions func(h *Header) error
	OnTime           func(t uint64) error
	OnChange         func(t uint64, code string, v Value) error
}

// EnterScope implements Visitor.
//
func (f *Funcs) EnterScope(typ, name string) error {
	if f.OnEnterScope == nil {
		return nil
	}
	return f.OnEnterScope(typ, name)
}

// LeaveScope implements Visitor.
//
func (f *Funcs) LeaveScope() error {
	if f.OnLeaveScope == nil {
		return nil
	}
	return f.OnLeaveScope()
}

// Declare implements Visitor.
//
func (f *Funcs) Declare(d *VarDecl) error {
	if f.OnDeclare == nil {
		return nil
	}
	return f.OnDeclare(d)
}

// EndDefinitions implements Visitor.
//
func (f *Funcs) EndDefinitions(h *Header) error {
	if f.OnEndDefinitions == nil {
		return nil
	}
	return f.OnEndDefinitions(h)
}

// Time implements Visitor.
//
func (f *Funcs) Time(t uint64) error {
	if f.OnTime == nil {
		return nil
	}
	return f.OnTime(t)
}

// Change implements Visitor.
//
func (f *Funcs) Change(t uint64, code string, v Value) error {
	if f.OnChange == nil {
		return nil
	}
	return f.OnChange(t, code, v)
}

// visitors chains visitors. Events are delivered in order; the first error
// stops delivery.
//
type visitors []Visitor

func (vs visitors) EnterScope(typ, name string) error {
	for _, v := range vs {
		if err := v.EnterScope(typ, name); err != nil {
			return err
		}
	}
	return nil
}

func (vs visitors) LeaveScope() error {
	for _, v := range vs {
		if err := v.LeaveScope(); err != nil {
			return err
		}
	}
	return nil
}

func (vs visitors) Declare(d *VarDecl) error {
	for _, v := range vs {
		if err := v.Declare(d); err != nil {
			return err
		}
	}
	return nil
}

func (vs visitors) EndDefinitions(h *Header) error {
	for _, v := range vs {
		if err := v.EndDefinitions(h); err != nil {
			return err
		}
	}
	return nil
}

func (vs visitors) Time(t uint64) error {
	for _, v := range vs {
		if err := v.Time(t); err != nil {
			return err
		}
	}
	return nil
}

func (vs visitors) Change(t uint64, code string, val Value) error {
	for _, v := range vs {
		if err := v.Change(t, code, val); err != nil {
			return err
		}
	}
	return nil
}
