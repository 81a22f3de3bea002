package object

import "fmt"

// Object is a live instance laid out according to its type's class record.
// An object is exclusively owned by whichever caller holds it; the capability
// objects it owns are created during initialization and destroyed exactly
// when the object is finalized.
type Object struct {
	class      *Class
	size       int
	vars       map[string]Value
	interfaces []*Object
	container  *Object
}

// Class returns the instance's class record.
func (o *Object) Class() *Class {
	return o.mustClass()
}

// TypeName returns the exact registered name of the instance's type.
func (o *Object) TypeName() string {
	return o.mustClass().typ.name
}

// Container returns the concrete instance a capability object belongs to,
// nil when the object is not a capability view.
func (o *Object) Container() *Object {
	return o.container
}

// Interfaces returns the owned capability objects, most recently attached
// first. The slice is owned by the object; callers must not mutate it.
func (o *Object) Interfaces() []*Object {
	return o.interfaces
}

// Var reads an instance state cell; absent names read as nil.
func (o *Object) Var(name string) Value {
	if v, ok := o.vars[name]; ok {
		return v
	}
	return NilValue()
}

// SetVar writes an instance state cell.
func (o *Object) SetVar(name string, v Value) {
	o.vars[name] = v
}

// Send dispatches selector through the composed method table. An unknown
// selector yields an error value, not a fatal condition.
func (o *Object) Send(selector string, args []Value) Value {
	entry := o.mustClass().Methods.Lookup(selector)
	if entry == nil {
		return ErrorValue(fmt.Sprintf("unknown method: %s %s", o.TypeName(), selector))
	}
	return entry.Impl(o, args)
}

func (o *Object) mustClass() *Class {
	if o == nil || o.class == nil {
		fatalf(ErrUninitialized, "object %p", o)
	}
	return o.class
}

// Initialize prepares a caller-supplied Object as an instance of typename:
// it ensures the class record is built, rejects abstract types, zeroes the
// instance state, attaches the class record, and runs the initialization
// chain root to leaf. At each level the declared capabilities are attached
// before the level's instance-init hook runs, so a derived hook can rely on
// base state and capabilities existing.
func (r *Registry) Initialize(obj *Object, typename string) {
	ti := r.mustLookup(typename)

	r.buildClass(ti)

	if ti.instanceSize < BaseObjectSize {
		fatalf(ErrMalformedHierarchy, "type %q: instance size %d is smaller than the base object size %d",
			ti.name, ti.instanceSize, BaseObjectSize)
	}
	if ti.abstract {
		fatalf(ErrAbstractType, "type %q", ti.name)
	}

	obj.class = ti.class
	obj.size = ti.instanceSize
	obj.vars = make(map[string]Value)
	obj.interfaces = nil
	obj.container = nil

	r.objectInit(obj, typename)
}

// objectInit runs one level of the initialization chain, root first.
func (r *Registry) objectInit(obj *Object, typename string) {
	ti := r.mustLookup(typename)

	if ti.parent != "" {
		r.objectInit(obj, ti.parent)
	}

	for _, iface := range ti.interfaces {
		r.objectInterfaceInit(obj, iface)
	}

	if ti.instanceInit != nil {
		ti.instanceInit(obj)
	}
}

// objectInterfaceInit attaches one owned capability object.
func (r *Registry) objectInterfaceInit(obj *Object, iface *interfaceType) {
	view := r.New(iface.typ.name)
	view.container = obj
	obj.interfaces = append([]*Object{view}, obj.interfaces...)
}

// New allocates an instance of typename and initializes it.
func (r *Registry) New(typename string) *Object {
	obj := &Object{}
	r.Initialize(obj, typename)
	r.allocs++
	return obj
}

// Finalize runs the most-derived instance-finalize hook, destroys every
// owned capability object, then re-runs the initialize chain starting at the
// parent level, leaving the object re-initialized as its parent type rather
// than torn down. The asymmetry with construction is a preserved behavior;
// see DESIGN.md. The class record reference is not changed.
func (r *Registry) Finalize(obj *Object) {
	r.objectDeinit(obj, true)
}

// Delete finalizes obj without the parent re-initialization pass and
// releases it. Valid only for objects produced by New; the object must not
// be used afterwards.
func (r *Registry) Delete(obj *Object) {
	r.objectDeinit(obj, false)
	r.frees++
	obj.class = nil
	obj.vars = nil
}

func (r *Registry) objectDeinit(obj *Object, reinit bool) {
	ti := obj.mustClass().typ

	if ti.instanceFinalize != nil {
		ti.instanceFinalize(obj)
	}

	for len(obj.interfaces) > 0 {
		view := obj.interfaces[0]
		obj.interfaces = obj.interfaces[1:]
		r.Delete(view)
	}

	if reinit && ti.parent != "" {
		r.objectInit(obj, ti.parent)
	}
}
