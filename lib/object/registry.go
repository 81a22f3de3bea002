// Package object implements a runtime class and object model: a name-keyed
// type registry, single inheritance composed through per-type class records,
// multi-interface capability objects, and dynamic type-checked casting.
//
// The model is single-threaded by contract. Registration and first-use class
// construction mutate shared registry state with no synchronization, so all
// registration and all first instantiations must happen on one goroutine
// before any other goroutine touches the registry. Class records are
// immutable once built.
package object

import (
	"fmt"
	"sort"
)

const (
	// MaxInterfaces bounds the number of capability declarations per type.
	MaxInterfaces = 32

	// BaseClassSize is the class-record footprint every type starts from.
	BaseClassSize = 16

	// BaseObjectSize is the smallest legal instance size.
	BaseObjectSize = 16

	interfaceClassSize  = BaseClassSize
	interfaceObjectSize = BaseObjectSize + 8
)

// TypeInterface is the root ancestor of every synthesized capability type.
const TypeInterface = "interface"

// Registry is a name -> type descriptor store. It is append-only: there is
// no unregistration, and descriptors live until process exit. Not safe for
// concurrent use; see the package documentation.
type Registry struct {
	types     map[string]*Type
	anonCount int

	allocs int
	frees  int
}

var defaultRegistry Registry

// Default returns the shared process-wide registry.
func Default() *Registry {
	return &defaultRegistry
}

// NewRegistry returns an empty registry independent of the default one.
func NewRegistry() *Registry {
	return &Registry{}
}

// table lazily initializes the backing store. The builtin root capability
// type is registered as part of that first use.
func (r *Registry) table() map[string]*Type {
	if r.types == nil {
		r.types = make(map[string]*Type)
		r.types[TypeInterface] = &Type{
			name:         TypeInterface,
			instanceSize: interfaceObjectSize,
			abstract:     true,
			reg:          r,
		}
	}
	return r.types
}

func (r *Registry) newType(info TypeInfo) *Type {
	if len(info.Interfaces) > MaxInterfaces {
		fatalf(ErrMalformedHierarchy, "type %q declares %d interfaces, limit is %d",
			info.Name, len(info.Interfaces), MaxInterfaces)
	}

	t := &Type{
		name:   info.Name,
		parent: info.Parent,

		classSize:    info.ClassSize,
		instanceSize: info.InstanceSize,

		baseInit:     info.BaseInit,
		baseFinalize: info.BaseFinalize,

		classInit:     info.ClassInit,
		classFinalize: info.ClassFinalize,
		classData:     info.ClassData,

		instanceInit:     info.InstanceInit,
		instanceFinalize: info.InstanceFinalize,

		reg: r,
	}

	for _, iface := range info.Interfaces {
		t.interfaces = append(t.interfaces, &interfaceType{
			parent: iface.Parent,
			init:   iface.Init,
		})
	}

	return t
}

// Register stores a descriptor under its name and returns the type handle.
// Registering an empty name is fatal. Registering a name that already exists
// silently replaces the earlier entry; class records and instances already
// produced from the old descriptor keep working.
func (r *Registry) Register(info TypeInfo) *Type {
	if info.Name == "" {
		fatalf(ErrUnnamedType, "registration requires a name (parent %q)", info.Parent)
	}

	t := r.newType(info)
	t.abstract = info.Abstract
	r.table()[t.name] = t

	log.Debugf("registered type %q (parent %q)", t.name, t.parent)
	return t
}

// RegisterAnonymous stores a descriptor under a synthesized unique name of
// the form "<anonymous-N>". The abstract flag is deliberately not carried
// over: anonymous types back the capability objects attached during
// instance initialization, and those must themselves be instantiable.
func (r *Registry) RegisterAnonymous(info TypeInfo) *Type {
	t := r.newType(info)
	t.name = fmt.Sprintf("<anonymous-%d>", r.anonCount)
	t.anonymous = true
	r.anonCount++
	r.table()[t.name] = t

	log.Debugf("registered anonymous type %q (parent %q)", t.name, t.parent)
	return t
}

// Lookup returns the descriptor registered under name, or nil.
func (r *Registry) Lookup(name string) *Type {
	if name == "" {
		return nil
	}
	return r.table()[name]
}

// mustLookup is Lookup for contexts where an unknown name is a caller bug.
func (r *Registry) mustLookup(name string) *Type {
	t := r.Lookup(name)
	if t == nil {
		fatalf(ErrNotFound, "unknown type %q", name)
	}
	return t
}

// TypeNames returns every registered name, sorted.
func (r *Registry) TypeNames() []string {
	table := r.table()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LiveObjects returns the number of objects allocated by New and not yet
// released by Delete, owned capability objects included.
func (r *Registry) LiveObjects() int {
	return r.allocs - r.frees
}
