package object

// TypeInfo describes a type to be registered. All fields are copied at
// registration; the descriptor is immutable afterwards.
type TypeInfo struct {
	Name   string
	Parent string

	// ClassSize and InstanceSize are logical layout sizes. Zero means
	// "inherit from the nearest ancestor that declares one".
	ClassSize    int
	InstanceSize int

	// BaseInit runs once per strict-ancestor level, root to leaf, whenever a
	// descendant's class record is built. Each level may only touch its own
	// contributed region of the record.
	BaseInit     func(*Class)
	BaseFinalize func(*Class)

	// ClassInit is the single customization point for a level: it receives
	// the composed class record together with the registration-time
	// configuration payload and populates or overrides method slots.
	ClassInit     func(*Class, any)
	ClassFinalize func(*Class, any)
	ClassData     any

	InstanceInit     func(*Object)
	InstanceFinalize func(*Object)

	// Abstract types can be used as ancestors and cast targets but never
	// back a live instance.
	Abstract bool

	// Interfaces declares the capabilities instances of this type carry.
	// At most MaxInterfaces entries.
	Interfaces []InterfaceInfo
}

// InterfaceInfo declares one capability: the name of the parent interface
// type and the initializer that populates the capability's method slots.
type InterfaceInfo struct {
	Parent string
	Init   func(*Class, any)
}

// Type is the registered descriptor for one type. It lives for the process
// lifetime and is never removed from its registry.
type Type struct {
	name   string
	parent string

	classSize    int
	instanceSize int

	baseInit     func(*Class)
	baseFinalize func(*Class)

	classInit     func(*Class, any)
	classFinalize func(*Class, any)
	classData     any

	instanceInit     func(*Object)
	instanceFinalize func(*Object)

	abstract  bool
	anonymous bool

	interfaces []*interfaceType

	// class is the memoized record; nil until first built.
	class *Class

	reg *Registry
}

// interfaceType is one declared capability plus the type lazily synthesized
// for it during the owning type's class build.
type interfaceType struct {
	parent string
	init   func(*Class, any)
	typ    *Type
}

// Name returns the registered name.
func (t *Type) Name() string { return t.name }

// Parent returns the parent type name, empty for a root type.
func (t *Type) Parent() string { return t.parent }

// Abstract reports whether instances of the type are forbidden.
func (t *Type) Abstract() bool { return t.abstract }

// Anonymous reports whether the type was registered under a synthesized name.
func (t *Type) Anonymous() bool { return t.anonymous }

// ClassSize returns the declared class size; after the class record is built
// it is the resolved size.
func (t *Type) ClassSize() int { return t.classSize }

// InstanceSize returns the declared instance size; after the class record is
// built it is the resolved size.
func (t *Type) InstanceSize() int { return t.instanceSize }

// InterfaceParents returns the declared parent names of the type's
// capabilities, in declaration order.
func (t *Type) InterfaceParents() []string {
	if len(t.interfaces) == 0 {
		return nil
	}
	parents := make([]string, len(t.interfaces))
	for i, iface := range t.interfaces {
		parents[i] = iface.parent
	}
	return parents
}

// Built returns the class record if it has been built, nil otherwise.
func (t *Type) Built() *Class { return t.class }

// EnsureClass builds the class record if necessary and returns it.
func (t *Type) EnsureClass() *Class {
	t.reg.buildClass(t)
	return t.class
}
