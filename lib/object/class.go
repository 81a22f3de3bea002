package object

import "sort"

// MethodFunc is the signature for method slot implementations.
type MethodFunc func(self *Object, args []Value) Value

// MethodEntry describes a single populated slot.
type MethodEntry struct {
	Selector string
	Impl     MethodFunc
	NumArgs  int
}

// MethodTable holds the composed method slots of a class record. Tables are
// composed flat at build time, so lookup never walks the ancestor chain.
type MethodTable struct {
	methods map[string]*MethodEntry
}

// NewMethodTable creates an empty method table
func NewMethodTable() *MethodTable {
	return &MethodTable{methods: make(map[string]*MethodEntry)}
}

// Add populates or overrides a slot
func (mt *MethodTable) Add(selector string, impl MethodFunc, numArgs int) {
	mt.methods[selector] = &MethodEntry{
		Selector: selector,
		Impl:     impl,
		NumArgs:  numArgs,
	}
}

// Lookup finds a slot by selector
func (mt *MethodTable) Lookup(selector string) *MethodEntry {
	if mt == nil {
		return nil
	}
	return mt.methods[selector]
}

// Len returns the number of populated slots
func (mt *MethodTable) Len() int {
	if mt == nil {
		return 0
	}
	return len(mt.methods)
}

// Selectors returns the populated selectors, sorted
func (mt *MethodTable) Selectors() []string {
	selectors := make([]string, 0, len(mt.methods))
	for s := range mt.methods {
		selectors = append(selectors, s)
	}
	sort.Strings(selectors)
	return selectors
}

// clone copies the table so a descendant can override entries without
// touching the ancestor's record.
func (mt *MethodTable) clone() *MethodTable {
	c := NewMethodTable()
	for selector, entry := range mt.methods {
		e := *entry
		c.methods[selector] = &e
	}
	return c
}

// Class is the built, inheritance-composed record for one type: the base
// header plus each ancestor's contribution in ancestor-then-self order.
// Built once, then shared read-only by the type and every instance of it or
// its descendants.
type Class struct {
	typ     *Type
	size    int
	Methods *MethodTable
}

// Type returns the descriptor the record was built for.
func (c *Class) Type() *Type { return c.typ }

// Name returns the type name the record was built for.
func (c *Class) Name() string { return c.typ.name }

// Size returns the resolved class size. Always >= the parent record's size.
func (c *Class) Size() int { return c.size }

// Parent returns the parent type's record, nil for a root type. The parent
// record is always built before its children.
func (c *Class) Parent() *Class {
	if c.typ.parent == "" {
		return nil
	}
	parent := c.typ.reg.Lookup(c.typ.parent)
	if parent == nil {
		return nil
	}
	return parent.class
}

// ancestry returns ti's ancestor chain, leaf first. An unregistered parent
// anywhere in the chain, or a cycle, is fatal: both would otherwise send the
// build into unbounded recursion.
func (r *Registry) ancestry(ti *Type) []*Type {
	var chain []*Type
	seen := make(map[*Type]bool)
	for t := ti; ; {
		if seen[t] {
			fatalf(ErrMalformedHierarchy, "type %q: ancestor chain contains a cycle at %q",
				ti.name, t.name)
		}
		seen[t] = true
		chain = append(chain, t)
		if t.parent == "" {
			return chain
		}
		parent := r.Lookup(t.parent)
		if parent == nil {
			fatalf(ErrMalformedHierarchy, "type %q: ancestor %q names unregistered parent %q",
				ti.name, t.name, t.parent)
		}
		t = parent
	}
}

// resolveClassSize returns ti's explicit class size, else the nearest
// ancestor's explicit size, else the base class size. The chain has already
// been validated by ancestry.
func (r *Registry) resolveClassSize(ti *Type) int {
	for _, t := range r.ancestry(ti) {
		if t.classSize != 0 {
			return t.classSize
		}
	}
	return BaseClassSize
}

// resolveInstanceSize works like resolveClassSize for the instance layout.
func (r *Registry) resolveInstanceSize(ti *Type) int {
	for _, t := range r.ancestry(ti) {
		if t.instanceSize != 0 {
			return t.instanceSize
		}
	}
	return BaseObjectSize
}

// buildClass builds ti's class record, ancestors first. Idempotent: repeated
// requests return the memoized record.
func (r *Registry) buildClass(ti *Type) {
	if ti.class != nil {
		return
	}

	r.ancestry(ti)

	ti.classSize = r.resolveClassSize(ti)
	ti.instanceSize = r.resolveInstanceSize(ti)

	c := &Class{
		typ:     ti,
		size:    ti.classSize,
		Methods: NewMethodTable(),
	}
	ti.class = c

	if ti.parent != "" {
		parent := r.mustLookup(ti.parent)
		r.buildClass(parent)

		if parent.classSize > ti.classSize {
			fatalf(ErrMalformedHierarchy, "type %q: class size %d is smaller than parent %q class size %d",
				ti.name, ti.classSize, parent.name, parent.classSize)
		}

		// The parent's contribution beyond the shared base header carries
		// over; slots introduced at this level start empty.
		c.Methods = parent.class.Methods.clone()
	}

	r.classBaseInit(ti, ti.parent)

	for _, iface := range ti.interfaces {
		r.classInterfaceInit(iface)
	}

	if ti.classInit != nil {
		ti.classInit(c, ti.classData)
	}

	log.Debugf("built class record for %q (size %d, %d slots)", ti.name, c.size, c.Methods.Len())
}

// classBaseInit invokes base-init hooks root to leaf for every strict
// ancestor of the type whose record is being built.
func (r *Registry) classBaseInit(base *Type, typename string) {
	if typename == "" {
		return
	}
	ti := r.mustLookup(typename)
	r.classBaseInit(base, ti.parent)
	if ti.baseInit != nil {
		ti.baseInit(base.class)
	}
}

// classInterfaceInit synthesizes the anonymous type backing one declared
// capability and caches it on the declaration.
func (r *Registry) classInterfaceInit(iface *interfaceType) {
	iface.typ = r.RegisterAnonymous(TypeInfo{
		Parent:       iface.parent,
		ClassSize:    interfaceClassSize,
		InstanceSize: interfaceObjectSize,
		ClassInit:    iface.init,
	})
}
