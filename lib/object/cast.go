package object

// typeIsA reports whether typename names the object's own type or one of its
// ancestors, ignoring capability objects.
func (o *Object) typeIsA(typename string) bool {
	r := o.mustClass().typ.reg
	target := r.Lookup(typename)

	for t := o.class.typ; t != nil; t = r.Lookup(t.parent) {
		if t == target {
			return true
		}
	}
	return false
}

// IsA reports whether typename names the object's own type, one of its
// ancestors, or a type one of its owned capability objects satisfies.
func (o *Object) IsA(typename string) bool {
	if o.typeIsA(typename) {
		return true
	}

	for _, view := range o.interfaces {
		if view.IsA(typename) {
			return true
		}
	}

	return false
}

// DynamicCast checks the type relationship and returns the matching view:
// the object itself when typename is the object's type or an ancestor (the
// upcast is identity), the owned capability object that satisfies typename,
// or — when the object is itself a capability view — its container. Returns
// nil when no relationship holds.
func (o *Object) DynamicCast(typename string) *Object {
	if o.typeIsA(typename) {
		return o
	}

	for _, view := range o.interfaces {
		if view.IsA(typename) {
			return view
		}
	}

	if o.typeIsA(TypeInterface) && o.container != nil && o.container.IsA(typename) {
		return o.container
	}

	return nil
}

// DynamicCastAssert is DynamicCast for callers that treat a mismatch as a
// programming error: it aborts with a diagnostic instead of returning nil.
func (o *Object) DynamicCastAssert(typename string) *Object {
	cast := o.DynamicCast(typename)
	if cast == nil {
		fatalf(ErrBadCast, "object %p of type %q cast to %q", o, o.TypeName(), typename)
	}
	return cast
}

// DynamicCast walks only the ancestor chain: capability types never satisfy
// a class-level cast. The asymmetry with the instance-level cast is
// intentional.
func (c *Class) DynamicCast(typename string) *Class {
	r := c.typ.reg
	target := r.Lookup(typename)

	for t := c.typ; t != nil; t = r.Lookup(t.parent) {
		if t == target {
			return c
		}
	}

	return nil
}

// DynamicCastAssert aborts with a diagnostic when the class-level cast fails.
func (c *Class) DynamicCastAssert(typename string) *Class {
	cast := c.DynamicCast(typename)
	if cast == nil {
		fatalf(ErrBadCast, "class %q cast to %q", c.Name(), typename)
	}
	return cast
}
