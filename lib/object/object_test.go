package object

import "testing"

func TestNewAndSelfCast(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{Name: "base", InstanceSize: 16})
	reg.Register(TypeInfo{Name: "derived", Parent: "base", InstanceSize: 24})

	inst := reg.New("derived")
	if inst.TypeName() != "derived" {
		t.Errorf("expected type name 'derived', got %q", inst.TypeName())
	}
	if cast := inst.DynamicCast("derived"); cast != inst {
		t.Error("cast to the exact type must return the same instance")
	}
	if cast := inst.DynamicCast("base"); cast != inst {
		t.Error("upcast must return the same instance unchanged")
	}
	if inst.Class() != reg.mustLookup("derived").Built() {
		t.Error("instance not attached to its type's class record")
	}
}

func TestAbstractInstantiationFatal(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{Name: "bus", Abstract: true})

	mustPanic(t, ErrAbstractType, func() {
		reg.New("bus")
	})
}

func TestInstanceSizeBelowBaseFatal(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{Name: "tiny", InstanceSize: 8})

	mustPanic(t, ErrMalformedHierarchy, func() {
		reg.New("tiny")
	})
}

func TestInstanceSizeInherited(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{Name: "device", InstanceSize: 40})
	reg.Register(TypeInfo{Name: "serial", Parent: "device"})

	reg.mustLookup("serial").EnsureClass()
	if got := reg.mustLookup("serial").InstanceSize(); got != 40 {
		t.Errorf("expected inherited instance size 40, got %d", got)
	}
}

func TestInstanceInitRunsRootToLeaf(t *testing.T) {
	reg := NewRegistry()

	var log []string
	mark := func(name string) func(*Object) {
		return func(*Object) { log = append(log, name) }
	}

	reg.Register(TypeInfo{Name: "device", InstanceInit: mark("device")})
	reg.Register(TypeInfo{Name: "pci", Parent: "device", InstanceInit: mark("pci")})
	reg.Register(TypeInfo{Name: "nic", Parent: "pci", InstanceInit: mark("nic")})

	reg.New("nic")

	want := []string{"device", "pci", "nic"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}

func TestDerivedInitSeesBaseState(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{
		Name: "device",
		InstanceInit: func(o *Object) {
			o.SetVar("bus", StringValue("main"))
		},
	})

	var seen string
	reg.Register(TypeInfo{
		Name:   "serial",
		Parent: "device",
		InstanceInit: func(o *Object) {
			seen = o.Var("bus").AsString()
		},
	})

	reg.New("serial")
	if seen != "main" {
		t.Errorf("derived init should observe base state, saw %q", seen)
	}
}

func TestInterfacesAttachedAcrossAncestry(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{Name: "powered", Parent: TypeInterface, Abstract: true})
	reg.Register(TypeInfo{Name: "resettable", Parent: TypeInterface, Abstract: true})

	reg.Register(TypeInfo{
		Name:       "device",
		Interfaces: []InterfaceInfo{{Parent: "powered"}},
	})
	reg.Register(TypeInfo{
		Name:       "nic",
		Parent:     "device",
		Interfaces: []InterfaceInfo{{Parent: "resettable"}},
	})

	inst := reg.New("nic")
	if got := len(inst.Interfaces()); got != 2 {
		t.Fatalf("expected 2 capability objects (one per ancestry level), got %d", got)
	}
	for _, view := range inst.Interfaces() {
		if view.Container() != inst {
			t.Error("capability object must reference its container")
		}
		if !view.IsA(TypeInterface) {
			t.Errorf("capability object %q should descend from the root interface type", view.TypeName())
		}
	}
}

func TestDeleteRestoresCounters(t *testing.T) {
	cases := []struct {
		name   string
		ifaces int
	}{
		{"no interfaces", 0},
		{"one interface", 1},
		{"several interfaces", 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reg := NewRegistry()

			var decls []InterfaceInfo
			for i := 0; i < c.ifaces; i++ {
				name := string(rune('a'+i)) + "-cap"
				reg.Register(TypeInfo{Name: name, Parent: TypeInterface, Abstract: true})
				decls = append(decls, InterfaceInfo{Parent: name})
			}
			reg.Register(TypeInfo{Name: "device", Interfaces: decls})

			baseline := reg.LiveObjects()

			inst := reg.New("device")
			if got := reg.LiveObjects(); got != baseline+1+c.ifaces {
				t.Fatalf("after New: expected %d live objects, got %d", baseline+1+c.ifaces, got)
			}

			reg.Delete(inst)
			if got := reg.LiveObjects(); got != baseline {
				t.Errorf("after Delete: expected %d live objects, got %d", baseline, got)
			}
		})
	}
}

func TestFinalizeReinitializesAsParent(t *testing.T) {
	reg := NewRegistry()

	var initLog, finLog []string
	reg.Register(TypeInfo{
		Name:             "device",
		InstanceInit:     func(*Object) { initLog = append(initLog, "device") },
		InstanceFinalize: func(*Object) { finLog = append(finLog, "device") },
	})
	reg.Register(TypeInfo{
		Name:             "pci",
		Parent:           "device",
		InstanceInit:     func(*Object) { initLog = append(initLog, "pci") },
		InstanceFinalize: func(*Object) { finLog = append(finLog, "pci") },
	})

	inst := reg.New("pci")
	initLog = nil

	reg.Finalize(inst)

	// Only the most-derived finalize hook runs.
	if len(finLog) != 1 || finLog[0] != "pci" {
		t.Errorf("expected finalize log [pci], got %v", finLog)
	}

	// The parent-level initialize chain ran again.
	if len(initLog) != 1 || initLog[0] != "device" {
		t.Errorf("expected re-init log [device], got %v", initLog)
	}

	// The class record reference is untouched.
	if inst.TypeName() != "pci" {
		t.Errorf("finalize must not rewrite the class record, got %q", inst.TypeName())
	}
}

func TestFinalizeDestroysOwnedInterfaces(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{Name: "powered", Parent: TypeInterface, Abstract: true})
	reg.Register(TypeInfo{
		Name:       "fan",
		Interfaces: []InterfaceInfo{{Parent: "powered"}},
	})

	inst := reg.New("fan")
	view := inst.DynamicCast("powered")
	if view == nil || view == inst {
		t.Fatal("expected a distinct capability object")
	}

	reg.Finalize(inst)

	// fan is a root type, so no parent re-init runs and no views remain.
	if got := len(inst.Interfaces()); got != 0 {
		t.Errorf("expected 0 capability objects after finalize, got %d", got)
	}
}

func TestInitializeCallerBuffer(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{Name: "device", InstanceSize: 32})

	baseline := reg.LiveObjects()

	var obj Object
	reg.Initialize(&obj, "device")

	if obj.TypeName() != "device" {
		t.Errorf("expected type 'device', got %q", obj.TypeName())
	}
	if reg.LiveObjects() != baseline {
		t.Error("Initialize on a caller buffer must not touch the allocation counters")
	}
}

func TestUseWithoutInitializeFatal(t *testing.T) {
	var obj Object

	mustPanic(t, ErrUninitialized, func() {
		obj.TypeName()
	})
}

func TestSendUnknownSelector(t *testing.T) {
	reg := NewRegistry()

	reg.Register(TypeInfo{Name: "mute"})

	inst := reg.New("mute")
	result := inst.Send("speak", nil)
	if !result.IsError() {
		t.Errorf("unknown selector should yield an error value, got %v", result)
	}
}
