// Package inspect captures and persists snapshots of a type registry for
// debugging and tooling: which types are registered, how their hierarchy is
// shaped, and how many objects are live.
package inspect

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/bingbuidea/qemu-1/lib/object"
)

// cborEncMode holds CBOR encoding options with canonical mode for
// deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("inspect: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// TypeRecord is the serialized form of one registered type.
type TypeRecord struct {
	Name         string   `cbor:"name"`
	Parent       string   `cbor:"parent,omitempty"`
	ClassSize    int      `cbor:"class_size,omitempty"`
	InstanceSize int      `cbor:"instance_size,omitempty"`
	Abstract     bool     `cbor:"abstract,omitempty"`
	Anonymous    bool     `cbor:"anonymous,omitempty"`
	Interfaces   []string `cbor:"interfaces,omitempty"`

	// Built is set when the class record exists; BuiltSize is its resolved
	// size.
	Built     bool `cbor:"built,omitempty"`
	BuiltSize int  `cbor:"built_size,omitempty"`
}

// Snapshot is a point-in-time view of a registry.
type Snapshot struct {
	TakenAt     time.Time    `cbor:"taken_at"`
	Types       []TypeRecord `cbor:"types"`
	LiveObjects int          `cbor:"live_objects"`
}

// Capture records the current state of reg. Types are listed in name order;
// nothing is built as a side effect.
func Capture(reg *object.Registry) *Snapshot {
	snap := &Snapshot{TakenAt: time.Now().UTC()}

	for _, name := range reg.TypeNames() {
		ti := reg.Lookup(name)
		rec := TypeRecord{
			Name:         ti.Name(),
			Parent:       ti.Parent(),
			ClassSize:    ti.ClassSize(),
			InstanceSize: ti.InstanceSize(),
			Abstract:     ti.Abstract(),
			Anonymous:    ti.Anonymous(),
			Interfaces:   ti.InterfaceParents(),
		}
		if built := ti.Built(); built != nil {
			rec.Built = true
			rec.BuiltSize = built.Size()
		}
		snap.Types = append(snap.Types, rec)
	}

	snap.LiveObjects = reg.LiveObjects()
	return snap
}

// Marshal serializes a Snapshot to CBOR bytes.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a Snapshot from CBOR bytes.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("inspect: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// Find returns the record for name, or nil.
func (s *Snapshot) Find(name string) *TypeRecord {
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i]
		}
	}
	return nil
}
