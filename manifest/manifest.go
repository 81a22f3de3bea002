// Package manifest handles objmodel.toml type-manifest files: declarative
// registration of type hierarchies loaded at process start.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bingbuidea/qemu-1/lib/object"
)

// Manifest represents an objmodel.toml file.
type Manifest struct {
	Project Project    `toml:"project"`
	Types   []TypeDecl `toml:"types"`

	// Dir is the directory containing the objmodel.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// TypeDecl declares a single type. Hooks are code and cannot be declared
// here; callers that need hooks register those types through the object
// package directly.
type TypeDecl struct {
	Name         string   `toml:"name"`
	Parent       string   `toml:"parent"`
	ClassSize    int      `toml:"class-size"`
	InstanceSize int      `toml:"instance-size"`
	Abstract     bool     `toml:"abstract"`
	Interfaces   []string `toml:"interfaces"`
}

// Load parses an objmodel.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "objmodel.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find an objmodel.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "objmodel.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks the declarations against each other and the registry:
// names must be present and unique within the manifest, and every declared
// parent and interface must resolve to another declaration or an already
// registered type.
func (m *Manifest) Validate(reg *object.Registry) error {
	declared := make(map[string]bool, len(m.Types))
	for _, decl := range m.Types {
		if decl.Name == "" {
			return fmt.Errorf("manifest %s: type declaration without a name", m.Dir)
		}
		if declared[decl.Name] {
			return fmt.Errorf("manifest %s: type %q declared twice", m.Dir, decl.Name)
		}
		declared[decl.Name] = true
	}

	resolvable := func(name string) bool {
		return declared[name] || reg.Lookup(name) != nil
	}

	for _, decl := range m.Types {
		if decl.Parent != "" && !resolvable(decl.Parent) {
			return fmt.Errorf("manifest %s: type %q names unknown parent %q",
				m.Dir, decl.Name, decl.Parent)
		}
		for _, iface := range decl.Interfaces {
			if !resolvable(iface) {
				return fmt.Errorf("manifest %s: type %q names unknown interface %q",
					m.Dir, decl.Name, iface)
			}
		}
	}

	return nil
}

// RegisterAll validates the manifest and registers every declared type, in
// declaration order. Returns the registered type handles.
func (m *Manifest) RegisterAll(reg *object.Registry) ([]*object.Type, error) {
	if err := m.Validate(reg); err != nil {
		return nil, err
	}

	types := make([]*object.Type, 0, len(m.Types))
	for _, decl := range m.Types {
		var ifaces []object.InterfaceInfo
		for _, parent := range decl.Interfaces {
			ifaces = append(ifaces, object.InterfaceInfo{Parent: parent})
		}

		types = append(types, reg.Register(object.TypeInfo{
			Name:         decl.Name,
			Parent:       decl.Parent,
			ClassSize:    decl.ClassSize,
			InstanceSize: decl.InstanceSize,
			Abstract:     decl.Abstract,
			Interfaces:   ifaces,
		}))
	}

	return types, nil
}
