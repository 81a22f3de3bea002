// omt - object model tool: validates type manifests, dumps registered
// hierarchies, and snapshots them to a database.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/bingbuidea/qemu-1/lib/inspect"
	"github.com/bingbuidea/qemu-1/lib/object"
	"github.com/bingbuidea/qemu-1/manifest"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	manifestDir := flag.String("manifest", ".", "Directory to search for objmodel.toml")
	dbPath := flag.String("db", "objmodel.db", "Snapshot database path (used with snapshot)")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: omt [options] <command>\n\n")
		fmt.Fprintf(os.Stderr, "Loads the objmodel.toml type manifest and runs one command against it.\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  validate   Register and build every declared type\n")
		fmt.Fprintf(os.Stderr, "  dump       Print the registered hierarchy as a tree\n")
		fmt.Fprintf(os.Stderr, "  snapshot   Persist a registry snapshot to the database\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  omt validate                   # Check the manifest in the current tree\n")
		fmt.Fprintf(os.Stderr, "  omt -manifest ./boards dump    # Show the boards hierarchy\n")
		fmt.Fprintf(os.Stderr, "  omt -db state.db snapshot      # Snapshot into state.db\n")
	}
	flag.Parse()

	if *verbose {
		commonlog.Configure(1, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	m, err := manifest.FindAndLoad(*manifestDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "Error: no objmodel.toml found from %s\n", *manifestDir)
		os.Exit(1)
	}

	reg := object.NewRegistry()
	types, err := m.RegisterAll(reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("Loaded %s (%d types)\n", m.Project.Name, len(types))
	}

	switch args[0] {
	case "validate":
		runValidate(reg, types, *verbose)
	case "dump":
		runDump(reg)
	case "snapshot":
		runSnapshot(reg, *dbPath)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
}

// runValidate builds every declared class record. Malformed hierarchies and
// size violations abort the build; report them as validation failures.
func runValidate(reg *object.Registry, types []*object.Type, verbose bool) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "invalid: %v\n", r)
			os.Exit(1)
		}
	}()

	for _, ti := range types {
		built := ti.EnsureClass()
		if verbose {
			fmt.Printf("  built %s (class size %d)\n", ti.Name(), built.Size())
		}
	}

	fmt.Printf("ok: %d types\n", len(types))
}

// runDump prints the hierarchy as an indented tree, roots first.
func runDump(reg *object.Registry) {
	children := make(map[string][]string)
	var roots []string
	for _, name := range reg.TypeNames() {
		ti := reg.Lookup(name)
		if ti.Anonymous() {
			continue
		}
		if ti.Parent() == "" {
			roots = append(roots, name)
		} else {
			children[ti.Parent()] = append(children[ti.Parent()], name)
		}
	}
	sort.Strings(roots)

	var dump func(name string, depth int)
	dump = func(name string, depth int) {
		ti := reg.Lookup(name)
		line := strings.Repeat("  ", depth) + name
		if ti.Abstract() {
			line += " (abstract)"
		}
		if ifaces := ti.InterfaceParents(); len(ifaces) > 0 {
			line += " [" + strings.Join(ifaces, ", ") + "]"
		}
		fmt.Println(line)
		for _, child := range children[name] {
			dump(child, depth+1)
		}
	}

	for _, root := range roots {
		dump(root, 0)
	}
}

func runSnapshot(reg *object.Registry, dbPath string) {
	store, err := inspect.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	id, err := store.Save(inspect.Capture(reg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(id)
}
