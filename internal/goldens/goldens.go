// Package goldens loads .txtar fixtures bundling a Jactl source file
// with its expected disassembly, JSON, or checkpoint bytes, for table
// tests across internal/parser, internal/codegen, and
// internal/checkpoint.
//
// Grounded on funvibe-funxy's internal/ext/inspector.go, which already
// pulls in the golang.org/x/tools module (via go/packages) for this
// module's Go-ecosystem integration; goldens reaches for that same
// module's txtar sub-package for its test fixture format rather than
// hand-rolling a delimiter convention.
package goldens

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/txtar"
)

// Fixture is one parsed .txtar file: the comment header (free-text
// description) plus named sections (commonly "input.jactl",
// "disasm.txt", "checkpoint.json").
type Fixture struct {
	Name    string
	Comment string
	Files   map[string]string
}

// Load reads and parses path as a txtar archive.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("goldens.Load: %w", err)
	}
	return Parse(filepath.Base(path), data), nil
}

// Parse decodes raw txtar bytes into a Fixture named name.
func Parse(name string, data []byte) *Fixture {
	arc := txtar.Parse(data)
	f := &Fixture{Name: name, Comment: string(arc.Comment), Files: map[string]string{}}
	for _, file := range arc.Files {
		f.Files[file.Name] = string(file.Data)
	}
	return f
}

// Section returns the named section's contents, or ("", false) if the
// fixture has no such section.
func (f *Fixture) Section(name string) (string, bool) {
	s, ok := f.Files[name]
	return s, ok
}

// MustSection is Section, failing via panic with a descriptive message
// when the section is absent — for test helpers that already know the
// fixture's shape and treat a missing section as a malformed fixture.
func (f *Fixture) MustSection(name string) string {
	s, ok := f.Files[name]
	if !ok {
		panic(fmt.Sprintf("goldens: fixture %q has no %q section", f.Name, name))
	}
	return s
}

// LoadDir loads every *.txtar file directly inside dir (non-recursive),
// keyed by file name, the shape internal/codegen and internal/parser's
// table-driven tests range over.
func LoadDir(dir string) (map[string]*Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("goldens.LoadDir: %w", err)
	}
	out := map[string]*Fixture{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txtar" {
			continue
		}
		f, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out[entry.Name()] = f
	}
	return out, nil
}

// Format re-encodes a Fixture back to txtar bytes, used by tests that
// generate a fixture from a live compile and want to write it to
// testdata/ for future runs to pin against.
func Format(f *Fixture) []byte {
	arc := &txtar.Archive{Comment: []byte(f.Comment)}
	for name, data := range f.Files {
		arc.Files = append(arc.Files, txtar.File{Name: name, Data: []byte(data)})
	}
	return txtar.Format(arc)
}
