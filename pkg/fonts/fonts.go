// Package fonts loads the portable font table used to resolve GrAF font
// requests to concrete font files.
//
// A table lists font families by their accepted names together with the
// regular, bold and italic face files of each family:
//
//	[[family]]
//	names = ["sanserif", "sans-serif", "Roboto"]
//	regular = "assets/fonts/Roboto/Roboto-Regular.ttf"
//	bold = "assets/fonts/Roboto/Roboto-Bold.ttf"
//	italic = ""
//
// The table is an explicit value: load it once with [Load] (or use the
// embedded [Default]) and pass it to whatever resolves fonts. Load failures
// are returned to the caller.
package fonts

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/Grant-Giesbrecht/graf/pkg/errors"
)

//go:embed portable_fonts.toml
var portableFonts []byte

// Face selects one face of a family.
type Face int

const (
	Regular Face = iota
	Bold
	Italic
)

func (f Face) String() string {
	switch f {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	}
	return "regular"
}

// Family is one font family entry.
type Family struct {
	Names   []string `toml:"names"`
	Regular string   `toml:"regular"`
	Bold    string   `toml:"bold"`
	Italic  string   `toml:"italic"`
}

// Path returns the file of the given face, or false if the family has none.
func (f *Family) Path(face Face) (string, bool) {
	var p string
	switch face {
	case Bold:
		p = f.Bold
	case Italic:
		p = f.Italic
	default:
		p = f.Regular
	}
	return p, p != ""
}

// Table is a loaded font table.
type Table struct {
	Families []Family `toml:"family"`

	// Root is the directory relative face paths are resolved against.
	Root string `toml:"-"`
}

// Parse decodes a font table. Every family must have at least one name.
func Parse(data []byte, root string) (*Table, error) {
	var t Table
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode font table")
	}
	for i, f := range t.Families {
		if len(f.Names) == 0 || f.Names[0] == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "font family %d has no name", i)
		}
	}
	t.Root = root
	return &t, nil
}

// Load reads a font table file. Relative face paths resolve against the
// file's directory.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read font table %s", path)
	}
	return Parse(data, filepath.Dir(path))
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the embedded portable font table. The result is parsed
// once and shared; callers must not modify it.
func Default() *Table {
	defaultTableOnce.Do(func() {
		t, err := Parse(portableFonts, "")
		if err != nil {
			panic("fonts: embedded table: " + err.Error())
		}
		defaultTable = t
	})
	return defaultTable
}

// Lookup finds the family that lists name among its names.
func (t *Table) Lookup(name string) (*Family, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Families {
		for _, n := range t.Families[i].Names {
			if n == name {
				return &t.Families[i], true
			}
		}
	}
	return nil, false
}

// Resolve returns the absolute path of a family face. Bold wins over italic
// when both are requested and present; a missing requested face falls back
// to the next candidate and finally to regular.
func (t *Table) Resolve(name string, bold, italic bool) (string, Face, bool) {
	f, ok := t.Lookup(name)
	if !ok {
		return "", Regular, false
	}
	var candidates []Face
	if bold {
		candidates = append(candidates, Bold)
	}
	if italic {
		candidates = append(candidates, Italic)
	}
	candidates = append(candidates, Regular)
	for _, face := range candidates {
		if p, ok := f.Path(face); ok {
			return t.abs(p), face, true
		}
	}
	return "", Regular, false
}

func (t *Table) abs(p string) string {
	if t.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(t.Root, p)
}

// Names returns the primary name of every family in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Families))
	for i, f := range t.Families {
		out[i] = f.Names[0]
	}
	return out
}
