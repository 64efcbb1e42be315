package plan

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed builtin
var builtinFS embed.FS

// DefaultBuiltin is the plan the CLI applies when none is named.
const DefaultBuiltin = "drift-psi"

// BuiltinNames lists the embedded plans, sorted.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch path.Ext(e.Name()) {
		case ".yaml", ".yml", ".cue":
			names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
		}
	}
	sort.Strings(names)
	return names
}

// Builtin loads an embedded plan by name.
func Builtin(name string) (*Plan, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	for _, ext := range []string{".yaml", ".yml", ".cue"} {
		file := name + ext
		if _, err := fs.Stat(sub, file); err != nil {
			continue
		}
		p, err := Load(sub, file)
		if err != nil {
			return nil, err
		}
		p.Origin = "builtin:" + name
		return p, nil
	}
	return nil, &LoadError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("unknown builtin plan %q (available: %s)", name, strings.Join(BuiltinNames(), ", ")),
	}
}
