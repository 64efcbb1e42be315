package plan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/roach88/cellpatch/internal/patch"
)

// LoadFile loads a plan from disk. Payload files are resolved relative to
// the plan file's directory.
func LoadFile(p string) (*Plan, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("plan file not found: %s", p)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing plan file: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("plan path is a directory: %s", p)}
	}

	dir, base := filepath.Split(p)
	if dir == "" {
		dir = "."
	}
	plan, err := Load(os.DirFS(dir), base)
	if err != nil {
		return nil, err
	}
	plan.Origin = p
	return plan, nil
}

// Load loads the plan file name from fsys, choosing the decoder from the
// file extension (.yaml, .yml or .cue).
func Load(fsys fs.FS, name string) (*Plan, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading plan %s: %v", name, err)}
	}

	var pf *planFile
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".yaml", ".yml":
		pf, err = decodeYAML(data)
	case ".cue":
		pf, err = decodeCUE(name, data)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported plan extension %q: use .yaml, .yml or .cue", ext)}
	}
	if err != nil {
		return nil, err
	}

	return build(fsys, path.Dir(name), pf, name)
}

// build turns a decoded file into a validated Plan.
func build(fsys fs.FS, dir string, pf *planFile, origin string) (*Plan, error) {
	if strings.TrimSpace(pf.Name) == "" {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "plan name is required"}
	}
	if len(pf.Patches) == 0 {
		return nil, &LoadError{Code: ErrCodeNoPatches, Message: fmt.Sprintf("plan %q has no patches", pf.Name)}
	}

	plan := &Plan{
		Name:        pf.Name,
		Description: pf.Description,
		Origin:      origin,
		Patches:     make([]patch.Spec, 0, len(pf.Patches)),
	}
	for i, p := range pf.Patches {
		spec, err := convertPatch(fsys, dir, i, p)
		if err != nil {
			return nil, err
		}
		plan.Patches = append(plan.Patches, spec)
	}

	if errs := patch.ValidateAll(plan.Patches); len(errs) > 0 {
		return nil, &LoadError{
			Code:       ErrCodeInvalid,
			Message:    fmt.Sprintf("plan %q failed validation with %d error(s)", pf.Name, len(errs)),
			Validation: errs,
		}
	}
	return plan, nil
}

func convertPatch(fsys fs.FS, dir string, index int, p patchFile) (patch.Spec, error) {
	spec := patch.Spec{
		Name: p.Name,
		Select: patch.Selector{
			Index:    p.Select.Index,
			Contains: p.Select.Contains,
		},
		Marker: p.Marker,
		Ops:    make([]patch.Op, 0, len(p.Ops)),
	}
	for j, o := range p.Ops {
		lines, err := resolveLines(fsys, dir, o)
		if err != nil {
			return patch.Spec{}, &LoadError{
				Code:    ErrCodeLinesFile,
				Message: fmt.Sprintf("patches[%d].ops[%d]: %v", index, j, err),
			}
		}
		spec.Ops = append(spec.Ops, patch.Op{
			Kind:   patch.OpKind(o.Kind),
			Anchor: o.Anchor,
			Lines:  lines,
			From:   o.From,
			To:     o.To,
			Marker: o.Marker,
		})
	}
	return spec, nil
}

// resolveLines returns the op's inline lines or reads its payload file.
func resolveLines(fsys fs.FS, dir string, o opFile) ([]string, error) {
	if o.LinesFile == "" {
		return o.Lines, nil
	}
	if len(o.Lines) > 0 {
		return nil, fmt.Errorf("lines and lines_file are mutually exclusive")
	}
	data, err := fs.ReadFile(fsys, path.Join(dir, filepath.ToSlash(o.LinesFile)))
	if err != nil {
		return nil, fmt.Errorf("reading lines_file: %w", err)
	}
	return SplitPayload(string(data)), nil
}

// SplitPayload splits payload text into lines, dropping one trailing newline
// so a file ending in "\n" does not contribute an empty last line. Windows
// line endings are normalized.
func SplitPayload(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
