package plan

import (
	"github.com/roach88/cellpatch/internal/patch"
)

// Plan is a validated, ready-to-apply list of specs.
type Plan struct {
	Name        string
	Description string
	// Origin is where the plan came from: a file path or "builtin:<name>".
	Origin  string
	Patches []patch.Spec
}

// PatchNames returns the spec names in order.
func (p *Plan) PatchNames() []string {
	names := make([]string, len(p.Patches))
	for i, s := range p.Patches {
		names[i] = s.Name
	}
	return names
}

// planFile is the on-disk schema shared by YAML (yaml tags) and CUE (json
// tags, used by cue.Value.Decode).
type planFile struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Patches     []patchFile `yaml:"patches" json:"patches"`
}

type patchFile struct {
	Name   string     `yaml:"name" json:"name"`
	Select selectFile `yaml:"select" json:"select"`
	Marker string     `yaml:"marker,omitempty" json:"marker,omitempty"`
	Ops    []opFile   `yaml:"ops" json:"ops"`
}

type selectFile struct {
	Index    *int     `yaml:"index,omitempty" json:"index,omitempty"`
	Contains []string `yaml:"contains,omitempty" json:"contains,omitempty"`
}

type opFile struct {
	Kind      string   `yaml:"kind" json:"kind"`
	Anchor    []string `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	Lines     []string `yaml:"lines,omitempty" json:"lines,omitempty"`
	LinesFile string   `yaml:"lines_file,omitempty" json:"lines_file,omitempty"`
	From      string   `yaml:"from,omitempty" json:"from,omitempty"`
	To        string   `yaml:"to,omitempty" json:"to,omitempty"`
	Marker    string   `yaml:"marker,omitempty" json:"marker,omitempty"`
}
