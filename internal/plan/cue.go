package plan

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// decodeCUE compiles a CUE plan, unifies it with the #Plan schema and decodes
// the concrete result. Errors carry the CUE position of the first problem.
func decodeCUE(filename string, data []byte) (*planFile, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling plan schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(ErrCodeParseFailed, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Plan")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}

	var pf planFile
	if err := unified.Decode(&pf); err != nil {
		return nil, cueLoadError(ErrCodeParseFailed, err)
	}
	return &pf, nil
}

// cueLoadError converts a CUE error to a LoadError positioned at its first
// error, preferring a position inside the plan file over the schema.
func cueLoadError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	loadErr := &LoadError{Code: code, Message: first.Error()}
	for _, pos := range errors.Positions(first) {
		if pos.Filename() != "schema.cue" {
			loadErr.Pos = pos
			break
		}
	}
	return loadErr
}
