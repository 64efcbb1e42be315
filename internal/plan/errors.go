package plan

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/cellpatch/internal/patch"
)

// Error code constants for plan loading.
const (
	ErrCodeNoPatches   = "E003" // Plan has no patches
	ErrCodeParseFailed = "E004" // YAML/CUE syntax or decode error
	ErrCodeNotFound    = "E005" // Plan or builtin not found
	ErrCodeSchema      = "E006" // CUE schema violation
	ErrCodeUnsupported = "E008" // Unsupported plan file extension
	ErrCodeLinesFile   = "E009" // Payload file missing or conflicting
	ErrCodeInvalid     = "E200" // Patch validation failed (see Validation)
)

// LoadError represents an error that occurred while loading a plan.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available

	// Validation holds the patch validation errors behind ErrCodeInvalid.
	Validation []patch.ValidationError
}

func (e *LoadError) Error() string {
	msg := e.Message
	if len(e.Validation) > 0 {
		parts := make([]string, len(e.Validation))
		for i, v := range e.Validation {
			parts[i] = v.Error()
		}
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(parts, "; "))
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}
