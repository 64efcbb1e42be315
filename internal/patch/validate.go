package patch

import (
	"fmt"
	"strings"
)

// Validation error codes (E200-E299)
const (
	ErrSpecNameEmpty     = "E201" // name is required
	ErrSelectorEmpty     = "E202" // selector needs index or contains
	ErrSelectorIndex     = "E203" // negative index
	ErrNoOps             = "E204" // at least one op required
	ErrUnknownOpKind     = "E205" // op kind not recognized
	ErrOpFieldMissing    = "E206" // op lacks a field its kind needs
	ErrMarkerRequired    = "E207" // anchor insertion without a marker
	ErrMarkerNotInserted = "E208" // marker not inserted exactly once
	ErrNotIdempotent     = "E209" // marker-less rewrite would repeat
	ErrDuplicateName     = "E210" // two specs share a name
)

// ValidationError describes one problem with a Spec.
type ValidationError struct {
	Patch   string `json:"patch"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Patch != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Patch, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateAll validates every spec and checks names are unique.
// Returns all errors found (does not fail-fast).
func ValidateAll(specs []Spec) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(specs))
	for i, spec := range specs {
		errs = append(errs, Validate(spec)...)
		if spec.Name == "" {
			continue
		}
		if seen[spec.Name] {
			errs = append(errs, ValidationError{
				Patch:   spec.Name,
				Field:   fmt.Sprintf("patches[%d].name", i),
				Message: "duplicate patch name",
				Code:    ErrDuplicateName,
			})
		}
		seen[spec.Name] = true
	}
	return errs
}

// Validate checks a single spec. Passing is necessary but not sufficient for
// idempotence: a marker-less rewrite can still recreate its from text out of
// the surrounding source. Apply catches that case when it happens and
// refuses the patch with an *UnstableError.
func Validate(spec Spec) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Patch:   spec.Name,
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	if strings.TrimSpace(spec.Name) == "" {
		add("name", ErrSpecNameEmpty, "name is required and must be non-empty")
	}

	sel := spec.Select
	if sel.Index == nil && len(sel.Contains) == 0 {
		add("select", ErrSelectorEmpty, "selector needs an index or at least one contains substring")
	}
	if sel.Index != nil && *sel.Index < 0 {
		add("select.index", ErrSelectorIndex, "index must be >= 0, got %d", *sel.Index)
	}
	for i, c := range sel.Contains {
		if c == "" {
			add(fmt.Sprintf("select.contains[%d]", i), ErrSelectorEmpty, "contains substring must be non-empty")
		}
	}

	if len(spec.Ops) == 0 {
		add("ops", ErrNoOps, "at least one op is required")
	}

	hasAnchor := false
	for i, op := range spec.Ops {
		field := fmt.Sprintf("ops[%d]", i)
		switch op.Kind {
		case OpInsertAfterAnchor:
			hasAnchor = true
			if len(op.Anchor) == 0 {
				add(field+".anchor", ErrOpFieldMissing, "insert_after_anchor requires anchor substrings")
			}
			for j, a := range op.Anchor {
				if a == "" {
					add(fmt.Sprintf("%s.anchor[%d]", field, j), ErrOpFieldMissing, "anchor substring must be non-empty")
				}
			}
			if len(op.Lines) == 0 {
				add(field+".lines", ErrOpFieldMissing, "insert_after_anchor requires lines")
			}
		case OpReplaceLiteral:
			if op.From == "" {
				add(field+".from", ErrOpFieldMissing, "replace_literal requires from")
			}
			if spec.Marker == "" && op.From != "" && strings.Contains(op.To, op.From) {
				add(field+".to", ErrNotIdempotent, "to contains from; without a marker the rewrite would repeat on every run")
			}
		case OpInsertBeforeMarker:
			if op.Marker == "" {
				add(field+".marker", ErrOpFieldMissing, "insert_before_marker requires marker")
			}
			if len(op.Lines) == 0 {
				add(field+".lines", ErrOpFieldMissing, "insert_before_marker requires lines")
			}
		default:
			add(field+".kind", ErrUnknownOpKind, "unknown op kind %q, must be one of %v", op.Kind, ValidOpKinds)
		}
	}

	if hasAnchor && spec.Marker == "" {
		add("marker", ErrMarkerRequired, "a spec that inserts after an anchor requires a marker")
	}
	if spec.Marker != "" {
		if n := countInserted(spec.Ops, spec.Marker); n != 1 {
			add("marker", ErrMarkerNotInserted, "marker %q must occur exactly once in the inserted text, found %d", spec.Marker, n)
		}
	}

	return errs
}

// countInserted counts marker occurrences in all text a spec's ops add.
func countInserted(ops []Op, marker string) int {
	n := 0
	for _, op := range ops {
		switch op.Kind {
		case OpInsertAfterAnchor, OpInsertBeforeMarker:
			n += strings.Count(strings.Join(op.Lines, "\n"), marker)
		case OpReplaceLiteral:
			n += strings.Count(op.To, marker)
		}
	}
	return n
}
