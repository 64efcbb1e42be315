// Package patch is the notebook patch engine.
//
// A Spec is plain data: a Selector naming the target cell, an idempotency
// marker, and an ordered list of line-level Ops. Apply interprets a list of
// specs against a Document and returns a new Document plus a Report; the
// input is never modified.
//
// Key guarantees:
//   - Idempotence: a spec whose marker is already in the selected cell is a
//     no-op, and every anchor insertion carries its marker
//   - Atomic per spec: if any anchor is missing, the cell is left untouched
//   - Isolation: a missing cell or anchor in one spec never stops the others
//   - Structure: Apply edits cell sources only, never cell count or kinds
//   - Stability: a marker-less spec is only applied when a second pass over
//     its own output would be a no-op
//
// Ops see lines without their terminators. A cell whose newlines are all
// "\r\n" is split and rejoined on "\r\n", so inserted lines pick up the
// cell's line ending. Cells with mixed endings are treated as "\n" cells.
//
// Outcomes are reported per spec as patched, already-patched,
// anchor-not-found or cell-not-found, so a caller can tell "done long ago"
// apart from "the document drifted and the anchor no longer matches".
package patch
