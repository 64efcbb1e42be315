// Package notebook provides the in-memory model of a cell-structured
// document (an nbformat notebook) and its deterministic serialization.
//
// This package imports nothing internal. Every other package that touches a
// notebook goes through Document, so the structural invariants live here:
//   - Cell count and order never change through Parse -> Marshal
//   - Cell sources are held as one normalized string regardless of whether
//     the file stored them as a string or as an array of line-strings
//   - Fields the engine does not understand (metadata, outputs, ids) are kept
//     verbatim as raw JSON
//   - Marshal output is stable: sorted keys, two-space indent, one style for
//     every cell source
package notebook
