// Package catalog implements the browsing pipeline and dashboard aggregation
// over an in-memory snapshot of the record collection.
//
// Everything here is pure computation: Apply filters and sorts a snapshot
// according to user controls, Selection keeps the "currently shown" record
// stable while the view changes underneath it, and Summarize produces the
// dashboard statistics. The HTTP handlers, the CLI and the TUI all share this
// single implementation.
package catalog
