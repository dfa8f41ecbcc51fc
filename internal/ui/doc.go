// Package ui implements an interactive catalog browser using bubbletea's Elm architecture.
//
// The browser is a single-view TUI over the filter/sort pipeline: the left
// pane lists the current view, the right pane shows the selected record, and
// every keystroke that changes a control re-runs the pipeline against the
// in-memory snapshot. Selection is sticky: re-sorting or re-filtering keeps
// the same record focused as long as it is still visible.
//
// Keyboard navigation uses vim-style bindings (j/k, / to search, f/s to
// toggle the favorite/special gates, o to cycle sort, F to cycle format,
// q to quit) with contextual help via charmbracelet/bubbles/help.
package ui
