// Package ui provides the terminal user interface for the viewer.
//
// # Overview
//
// The UI is a single Bubble Tea model over the engine packages: it
// projects store snapshots through display.Projector, renders only the
// visible rows through vlist.Window, and routes every follow/pause
// decision through the scroll state machine. The model owns no log
// data of its own; RefreshMsg tells it the store changed and it
// re-projects.
//
// # Package Structure
//
//   - app.go: root Model, Update loop, key dispatch, debounced inputs
//   - logs.go: frame layout and per-line rendering
//   - header.go: source chips with selection and status
//   - status.go: footer with follow state, match position, counters
//   - keys.go: key bindings (bubbles/key)
//   - theme.go: lipgloss themes and styles
//   - help.go: help overlay
//
// Filter edits apply after a 300ms debounce, search edits after 250ms;
// both also apply immediately on enter.
package ui
