// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a live monitor for the upload queue: a list of every queued task
// with its status and progress, a progress bar for the task currently
// uploading, and a summary line of pending/completed/failed counts.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// The queue store is polled on a short tick rather than subscribed to, so the
// monitor stays a read-only observer of processor state.
//
// Keyboard navigation uses vim-style bindings (j/k, x to remove, c to clear
// completed, q to quit) with contextual help displayed via charmbracelet/bubbles/help.
package ui
