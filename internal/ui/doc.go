// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for managing the troop's media library:
//  1. [MenuView] : Pick a collection (songs & chants, scouting techniques)
//  2. [LoginView] : Exchange credentials for a token pair
//  3. [ListView] : Browse, search, and filter one collection
//  4. [FormView] : Create or edit an item with per-field validation errors
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// All network calls run as [tea.Cmd] functions so the update loop stays
// single-threaded; responses carry a generation counter and stale ones are
// dropped. Search input is debounced via [tea.Tick] before a fetch fires,
// while discrete filter changes fetch immediately. Transient status toasts
// dismiss themselves after a few seconds.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, n/e/x, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
