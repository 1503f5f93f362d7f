// Package ui implements an interactive terminal playlist browser using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [LoadingView] : playlists are being fetched
//  2. [PlaylistListView] : browse and filter playlists; enter opens the selected one in the browser
//  3. [ErrorView] : the fetch failed; r retries
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Fetching and opening run as [tea.Cmd]s so the event loop never blocks on the network or the browser.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
