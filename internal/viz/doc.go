// Package viz renders two-body runs in the terminal.
//
//   - [Model]: Bubble Tea program that integrates and draws the pair live
//   - [Canvas]: Braille-based pixel canvas
//   - [RenderSummary]: lipgloss panel with run statistics
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to initial state
//	+/-   - Steps per frame
//	Q     - Quit
package viz
