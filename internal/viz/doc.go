// Package viz hosts the backdrop in a terminal.
//
// The package implements the live view using the Bubble Tea framework:
//
//   - [Model]: bubbletea model driving a [loop.Loop] from tea.Tick frames
//   - [TermSurface]: scene surface over a braille [Canvas], coloured per cell
//   - Theme selection with 5 built-in colour schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart with a fresh world
//	T     - Cycle colour themes
//	S     - Toggle the stats panel
//	?     - Show help overlay
//
// Terminal resizes change the scene bounds; entities keep their positions and
// drift into the new area on their own.
package viz
