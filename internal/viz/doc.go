// Package viz renders catch runs in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [DrawScene]: track, falling ball and train for one record
//   - [Replay]: Bubble Tea model stepping through a stored dataset
//   - [PlotColumns]: asciigraph line charts of dataset columns
//
// # Replay Key Bindings
//
//	Space      - Play/Pause
//	Left/Right - Step one frame
//	Home/End   - Jump to start/end
//	+/-        - Playback speed
//	q          - Quit
package viz
