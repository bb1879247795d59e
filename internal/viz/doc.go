// Package viz provides a terminal view of a running N-body simulation.
//
// [Model] is a Bubble Tea model that advances the universe on every tick and
// draws the bodies on a braille [render.Canvas], next to a panel with the
// simulated time, the current step size and a graph of the relative energy
// error.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the initial universe
//	+/-   - Zoom in/out
//	</>   - Fewer/more steps per frame
//	T     - Toggle trails
//	C     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Pressing G starts capturing frames; pressing it again writes them to
// simulation.gif in the current directory.
package viz
