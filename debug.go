package terra

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame layout metrics. Only populated when the
// engine's debug mode is on.
type frameStats struct {
	frameTime time.Duration
	visible   int
	hidden    int
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// timing and visibility stats are logged to stderr, along with rejected
// activation requests.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// debugLog prints frame stats to stderr.
func (e *Engine) debugLog() {
	_, _ = fmt.Fprintf(os.Stderr,
		"[terra] mode: %s | angle: %.3f | speed: %.3f | zoom: %.2f | visible: %d/%d | frame: %v\n",
		e.mode, e.orbit.Angle, e.orbit.CurrentSpeed, e.orbit.ZoomLevel,
		e.stats.visible, e.stats.visible+e.stats.hidden, e.stats.frameTime)
}

// debugf prints a formatted message to stderr in debug mode.
func (e *Engine) debugf(format string, args ...any) {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[terra] "+format+"\n", args...)
}
