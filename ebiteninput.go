package terra

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// defaultWheelScale converts ebiten wheel ticks to the engine's scroll
// delta units (one tick ~ one notch ~ 100 units, matching DOM wheel
// deltas).
const defaultWheelScale = 100

// InputAdapter feeds Ebitengine input into the engine: mouse wheel scroll
// becomes orbital speed input, arrow keys become discrete orbit nudges,
// and left clicks become pointer picks. Call Update once per frame from
// the game's Update.
//
// Key bindings: arrows nudge the orbit, +/- zoom, Home resets the view,
// Escape exits focus lock.
type InputAdapter struct {
	engine     *Engine
	WheelScale float64
}

// NewInputAdapter creates an adapter bound to the engine.
func NewInputAdapter(e *Engine) *InputAdapter {
	return &InputAdapter{engine: e, WheelScale: defaultWheelScale}
}

// Update reads this frame's input state and forwards it to the engine.
func (a *InputAdapter) Update() {
	e := a.engine

	// Wheel: ebiten reports upward scroll as positive Y; the engine wants
	// downward-positive deltas.
	if _, wy := ebiten.Wheel(); wy != 0 {
		e.Scroll(-wy * a.WheelScale)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		e.Nudge(-1, 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		e.Nudge(1, 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		e.Nudge(0, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		e.Nudge(0, -1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		e.Zoom(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		e.Zoom(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		e.ResetView()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		e.ExitFocusMode()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		e.Click(float64(mx), float64(my))
	}
}
