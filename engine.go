package terra

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Engine is the orbital camera and hotspot geodesy engine. It owns the
// orbit state, the scroll mapper, the hotspot catalog, and the mode state
// machine, and drives them all from a single per-frame Update.
//
// The engine is single-threaded and cooperative: all state mutation
// happens on the frame tick, and animation timelines run across frames
// without ever blocking one.
type Engine struct {
	cfg      Config
	viewport Viewport

	orbit   *Orbit
	mapper  *ScrollMapper
	catalog *Catalog
	sink    LabelSink

	mode   Mode
	camPos mgl64.Vec3
	fov    float64

	// Focus state. activeID is set when a focus transition starts and
	// cleared only by a full transition back to free orbit.
	activeID      string
	preFocusSpeed float64
	focusAnim     *cameraAnim
	exitAnim      *cameraAnim
	resumeTimer   float64
	exitScroll    float64

	resetTween *gween.Tween

	handlers    handlerRegistry
	prevVisible map[string]bool

	debug bool
	stats frameStats
}

// New creates an engine with the given config and label sink. The sink may
// be nil when no label presentation layer is attached (layout results are
// still recorded on the hotspot runtimes).
func New(cfg Config, sink LabelSink) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("terra: %w", err)
	}
	e := &Engine{
		cfg:         cfg,
		viewport:    cfg.Viewport,
		orbit:       NewOrbit(cfg),
		mapper:      NewScrollMapper(cfg),
		sink:        sink,
		fov:         cfg.FOV,
		prevVisible: make(map[string]bool),
	}
	e.camPos = e.orbit.Position
	return e, nil
}

// SetHotspots replaces the hotspot catalog. Every entry is validated; an
// invalid coordinate or duplicate id rejects the whole load and keeps the
// previous catalog. Resetting the catalog mid-focus snaps the camera back
// to free orbit, since the active hotspot may no longer exist.
func (e *Engine) SetHotspots(hotspots []Hotspot) error {
	catalog, err := NewCatalog(hotspots, e.cfg.GlobeRadius+e.cfg.MarkerElevation)
	if err != nil {
		return err
	}
	e.catalog = catalog
	e.prevVisible = make(map[string]bool, catalog.Len())

	if e.mode != ModeOrbiting {
		e.mode = ModeOrbiting
		e.activeID = ""
		e.focusAnim, e.exitAnim = nil, nil
		e.camPos = e.orbit.Position
		e.fov = e.cfg.FOV
	}
	return nil
}

// Update advances the engine by dt seconds. Within the frame the order is
// strict: speed/angle input first, then transition timelines and the
// camera pose, then hotspot visibility and label layout.
func (e *Engine) Update(dt float64) {
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	if e.mode == ModeOrbiting {
		e.mapper.Update(dt, e.orbit)
		if e.resetTween != nil {
			val, done := e.resetTween.Update(float32(dt))
			e.orbit.SetZoomLevel(float64(val))
			if done {
				e.orbit.SetZoomLevel(1)
				e.resetTween = nil
			}
		}
		e.orbit.Advance(dt)
		e.camPos = e.orbit.Position
		e.fov = e.cfg.FOV
	} else {
		e.updateTransitions(dt)
	}

	e.layoutPass()

	if e.debug {
		e.stats.frameTime = time.Since(t0)
		e.debugLog()
	}
}

// layoutPass recomputes hotspot visibility and label placement for the
// frame. Skipped entirely while focused (labels are suppressed), in which
// case every label is toggled hidden.
func (e *Engine) layoutPass() {
	if e.catalog == nil {
		return
	}
	suppress := e.mode == ModeLocked || e.mode == ModeTransitioningToFocus
	pose := e.CameraPose()

	e.stats.visible, e.stats.hidden = 0, 0
	for i := range e.catalog.runtimes {
		rt := &e.catalog.runtimes[i]
		id := rt.Hotspot.ID

		visible := false
		if !suppress {
			sp := ProjectToScreen(rt.Surface, pose, e.viewport)
			if sp.OnScreen() && !Occluded(pose.Position, rt.Surface, e.cfg.GlobeRadius, e.cfg.OcclusionTolerance) {
				visible = true
				rt.Placement = labelLayout(Vec2{X: sp.X, Y: sp.Y}, rt.Hotspot.Title, e.viewport, &e.cfg)
				if e.sink != nil {
					e.sink.SetPlacement(id, rt.Placement)
				}
			}
		}
		rt.Visible = visible
		if visible {
			e.stats.visible++
		} else {
			e.stats.hidden++
		}

		// Toggle, don't re-set: the sink only hears about changes so a
		// DOM-backed implementation avoids reflow.
		if visible != e.prevVisible[id] {
			if e.sink != nil {
				e.sink.SetVisible(id, visible)
			}
			e.prevVisible[id] = visible
		}
	}
}

// CameraPose returns the camera pose for the current frame. The look
// target is always the globe center; the up vector flips to +Z only in
// the degenerate pole-focus case where the view axis is parallel to +Y.
func (e *Engine) CameraPose() CameraPose {
	pos := e.camPos
	if pos.Len() < e.cfg.NearPlane {
		// Degenerate: camera coincident with the globe center. Back off to
		// a safe distance rather than produce NaNs.
		pos = mgl64.Vec3{0, 0, e.cfg.GlobeRadius * 3}
	}
	up := mgl64.Vec3{0, 1, 0}
	if dir := pos.Normalize(); dir.Y() > 0.999 || dir.Y() < -0.999 {
		up = mgl64.Vec3{0, 0, 1}
	}
	return CameraPose{
		Position:  pos,
		Target:    mgl64.Vec3{},
		Up:        up,
		FOV:       e.fov,
		NearPlane: e.cfg.NearPlane,
		FarPlane:  e.cfg.FarPlane,
	}
}

// ResetView restores the resting view: the orbital speed snaps back to
// the baseline and the zoom level eases to 1 with an elastic overshoot.
// The orbit angle is preserved. Only meaningful while orbiting.
func (e *Engine) ResetView() {
	if e.mode != ModeOrbiting {
		return
	}
	e.orbit.SetSpeed(e.orbit.BaseSpeed)
	e.resetTween = gween.New(float32(e.orbit.ZoomLevel), 1,
		float32(e.cfg.ResetDuration.Seconds()), ease.OutElastic)
}

// Nudge applies discrete navigation steps: angleSteps moves along the
// orbit, inclSteps tilts the orbital plane. Each unit is one configured
// step. The camera is recomputed immediately rather than waiting for the
// next tick, and time-driven orbiting stays suspended for a short delay.
// Ignored unless orbiting.
func (e *Engine) Nudge(angleSteps, inclSteps int) {
	if e.mode != ModeOrbiting {
		return
	}
	if angleSteps != 0 {
		e.orbit.NudgeAngle(float64(angleSteps) * e.cfg.ManualStepAngle)
	}
	if inclSteps != 0 {
		e.orbit.NudgeInclination(float64(inclSteps) * e.cfg.ManualStepInclination)
	}
	e.camPos = e.orbit.Position
}

// Click handles a pointer pick at the given pixel coordinates. A click
// within the pick radius of a visible hotspot marker activates it;
// otherwise the click is resolved against the globe surface. Returns the
// picked geographic coordinate and whether anything was hit.
func (e *Engine) Click(x, y float64) (GeoPosition, bool) {
	if e.mode != ModeOrbiting {
		return GeoPosition{}, false
	}
	if e.catalog != nil {
		for i := range e.catalog.runtimes {
			rt := &e.catalog.runtimes[i]
			if !rt.Visible {
				continue
			}
			d := Vec2{X: rt.Placement.Marker.X - x, Y: rt.Placement.Marker.Y - y}
			if d.Length() <= e.cfg.PickRadius {
				e.ActivateHotspot(rt.Hotspot.ID)
				return rt.Hotspot.Geo, true
			}
		}
	}
	return PickSurface(x, y, e.CameraPose(), e.viewport, e.cfg.GlobeRadius)
}

// --- Accessors ---

// Mode returns the current camera mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// ActiveHotspotID returns the id of the hotspot currently targeted by a
// focus transition or lock, or "" while in free orbit.
func (e *Engine) ActiveHotspotID() string {
	return e.activeID
}

// Orbit returns the engine's orbit state. External collaborators only
// read it; all mutation happens through the engine.
func (e *Engine) Orbit() *Orbit {
	return e.orbit
}

// Hotspots returns the current runtime records, or nil before a catalog
// is loaded. The returned slice MUST NOT be mutated.
func (e *Engine) Hotspots() []HotspotRuntime {
	return e.catalog.Runtimes()
}

// Viewport returns the current rendering surface size.
func (e *Engine) Viewport() Viewport {
	return e.viewport
}

// SetViewport updates the rendering surface size on resize.
func (e *Engine) SetViewport(width, height float64) {
	if width > 0 && height > 0 {
		e.viewport = Viewport{Width: width, Height: height}
	}
}

// --- Event registration ---

type activatedHandler struct {
	id uint32
	fn func(Hotspot)
}

type exitedHandler struct {
	id uint32
	fn func()
}

type handlerRegistry struct {
	activated []activatedHandler
	exited    []exitedHandler
	nextID    uint32
}

// CallbackHandle allows removing a registered engine callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventHotspotActivated:
		h.reg.activated = removeActivatedHandler(h.reg.activated, h.id)
	case EventHotspotExited:
		h.reg.exited = removeExitedHandler(h.reg.exited, h.id)
	}
}

func removeActivatedHandler(s []activatedHandler, id uint32) []activatedHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = activatedHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeExitedHandler(s []exitedHandler, id uint32) []exitedHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = exitedHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// OnHotspotActivated registers a callback fired when a focus transition
// completes and the camera locks onto a hotspot.
func (e *Engine) OnHotspotActivated(fn func(Hotspot)) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.activated = append(e.handlers.activated, activatedHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, event: EventHotspotActivated}
}

// OnHotspotExited registers a callback fired when the camera returns to
// free orbit after a focus lock.
func (e *Engine) OnHotspotExited(fn func()) CallbackHandle {
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.exited = append(e.handlers.exited, exitedHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, event: EventHotspotExited}
}

func (e *Engine) fireActivated(h Hotspot) {
	for _, handler := range e.handlers.activated {
		handler.fn(h)
	}
}

func (e *Engine) fireExited() {
	for _, handler := range e.handlers.exited {
		handler.fn()
	}
}
