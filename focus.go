package terra

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// cameraAnim holds the active camera-flight tweens: position X/Y/Z plus
// field of view. Each frame reads the current interpolated values, so the
// engine is always safe to render mid-transition.
type cameraAnim struct {
	x, y, z, fov *gween.Tween
	pos          mgl64.Vec3
	curFOV       float64
}

// newCameraAnim creates a camera flight from one pose to another over
// duration seconds.
func newCameraAnim(from mgl64.Vec3, fromFOV float64, to mgl64.Vec3, toFOV float64, duration float32, fn ease.TweenFunc) *cameraAnim {
	return &cameraAnim{
		x:      gween.New(float32(from.X()), float32(to.X()), duration, fn),
		y:      gween.New(float32(from.Y()), float32(to.Y()), duration, fn),
		z:      gween.New(float32(from.Z()), float32(to.Z()), duration, fn),
		fov:    gween.New(float32(fromFOV), float32(toFOV), duration, fn),
		pos:    from,
		curFOV: fromFOV,
	}
}

// update advances the flight by dt seconds and returns the interpolated
// pose. done is true once every tween has finished.
func (a *cameraAnim) update(dt float32) (pos mgl64.Vec3, fov float64, done bool) {
	vx, doneX := a.x.Update(dt)
	vy, doneY := a.y.Update(dt)
	vz, doneZ := a.z.Update(dt)
	vf, doneF := a.fov.Update(dt)
	a.pos = mgl64.Vec3{float64(vx), float64(vy), float64(vz)}
	a.curFOV = float64(vf)
	return a.pos, a.curFOV, doneX && doneY && doneZ && doneF
}

// --- Mode state machine ---

// ActivateHotspot begins the focus transition toward the given hotspot.
// Legal only from free orbit: activation requests while transitioning or
// locked are silently ignored (rejected, not queued), as is an unknown id.
// The camera flies to a point on the outward normal through the hotspot's
// surface position, narrowing the field of view; on completion the mode
// becomes Locked and the activation callbacks fire.
func (e *Engine) ActivateHotspot(id string) {
	if e.mode != ModeOrbiting {
		return
	}
	rt := e.catalog.Get(id)
	if rt == nil {
		e.debugf("activate: unknown hotspot %q", id)
		return
	}

	normal := rt.Surface
	if normal.Len() < minDirectionLength {
		return
	}
	target := normal.Normalize().Mul(e.cfg.FocusDistance)

	e.preFocusSpeed = e.orbit.CurrentSpeed
	e.resetTween = nil
	e.exitScroll = 0
	e.activeID = id
	e.focusAnim = newCameraAnim(e.camPos, e.fov, target, e.cfg.FocusFOV,
		float32(e.cfg.FocusDuration.Seconds()), ease.InOutCubic)
	e.mode = ModeTransitioningToFocus
}

// ExitFocusMode begins the transition back to free orbit. Legal only from
// the locked state; calls in any other mode are silent no-ops. The field
// of view widens and the camera flies back onto the orbital ellipse at the
// preserved orbit angle, then after a short delay orbiting resumes with
// the pre-focus speed restored.
func (e *Engine) ExitFocusMode() {
	if e.mode != ModeLocked {
		return
	}
	e.exitScroll = 0
	target := e.orbit.ellipsePoint(e.orbit.Angle)
	e.exitAnim = newCameraAnim(e.camPos, e.fov, target, e.cfg.FOV,
		float32(e.cfg.ExitFOVDuration.Seconds()), ease.InOutCubic)
	e.mode = ModeTransitioningToOrbit
}

// Zoom applies one zoom step. The semantics are keyed off the current
// mode and mutually exclusive: while orbiting the orbital ellipse is
// rescaled; while locked the camera dollies along the view axis instead.
// Zoom during a transition is ignored.
func (e *Engine) Zoom(in bool) {
	switch e.mode {
	case ModeOrbiting:
		factor := e.cfg.ZoomOutStep
		if in {
			factor = e.cfg.ZoomInStep
		}
		e.resetTween = nil
		e.orbit.SetZoom(factor)
		e.camPos = e.orbit.Position
	case ModeLocked:
		step := e.cfg.DollyOutStep
		if in {
			step = e.cfg.DollyInStep
		}
		e.dolly(step)
	}
}

// dolly moves the locked camera along the view axis. The look target is
// the globe center, so scaling the position vector is an exact dolly.
func (e *Engine) dolly(step float64) {
	dist := e.camPos.Len()
	if dist < minDirectionLength {
		return
	}
	dir := e.camPos.Mul(1 / dist)
	dist = clamp(dist*step, e.cfg.MinDollyDistance, e.cfg.FocusDistance*2)
	e.camPos = dir.Mul(dist)
}

// Scroll feeds a raw scroll delta into the engine. While orbiting the
// delta adjusts the orbital speed through the scroll mapper; while locked,
// accumulated downward scroll past the configured threshold exits focus.
// Scroll during a transition is ignored.
func (e *Engine) Scroll(delta float64) {
	switch e.mode {
	case ModeOrbiting:
		e.mapper.AddScroll(delta)
	case ModeLocked:
		if delta > 0 {
			e.exitScroll += delta
			if e.exitScroll >= e.cfg.ExitScrollThreshold {
				e.ExitFocusMode()
			}
		} else {
			e.exitScroll = 0
		}
	}
}

// updateTransitions advances any in-flight focus or exit timeline by dt
// seconds. An in-flight transition is not cancellable; it always runs to
// completion before the mode changes again.
func (e *Engine) updateTransitions(dt float64) {
	switch e.mode {
	case ModeTransitioningToFocus:
		pos, fov, done := e.focusAnim.update(float32(dt))
		e.camPos, e.fov = pos, fov
		if done {
			e.focusAnim = nil
			e.mode = ModeLocked
			if rt := e.catalog.Get(e.activeID); rt != nil {
				e.fireActivated(rt.Hotspot)
			}
		}
	case ModeTransitioningToOrbit:
		if e.exitAnim != nil {
			pos, fov, done := e.exitAnim.update(float32(dt))
			e.camPos, e.fov = pos, fov
			if done {
				e.exitAnim = nil
				e.resumeTimer = e.cfg.ExitResumeDelay.Seconds()
			}
			return
		}
		e.resumeTimer -= dt
		if e.resumeTimer <= 0 {
			e.mode = ModeOrbiting
			e.orbit.SetSpeed(e.preFocusSpeed)
			e.activeID = ""
			e.fov = e.cfg.FOV
			e.fireExited()
		}
	}
}
