package terra

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollUnit is the magnitude divisor: 100 scroll units count as one full
// input tick.
const scrollUnit = 100

// magnitudeCap bounds the per-application magnitude factor so a single
// aggressive scroll cannot cause runaway acceleration.
const magnitudeCap = 2

// ScrollMapper translates a stream of raw scroll deltas into smoothed,
// clamped orbital speed adjustments. Deltas arriving within the debounce
// window are coalesced into one adjustment; after a quiet period the speed
// eases back to the baseline, so the orbit is self-stabilizing.
//
// Positive deltas (scroll down) accelerate, negative deltas decelerate.
type ScrollMapper struct {
	debounce  float64 // seconds
	quiet     float64 // seconds
	returnDur float32 // seconds
	accel     float64
	decel     float64

	pending    float64
	hasPending bool
	sinceLast  float64
	quietTime  float64

	returnTween *gween.Tween
}

// NewScrollMapper creates a mapper with the config's speed factors and
// debounce/decay windows.
func NewScrollMapper(cfg Config) *ScrollMapper {
	return &ScrollMapper{
		debounce:  cfg.ScrollDebounce.Seconds(),
		quiet:     cfg.ScrollQuietTimeout.Seconds(),
		returnDur: float32(cfg.SpeedReturnDuration.Seconds()),
		accel:     cfg.AccelerationFactor,
		decel:     cfg.DecelerationFactor,
	}
}

// AddScroll records a signed scroll delta. The delta is accumulated with
// any others arriving inside the debounce window and applied on a later
// Update. Any in-flight return-to-baseline ease is cancelled.
func (m *ScrollMapper) AddScroll(delta float64) {
	m.pending += delta
	m.hasPending = true
	m.sinceLast = 0
	m.quietTime = 0
	m.returnTween = nil
}

// Update advances the mapper by dt seconds and applies any due speed
// adjustment to the orbit. Called once per frame, before the orbit advances.
func (m *ScrollMapper) Update(dt float64, orbit *Orbit) {
	if m.hasPending {
		m.sinceLast += dt
		if m.sinceLast >= m.debounce {
			m.apply(m.pending, orbit)
			m.pending = 0
			m.hasPending = false
		}
		return
	}

	m.quietTime += dt
	if m.returnTween == nil && m.quietTime >= m.quiet && orbit.CurrentSpeed != orbit.BaseSpeed {
		m.returnTween = gween.New(float32(orbit.CurrentSpeed), float32(orbit.BaseSpeed), m.returnDur, ease.OutQuad)
	}
	if m.returnTween != nil {
		val, done := m.returnTween.Update(float32(dt))
		orbit.SetSpeed(float64(val))
		if done {
			// Snap to the exact baseline; the float32 tween endpoint can be
			// off by a rounding error.
			orbit.CurrentSpeed = orbit.BaseSpeed
			m.returnTween = nil
		}
	}
}

// apply converts an accumulated delta into a multiplicative speed change.
func (m *ScrollMapper) apply(accumulated float64, orbit *Orbit) {
	if accumulated == 0 {
		return
	}
	n := math.Min(math.Abs(accumulated)/scrollUnit, magnitudeCap)
	if accumulated > 0 {
		orbit.SetSpeed(orbit.CurrentSpeed * math.Pow(m.accel, n))
	} else {
		orbit.SetSpeed(orbit.CurrentSpeed * math.Pow(m.decel, n))
	}
}
