package terra

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Hotspot is a geographically anchored point of interest. The record is
// immutable; the engine never interprets Payload, it is carried through to
// activation callbacks for the presentation layer.
type Hotspot struct {
	ID    string
	Title string
	Geo   GeoPosition
	// Payload is the opaque content record (description, media refs,
	// metadata) keyed by the hotspot id.
	Payload any
}

// HotspotRuntime is the per-frame derived state for one hotspot. Recomputed
// every frame while not focus-locked; replaced wholesale when the catalog
// is reset.
type HotspotRuntime struct {
	Hotspot Hotspot
	// Surface is the marker's world position: the geo coordinate at the
	// globe radius plus the marker elevation.
	Surface mgl64.Vec3
	// Visible is false when the marker is off-frustum, outside the
	// normalized device bounds, or occluded by the globe.
	Visible bool
	// Placement is the current label layout; only meaningful while Visible.
	Placement LabelPlacement
}

// Catalog owns the validated hotspot set and its derived runtime records.
type Catalog struct {
	runtimes []HotspotRuntime
	byID     map[string]*HotspotRuntime
}

// NewCatalog validates every hotspot and precomputes surface positions at
// the given marker radius. Duplicate ids and out-of-range coordinates are
// rejected so they never enter the runtime set.
func NewCatalog(hotspots []Hotspot, markerRadius float64) (*Catalog, error) {
	c := &Catalog{
		runtimes: make([]HotspotRuntime, 0, len(hotspots)),
		byID:     make(map[string]*HotspotRuntime, len(hotspots)),
	}
	for _, h := range hotspots {
		if h.ID == "" {
			return nil, fmt.Errorf("catalog: hotspot %q has empty id", h.Title)
		}
		if _, dup := c.byID[h.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate hotspot id %q", h.ID)
		}
		if err := h.Geo.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: hotspot %q: %w", h.ID, err)
		}
		c.runtimes = append(c.runtimes, HotspotRuntime{
			Hotspot: h,
			Surface: GeoToSurface(h.Geo, markerRadius),
		})
	}
	for i := range c.runtimes {
		c.byID[c.runtimes[i].Hotspot.ID] = &c.runtimes[i]
	}
	return c, nil
}

// Get returns the runtime record for the given id, or nil.
func (c *Catalog) Get(id string) *HotspotRuntime {
	if c == nil {
		return nil
	}
	return c.byID[id]
}

// Runtimes returns the runtime records in load order. The returned slice
// MUST NOT be mutated by callers; the engine owns it.
func (c *Catalog) Runtimes() []HotspotRuntime {
	if c == nil {
		return nil
	}
	return c.runtimes
}

// Len returns the number of hotspots in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.runtimes)
}
