package scene

import "math"

// Pick casts the ray against the registry's addressable representatives
// and returns the componentId of the nearest hit. Indicator markers
// resolve to their parent component. Decorative geometry (wire strands,
// load boxes) never enters the registry and so never participates. A
// miss returns ok=false, which callers treat as the normal deselect
// outcome, not an error.
func (s *Scene) Pick(ray Ray) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bestDist := math.Inf(1)
	var best *Object

	for _, obj := range s.registry {
		dist, hit := ray.IntersectBox(obj.World, obj.Mesh.Size)
		if hit && dist < bestDist {
			bestDist = dist
			best = obj
		}
	}

	if best == nil {
		return "", false
	}
	if best.ParentID != "" {
		return best.ParentID, true
	}
	return best.ID, true
}

// PickPointer converts viewport pixel coordinates to a camera ray and
// picks against the scene.
func (s *Scene) PickPointer(cam *Camera, px, py, width, height float64) (string, bool) {
	if width <= 0 || height <= 0 {
		return "", false
	}
	ndcX := 2*px/width - 1
	ndcY := 1 - 2*py/height
	return s.Pick(cam.Ray(ndcX, ndcY, width/height))
}

// dragThreshold is the pointer travel (pixels) beyond which a press is
// classified as a camera orbit rather than a selection attempt.
const dragThreshold = 5.0

// PointerTracker disambiguates clicks from orbit drags. Hover ray-casts
// are suppressed while a drag is active.
type PointerTracker struct {
	down     bool
	dragging bool
	downX    float64
	downY    float64
}

// Down records a press at the given position.
func (p *PointerTracker) Down(x, y float64) {
	p.down = true
	p.dragging = false
	p.downX, p.downY = x, y
}

// Move updates the drag classification and reports whether hover
// processing should run for this move.
func (p *PointerTracker) Move(x, y float64) bool {
	if p.down && !p.dragging {
		if math.Hypot(x-p.downX, y-p.downY) > dragThreshold {
			p.dragging = true
		}
	}
	return !p.dragging
}

// Up ends the gesture and reports whether it was a click (eligible for
// selection) rather than a drag.
func (p *PointerTracker) Up() bool {
	wasClick := p.down && !p.dragging
	p.down = false
	p.dragging = false
	return wasClick
}

// Dragging reports whether an orbit drag is in progress.
func (p *PointerTracker) Dragging() bool { return p.dragging }
