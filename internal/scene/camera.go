package scene

import "math"

// Camera clamp ranges. Elevation stays off the pole and the floor plane;
// distance keeps the rig inside a useful envelope.
const (
	phiMin      = 0.1
	phiMax      = math.Pi/2 - 0.1
	distanceMin = 5.0
	distanceMax = 50.0
)

// Camera is a spherical-coordinate orbit rig. Theta is azimuth about the
// vertical axis, Phi elevation above the ground plane. The target moves
// only when the selected rack changes, never on config edits.
type Camera struct {
	Theta    float64 `json:"theta"`
	Phi      float64 `json:"phi"`
	Distance float64 `json:"distance"`
	Target   Vec3    `json:"target"`
	// FOV is the vertical field of view in radians.
	FOV float64 `json:"fov"`
}

// NewCamera returns the rig in the default isometric-ish pose.
func NewCamera() *Camera {
	return &Camera{
		Theta:    math.Pi / 4,
		Phi:      0.6,
		Distance: 18,
		FOV:      math.Pi / 3,
	}
}

// clamp enforces the elevation and distance envelopes.
func (c *Camera) clamp() {
	c.Phi = math.Max(phiMin, math.Min(phiMax, c.Phi))
	c.Distance = math.Max(distanceMin, math.Min(distanceMax, c.Distance))
}

// Orbit applies azimuth/elevation deltas.
func (c *Camera) Orbit(dTheta, dPhi float64) {
	c.Theta += dTheta
	c.Phi += dPhi
	c.clamp()
}

// Zoom applies a distance delta.
func (c *Camera) Zoom(delta float64) {
	c.Distance += delta
	c.clamp()
}

// Focus retargets the rig. Called on rack-selection change only.
func (c *Camera) Focus(target Vec3) {
	c.Target = target
}

// Position computes the eye point from the spherical state.
func (c *Camera) Position() Vec3 {
	cosPhi := math.Cos(c.Phi)
	return c.Target.Add(Vec3{
		c.Distance * math.Sin(c.Theta) * cosPhi,
		c.Distance * math.Sin(c.Phi),
		c.Distance * math.Cos(c.Theta) * cosPhi,
	})
}

// Ray builds the world-space ray through a normalized device coordinate
// point for the given viewport aspect ratio.
func (c *Camera) Ray(ndcX, ndcY, aspect float64) Ray {
	pos := c.Position()
	forward := c.Target.Sub(pos).Normalize()
	right := forward.Cross(Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward)

	tanHalf := math.Tan(c.FOV / 2)
	dir := forward.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf)).
		Normalize()
	return Ray{Origin: pos, Dir: dir}
}

// Presets set (theta, phi, distance) atomically; the target is untouched.
var presets = map[string][3]float64{
	"front": {0, 0.25, 15},
	"side":  {math.Pi / 2, 0.25, 15},
	"top":   {0, phiMax, 20},
	"iso":   {math.Pi / 4, 0.6, 18},
	"back":  {math.Pi, 0.25, 15},
}

// ApplyPreset moves the rig to a named view. Unknown names are ignored
// and reported.
func (c *Camera) ApplyPreset(name string) bool {
	p, ok := presets[name]
	if !ok {
		return false
	}
	c.Theta, c.Phi, c.Distance = p[0], p[1], p[2]
	c.clamp()
	return true
}

// PulseFactor is the per-frame emissive multiplier for pulsing materials
// (selection highlight, markers), keyed off elapsed wall-clock seconds.
// Pure function of time; the render tick never mutates the data model.
func PulseFactor(elapsed float64) float64 {
	return 0.6 + 0.4*math.Sin(elapsed*4)
}

// MarkerBounce is the vertical offset applied to indicator markers each
// frame.
func MarkerBounce(elapsed float64) float64 {
	return 0.08 * math.Abs(math.Sin(elapsed*3))
}
