package scene

import "math"

// Vec3 is a point or direction in world space (meters). Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector; the zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// RotateY rotates v about the vertical axis by angle radians.
func (v Vec3) RotateY(angle float64) Vec3 {
	s, c := math.Sin(angle), math.Cos(angle)
	return Vec3{v.X*c + v.Z*s, v.Y, -v.X*s + v.Z*c}
}

// RotateX rotates v about the X axis by angle radians.
func (v Vec3) RotateX(angle float64) Vec3 {
	s, c := math.Sin(angle), math.Cos(angle)
	return Vec3{v.X, v.Y*c - v.Z*s, v.Y*s + v.Z*c}
}

// Transform places a box in world space: translate after rotating,
// rotation about X applied before rotation about Y.
type Transform struct {
	Position Vec3    `json:"position"`
	RotX     float64 `json:"rotX,omitempty"`
	RotY     float64 `json:"rotY,omitempty"`
}

// Apply maps a local-space point to world space.
func (t Transform) Apply(p Vec3) Vec3 {
	return p.RotateX(t.RotX).RotateY(t.RotY).Add(t.Position)
}

// Compose returns the transform equivalent to applying t after parent.
// Used to lift rack-local component transforms into world space; the
// child's X tilt survives because the parent only rotates about Y.
func (parent Transform) Compose(t Transform) Transform {
	return Transform{
		Position: parent.Apply(t.Position),
		RotX:     t.RotX,
		RotY:     parent.RotY + t.RotY,
	}
}

// ToLocal maps a world-space point into the transform's local frame.
func (t Transform) ToLocal(p Vec3) Vec3 {
	return p.Sub(t.Position).RotateY(-t.RotY).RotateX(-t.RotX)
}

// ToLocalDir maps a world-space direction into the local frame.
func (t Transform) ToLocalDir(d Vec3) Vec3 {
	return d.RotateY(-t.RotY).RotateX(-t.RotX)
}

// Ray is a half-line in world space with a unit direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter distance dist along the ray.
func (r Ray) At(dist float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(dist))
}

// IntersectBox performs a slab test against an origin-centered box of the
// given dimensions, after moving the ray into the box's local frame.
// Returns the smallest non-negative ray parameter and whether it hit.
func (r Ray) IntersectBox(t Transform, size Vec3) (float64, bool) {
	origin := t.ToLocal(r.Origin)
	dir := t.ToLocalDir(r.Dir)

	half := size.Scale(0.5)
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	h := [3]float64{half.X, half.Y, half.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < -h[i] || o[i] > h[i] {
				return 0, false
			}
			continue
		}
		t1 := (-h[i] - o[i]) / d[i]
		t2 := (h[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		// Origin inside the box.
		return tMax, true
	}
	return tMin, true
}

// Bounds is a world-space axis-aligned bounding box, exposed to export
// code that needs per-component extents.
type Bounds struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxBounds computes the world AABB of a transformed box by mapping its
// eight corners.
func BoxBounds(t Transform, size Vec3) Bounds {
	half := size.Scale(0.5)
	b := Bounds{
		Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				p := t.Apply(Vec3{half.X * sx, half.Y * sy, half.Z * sz})
				b.Min.X = math.Min(b.Min.X, p.X)
				b.Min.Y = math.Min(b.Min.Y, p.Y)
				b.Min.Z = math.Min(b.Min.Z, p.Z)
				b.Max.X = math.Max(b.Max.X, p.X)
				b.Max.Y = math.Max(b.Max.Y, p.Y)
				b.Max.Z = math.Max(b.Max.Z, p.Z)
			}
		}
	}
	return b
}
