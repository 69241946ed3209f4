package scene

import (
	"math"
	"testing"
)

func TestCameraOrbitClamps(t *testing.T) {
	cam := NewCamera()

	cam.Orbit(0, 10)
	if cam.Phi != math.Pi/2-0.1 {
		t.Errorf("Phi not clamped at the pole: %v", cam.Phi)
	}
	cam.Orbit(0, -10)
	if cam.Phi != 0.1 {
		t.Errorf("Phi not clamped at the floor: %v", cam.Phi)
	}

	// Azimuth is unbounded.
	cam.Orbit(7*math.Pi, 0)
	if cam.Theta <= 2*math.Pi {
		t.Errorf("Theta should wind freely, got %v", cam.Theta)
	}
}

func TestCameraZoomClamps(t *testing.T) {
	cam := NewCamera()

	cam.Zoom(-100)
	if cam.Distance != 5 {
		t.Errorf("Distance floor: got %v, want 5", cam.Distance)
	}
	cam.Zoom(1000)
	if cam.Distance != 50 {
		t.Errorf("Distance ceiling: got %v, want 50", cam.Distance)
	}
}

func TestCameraPresets(t *testing.T) {
	cam := NewCamera()
	cam.Focus(Vec3{3, 1, -2})

	if !cam.ApplyPreset("front") {
		t.Fatal("front preset should exist")
	}
	if cam.Theta != 0 || cam.Phi != 0.25 || cam.Distance != 15 {
		t.Errorf("front preset pose wrong: theta=%v phi=%v dist=%v", cam.Theta, cam.Phi, cam.Distance)
	}
	if cam.Target != (Vec3{3, 1, -2}) {
		t.Error("Presets must not move the target")
	}

	if cam.ApplyPreset("worm") {
		t.Error("Unknown preset name should be rejected")
	}
}

func TestCameraPosition(t *testing.T) {
	cam := &Camera{Theta: 0, Phi: 0, Distance: 10, Target: Vec3{1, 2, 3}, FOV: math.Pi / 3}

	pos := cam.Position()
	want := Vec3{1, 2, 13}
	if math.Abs(pos.X-want.X) > 1e-9 || math.Abs(pos.Y-want.Y) > 1e-9 || math.Abs(pos.Z-want.Z) > 1e-9 {
		t.Errorf("Position: got %+v, want %+v", pos, want)
	}
}

func TestCameraCenterRayHitsTarget(t *testing.T) {
	cam := NewCamera()
	cam.Focus(Vec3{2, 3, -1})

	ray := cam.Ray(0, 0, 16.0/9.0)
	toTarget := cam.Target.Sub(cam.Position()).Normalize()
	if ray.Dir.Sub(toTarget).Length() > 1e-9 {
		t.Errorf("Center ray should aim at the target: dir=%+v want=%+v", ray.Dir, toTarget)
	}
	if ray.Origin != cam.Position() {
		t.Error("Ray must originate at the eye point")
	}
}

func TestPulseFactorEnvelope(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := PulseFactor(float64(i) * 0.137)
		if v < 0.2-1e-9 || v > 1.0+1e-9 {
			t.Fatalf("PulseFactor out of envelope at step %d: %v", i, v)
		}
	}
}

func TestMarkerBounceNonNegative(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := MarkerBounce(float64(i) * 0.091)
		if v < 0 || v > 0.08+1e-9 {
			t.Fatalf("MarkerBounce out of envelope at step %d: %v", i, v)
		}
	}
}
