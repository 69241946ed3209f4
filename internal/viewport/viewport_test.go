package viewport

import (
	"testing"
	"time"

	"github.com/rackwise/rackwise/internal/scene"
)

const (
	rackAID = "7b0d8c3e-5f2a-4b1c-9e6d-0a1b2c3d4e5f"
	rackBID = "0f0e0d0c-0b0a-4908-8706-050403020100"
)

func testConfig() scene.RackConfig {
	cfg := scene.DefaultConfig()
	cfg.ShowDecks = false
	cfg.ShowPallets = false
	return cfg
}

func twoRackSession() *Session {
	s := NewSession()
	s.SetRacks([]scene.Rack{
		{ID: rackAID, Name: "A", Config: testConfig()},
		{ID: rackBID, Name: "B", PosX: 12, Config: testConfig()},
	})
	return s
}

func TestSelectFocusesOwningRack(t *testing.T) {
	s := twoRackSession()
	beamID := scene.ComponentID(rackBID, scene.KindBeam, 0, 1, scene.SideFront)

	s.Select(beamID)

	snap := s.Snapshot()
	if snap.SelectedID != beamID {
		t.Fatalf("SelectedID: got %s, want %s", snap.SelectedID, beamID)
	}
	if snap.Camera.Target.X != 12 {
		t.Errorf("Camera should have refocused on rack B, target=%+v", snap.Camera.Target)
	}
}

func TestSelectWithinSameRackKeepsCamera(t *testing.T) {
	s := twoRackSession()
	first := scene.ComponentID(rackAID, scene.KindBeam, 0, 1, scene.SideFront)
	second := scene.ComponentID(rackAID, scene.KindUpright, 0, scene.SideFront)

	s.Select(first)
	before := s.Snapshot().Camera.Target

	s.Select(second)
	after := s.Snapshot().Camera.Target

	if before != after {
		t.Errorf("Camera target moved on same-rack reselection: %+v -> %+v", before, after)
	}
	if s.Snapshot().SelectedID != second {
		t.Error("Selection did not advance to the second component")
	}
}

func TestSelectionMaterialInSnapshot(t *testing.T) {
	s := twoRackSession()
	beamID := scene.ComponentID(rackAID, scene.KindBeam, 0, 1, scene.SideFront)
	s.Select(beamID)

	var found bool
	for _, obj := range s.Snapshot().Objects {
		if obj.ID == beamID {
			found = true
			if !obj.Material.Pulse {
				t.Error("Selected component should carry the pulsing highlight")
			}
		}
	}
	if !found {
		t.Fatalf("Snapshot missing %s", beamID)
	}
}

func TestClickRequiresGesture(t *testing.T) {
	// A click with no preceding PointerDown is swallowed by the tracker
	// and must not disturb the selection.
	s := twoRackSession()
	beamID := scene.ComponentID(rackAID, scene.KindBeam, 0, 1, scene.SideFront)
	s.Select(beamID)

	id, ok := s.Click(400, 300, 800, 600)
	if !ok || id != beamID {
		t.Errorf("Trackerless click should report the standing selection, got %s/%v", id, ok)
	}
}

func TestClickMissKeepsSelection(t *testing.T) {
	s := twoRackSession()
	beamID := scene.ComponentID(rackAID, scene.KindBeam, 0, 1, scene.SideFront)
	s.Select(beamID)

	// Aim at the sky: the top edge of the viewport from the default pose.
	s.PointerDown(400, 0)
	id, ok := s.Click(400, 0, 800, 600)
	if !ok || id != beamID {
		t.Errorf("Miss should keep the selection, got %s/%v", id, ok)
	}
}

func TestHoverSuppressedWhileDragging(t *testing.T) {
	s := twoRackSession()
	s.PointerDown(100, 100)
	if _, ok := s.Hover(200, 200, 800, 600); ok {
		t.Error("Hover must be suppressed once the pointer travels past the drag threshold")
	}
}

func TestRemoveRackClearsItsSelection(t *testing.T) {
	s := twoRackSession()
	beamID := scene.ComponentID(rackBID, scene.KindBeam, 0, 1, scene.SideFront)
	s.Select(beamID)

	s.RemoveRack(rackBID)

	snap := s.Snapshot()
	if snap.SelectedID != "" {
		t.Errorf("Selection into the removed rack should clear, got %s", snap.SelectedID)
	}
	for _, obj := range snap.Objects {
		if obj.RackID == rackBID {
			t.Fatal("Removed rack still present in the snapshot")
		}
	}
}

func TestRemoveOtherRackKeepsSelection(t *testing.T) {
	s := twoRackSession()
	beamID := scene.ComponentID(rackAID, scene.KindBeam, 0, 1, scene.SideFront)
	s.Select(beamID)

	s.RemoveRack(rackBID)

	if got := s.Snapshot().SelectedID; got != beamID {
		t.Errorf("Selection in the surviving rack should persist, got %s", got)
	}
}

func TestSetViewModeRejectsUnknown(t *testing.T) {
	s := twoRackSession()
	s.SetViewMode("xray")
	if got := s.Snapshot().ViewMode; got != scene.ViewNormal {
		t.Errorf("Unknown view mode should fall back to normal, got %s", got)
	}
}

func TestSetMaintenanceRecolors(t *testing.T) {
	s := twoRackSession()
	uprightID := scene.ComponentID(rackAID, scene.KindUpright, 0, scene.SideFront)

	s.SetViewMode(scene.ViewHealth)
	s.SetMaintenance(nil, map[string]scene.HealthStatus{uprightID: scene.HealthCritical})

	for _, obj := range s.Snapshot().Objects {
		if obj.ID == uprightID {
			if obj.Material.Color != "#ef4444" {
				t.Errorf("Critical upright color: got %s", obj.Material.Color)
			}
			return
		}
	}
	t.Fatalf("Snapshot missing %s", uprightID)
}

func TestHeatmapModeColorsEverything(t *testing.T) {
	s := twoRackSession()
	beamID := scene.ComponentID(rackAID, scene.KindBeam, 0, 1, scene.SideFront)

	s.SetMaintenance(map[string][]scene.RecordInfo{
		beamID: {{
			Type:      scene.RecordInspection,
			Status:    scene.StatusCompleted,
			Timestamp: time.Now().Add(-2 * 24 * time.Hour),
		}},
	}, nil)
	s.SetViewMode(scene.ViewHeatmap)

	var fresh, never string
	for _, obj := range s.Snapshot().Objects {
		switch obj.ID {
		case beamID:
			fresh = obj.Material.Color
		case scene.ComponentID(rackAID, scene.KindUpright, 0, scene.SideFront):
			never = obj.Material.Color
		}
	}
	if fresh != "#22c55e" {
		t.Errorf("Recently inspected beam should be green, got %s", fresh)
	}
	if never != "#ef4444" {
		t.Errorf("Never inspected upright should be red, got %s", never)
	}
}

func TestUpdateRackAddsWhenNew(t *testing.T) {
	s := twoRackSession()
	third := scene.Rack{ID: "9a8b7c6d-5e4f-4a3b-8c1d-2e3f4a5b6c7d", Name: "C", PosX: -12, Config: testConfig()}

	s.UpdateRack(third)

	var seen bool
	for _, obj := range s.Snapshot().Objects {
		if obj.RackID == third.ID {
			seen = true
			break
		}
	}
	if !seen {
		t.Error("UpdateRack on an unknown id should add the rack to the scene")
	}
}

func TestFocusRack(t *testing.T) {
	s := twoRackSession()
	if !s.FocusRack(rackBID) {
		t.Fatal("FocusRack failed for a present rack")
	}
	if got := s.Snapshot().Camera.Target.X; got != 12 {
		t.Errorf("Camera target X: got %v, want 12", got)
	}
	if s.FocusRack("missing") {
		t.Error("FocusRack should fail for an unknown rack")
	}
}

func TestManagerSessionPerUser(t *testing.T) {
	m := NewManager()
	a := m.Get("user-a")
	if a == nil {
		t.Fatal("Manager returned nil session")
	}
	if m.Get("user-a") != a {
		t.Error("Same user should get the same session")
	}
	if m.Get("user-b") == a {
		t.Error("Different users must not share a session")
	}
}
