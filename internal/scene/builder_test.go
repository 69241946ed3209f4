package scene

import (
	"testing"
	"time"
)

func testRack(id string, cfg RackConfig) Rack {
	return Rack{ID: id, Name: "Test Rack", Config: cfg}
}

func plainConfig() RackConfig {
	cfg := DefaultConfig()
	cfg.ShowDecks = false
	cfg.ShowPallets = false
	return cfg
}

func TestBuildRackRegistersComponents(t *testing.T) {
	s := NewScene()
	st := &State{ViewMode: ViewNormal}
	s.BuildRack(testRack(testRackID, plainConfig()), st)

	beamID := ComponentID(testRackID, KindBeam, 0, 1, SideFront)
	obj, ok := s.Lookup(beamID)
	if !ok {
		t.Fatalf("Registry missing %s", beamID)
	}
	if obj.Kind != KindBeam || !obj.Addressable {
		t.Errorf("Unexpected registry entry: kind=%s addressable=%v", obj.Kind, obj.Addressable)
	}
}

func TestRebuildStability(t *testing.T) {
	// A no-op rebuild with an unchanged config must register exactly the
	// same componentId set.
	s := NewScene()
	st := &State{ViewMode: ViewNormal}
	rack := testRack(testRackID, plainConfig())

	s.BuildRack(rack, st)
	before := s.ComponentIDs()

	s.BuildRack(rack, st)
	after := s.ComponentIDs()

	if len(before) != len(after) {
		t.Fatalf("Registry size changed on no-op rebuild: %d vs %d", len(before), len(after))
	}
	set := map[string]bool{}
	for _, id := range before {
		set[id] = true
	}
	for _, id := range after {
		if !set[id] {
			t.Errorf("New id %s appeared on no-op rebuild", id)
		}
	}
}

func TestRebuildDisposesResources(t *testing.T) {
	s := NewScene()
	st := &State{ViewMode: ViewNormal}
	rack := testRack(testRackID, plainConfig())

	s.BuildRack(rack, st)
	var old []*Object
	for _, obj := range s.subtrees[testRackID].objects {
		old = append(old, obj)
	}

	s.BuildRack(rack, st)

	for _, obj := range old {
		if !obj.Mesh.Disposed() {
			t.Fatalf("Mesh of %s not disposed on rebuild", obj.ID)
		}
		if !obj.Material.Disposed() {
			t.Fatalf("Material of %s not disposed on rebuild", obj.ID)
		}
	}

	// Replacements must be live.
	for _, obj := range s.subtrees[testRackID].objects {
		if obj.Mesh.Disposed() {
			t.Fatalf("Fresh mesh of %s already disposed", obj.ID)
		}
	}
}

func TestDoubleDisposePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on double dispose")
		}
	}()
	m := &Mesh{}
	m.Dispose()
	m.Dispose()
}

func TestPartialRebuildLeavesOtherRacksAlone(t *testing.T) {
	s := NewScene()
	st := &State{ViewMode: ViewNormal}
	rackA := testRack(testRackID, plainConfig())
	rackB := Rack{ID: "0f0e0d0c-0b0a-4908-8706-050403020100", Name: "B", PosX: 10, Config: plainConfig()}

	s.Rebuild([]Rack{rackA, rackB}, st)

	var bObjects []*Object
	bObjects = append(bObjects, s.subtrees[rackB.ID].objects...)

	// Rebuilding A must not touch B's objects or resources.
	s.BuildRack(rackA, st)

	for i, obj := range s.subtrees[rackB.ID].objects {
		if obj != bObjects[i] {
			t.Fatal("Rack B's object identity changed on rack A rebuild")
		}
		if obj.Mesh.Disposed() {
			t.Fatal("Rack B's resources were disposed on rack A rebuild")
		}
	}
}

func TestRemoveRackClearsRegistry(t *testing.T) {
	s := NewScene()
	st := &State{ViewMode: ViewNormal}
	s.BuildRack(testRack(testRackID, plainConfig()), st)

	s.RemoveRack(testRackID)

	if ids := s.ComponentIDs(); len(ids) != 0 {
		t.Errorf("Registry should be empty after RemoveRack, has %d entries", len(ids))
	}
}

func TestMarkerCreatedForRecordedComponent(t *testing.T) {
	beamID := ComponentID(testRackID, KindBeam, 0, 1, SideFront)
	st := &State{
		ViewMode: ViewNormal,
		Records: map[string][]RecordInfo{
			beamID: {{Type: RecordRepair, Status: StatusPending, Timestamp: time.Now()}},
		},
	}

	s := NewScene()
	s.BuildRack(testRack(testRackID, plainConfig()), st)

	marker, ok := s.Lookup(MarkerID(beamID))
	if !ok {
		t.Fatal("Expected an indicator marker for the recorded beam")
	}
	if marker.ParentID != beamID {
		t.Errorf("Marker parent: got %s, want %s", marker.ParentID, beamID)
	}

	beam, _ := s.Lookup(beamID)
	beamTop := BoxBounds(beam.World, beam.Mesh.Size).Max.Y
	if marker.World.Position.Y <= beamTop {
		t.Error("Marker should float above its component")
	}
}

func TestFocusTarget(t *testing.T) {
	cfg := plainConfig()
	rack := Rack{ID: testRackID, PosX: 4, PosZ: -2, Config: cfg}

	s := NewScene()
	s.BuildRack(rack, &State{ViewMode: ViewNormal})

	target, ok := s.FocusTarget(testRackID)
	if !ok {
		t.Fatal("FocusTarget failed for a built rack")
	}
	if target.X != 4 || target.Z != -2 {
		t.Errorf("Target should sit at the rack footprint center, got %+v", target)
	}
	if target.Y != cfg.Height()/2 {
		t.Errorf("Target height: got %v, want %v", target.Y, cfg.Height()/2)
	}

	if _, ok := s.FocusTarget("missing"); ok {
		t.Error("FocusTarget should fail for an unknown rack")
	}
}

func TestEndToEndDefaultRack(t *testing.T) {
	// A 3-bay, 4-level rack yields 8 uprights, 24 beams, 12 braces; a
	// pending record on beam 0/1/front renders the record tint in normal
	// mode because the beam is not selected.
	cfg := plainConfig()
	beamID := ComponentID(testRackID, KindBeam, 0, 1, SideFront)
	st := &State{
		ViewMode: ViewNormal,
		Records: map[string][]RecordInfo{
			beamID: {{Type: RecordInspection, Status: StatusPending, Timestamp: time.Now()}},
		},
	}

	s := NewScene()
	s.BuildRack(testRack(testRackID, cfg), st)

	counts := map[Kind]int{}
	for _, obj := range s.subtrees[testRackID].objects {
		counts[obj.Kind]++
	}
	if counts[KindUpright] != 8 {
		t.Errorf("Uprights: got %d, want 8", counts[KindUpright])
	}
	if counts[KindBeam] != 24 {
		t.Errorf("Beams: got %d, want 24", counts[KindBeam])
	}
	if counts[KindBrace] != 12 {
		t.Errorf("Braces: got %d, want 12", counts[KindBrace])
	}

	beam, ok := s.Lookup(beamID)
	if !ok {
		t.Fatalf("Beam %s not registered", beamID)
	}
	if beam.Material.Emissive != colorRecordTint {
		t.Errorf("Recorded beam should carry the record tint, got %q", beam.Material.Emissive)
	}
	if beam.Material.Pulse {
		t.Error("Unselected beam must not carry the selection pulse")
	}
}
