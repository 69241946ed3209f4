package scene

import "testing"

const testRackID = "7b0d8c3e-5f2a-4b1c-9e6d-0a1b2c3d4e5f"

func TestComponentIDStable(t *testing.T) {
	id1 := ComponentID(testRackID, KindBeam, 0, 1, SideFront)
	id2 := ComponentID(testRackID, KindBeam, 0, 1, SideFront)

	if id1 != id2 {
		t.Errorf("Component ID should be deterministic: %s != %s", id1, id2)
	}

	want := testRackID + "-beam-0-1-front"
	if id1 != want {
		t.Errorf("Unexpected ID shape: got %s, want %s", id1, want)
	}
}

func TestComponentIDInjective(t *testing.T) {
	// Every valid index tuple across kinds must map to a distinct string.
	seen := map[string]bool{}
	add := func(id string) {
		if seen[id] {
			t.Fatalf("ID collision: %s", id)
		}
		seen[id] = true
	}

	for b := 0; b <= 4; b++ {
		for _, side := range []Side{SideFront, SideBack} {
			add(ComponentID(testRackID, KindUpright, b, side))
		}
	}
	for b := 0; b < 4; b++ {
		for l := 0; l <= 3; l++ {
			for e := 0; e < 2; e++ {
				add(ComponentID(testRackID, KindConnector, b, l, e))
			}
			for _, side := range []Side{SideFront, SideBack} {
				add(ComponentID(testRackID, KindBeam, b, l, side))
			}
			for s := 0; s < 3; s++ {
				add(ComponentID(testRackID, KindCrossbar, b, l, s))
			}
			add(ComponentID(testRackID, KindBrace, b, l))
			add(ComponentID(testRackID, KindDeck, b, l))
			add(ComponentID(testRackID, KindPallet, b, l))
		}
	}

	t.Logf("Generated %d distinct IDs", len(seen))
}

func TestSplitComponentID(t *testing.T) {
	// UUID rack ids contain the delimiter; the kind token must still be
	// found because UUID groups are pure hex.
	id := ComponentID(testRackID, KindCrossbar, 2, 3, 1)

	rackID, kind, ok := SplitComponentID(id)
	if !ok {
		t.Fatalf("Failed to split %s", id)
	}
	if rackID != testRackID {
		t.Errorf("Rack ID mismatch: got %s, want %s", rackID, testRackID)
	}
	if kind != KindCrossbar {
		t.Errorf("Kind mismatch: got %s, want %s", kind, KindCrossbar)
	}
}

func TestSplitComponentIDMarker(t *testing.T) {
	parent := ComponentID(testRackID, KindBeam, 0, 1, SideFront)
	rackID, _, ok := SplitComponentID(MarkerID(parent))
	if !ok || rackID != testRackID {
		t.Errorf("Marker ID should resolve to owning rack, got %q ok=%v", rackID, ok)
	}
}

func TestSplitComponentIDInvalid(t *testing.T) {
	if _, _, ok := SplitComponentID("not-a-component"); ok {
		t.Error("Expected split to fail for a string with no kind token")
	}
}
