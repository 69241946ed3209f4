package scene

import (
	"fmt"
	"sync"
)

// Mesh is an allocated geometry resource. The host renderer mirrors these
// allocations, so every mesh created during a build pass must be disposed
// exactly once before its subtree is replaced.
type Mesh struct {
	Size     Vec3
	disposed bool
}

// Dispose releases the mesh. Disposing twice is a rebuild-sequencing bug,
// not a runtime condition, and panics.
func (m *Mesh) Dispose() {
	if m.disposed {
		panic("scene: mesh disposed twice")
	}
	m.disposed = true
}

// Disposed reports whether the mesh has been released.
func (m *Mesh) Disposed() bool { return m.disposed }

// RenderMaterial is an allocated material resource with the same
// lifecycle rules as Mesh.
type RenderMaterial struct {
	Material
	disposed bool
}

func (m *RenderMaterial) Dispose() {
	if m.disposed {
		panic("scene: material disposed twice")
	}
	m.disposed = true
}

func (m *RenderMaterial) Disposed() bool { return m.disposed }

// Object is one render object in the scene graph.
type Object struct {
	ID          string
	RackID      string
	Kind        Kind
	Meta        Metadata
	World       Transform
	Mesh        *Mesh
	Material    *RenderMaterial
	Addressable bool
	// ParentID is set on indicator markers; a pick on the marker resolves
	// to this component instead.
	ParentID string
}

// Rack is the scene-level description of one racking structure, supplied
// by the persistence layer already validated.
type Rack struct {
	ID       string
	Name     string
	PosX     float64
	PosZ     float64
	Rotation float64
	Config   RackConfig
}

// Placement is the rack's world transform.
func (r Rack) Placement() Transform {
	return Transform{Position: Vec3{r.PosX, 0, r.PosZ}, RotY: r.Rotation}
}

type rackSubtree struct {
	rack    Rack
	objects []*Object
}

// Scene owns every render object and the componentId registry. It is the
// sole mutator of both; picking and the camera rig are read-only
// consumers, serialized against rebuilds by the scene's lock.
type Scene struct {
	mu       sync.RWMutex
	subtrees map[string]*rackSubtree
	// registry maps componentId to its addressable representative and is
	// the only structure picking consults for resolution.
	registry map[string]*Object
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{
		subtrees: make(map[string]*rackSubtree),
		registry: make(map[string]*Object),
	}
}

// BuildRack atomically replaces one rack's subtree: all resources from
// the previous pass are disposed before replacements are registered.
// Other racks' objects and registry entries are untouched, so their
// visual identity survives partial updates.
func (s *Scene) BuildRack(rack Rack, st *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposeSubtreeLocked(rack.ID)
	s.buildSubtreeLocked(rack, st)
}

// Rebuild replaces the whole scene from the given rack list.
func (s *Scene) Rebuild(racks []Rack, st *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.subtrees {
		s.disposeSubtreeLocked(id)
	}
	for _, r := range racks {
		s.buildSubtreeLocked(r, st)
	}
}

// RemoveRack disposes and unregisters one rack's subtree.
func (s *Scene) RemoveRack(rackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposeSubtreeLocked(rackID)
}

func (s *Scene) disposeSubtreeLocked(rackID string) {
	sub, ok := s.subtrees[rackID]
	if !ok {
		return
	}
	for _, obj := range sub.objects {
		obj.Mesh.Dispose()
		obj.Material.Dispose()
		if s.registry[obj.ID] == obj {
			delete(s.registry, obj.ID)
		}
	}
	delete(s.subtrees, rackID)
}

func (s *Scene) buildSubtreeLocked(rack Rack, st *State) {
	cfg := rack.Config.Normalize()
	placement := rack.Placement()
	instances := Layout(rack.ID, cfg, PalletRand(rack.ID, cfg))

	sub := &rackSubtree{rack: rack}
	for _, inst := range instances {
		mat := ResolveMaterial(inst.ID, cfg.BaseColor(inst.Kind), st)
		obj := &Object{
			ID:          inst.ID,
			RackID:      rack.ID,
			Kind:        inst.Kind,
			Meta:        inst.Meta,
			World:       placement.Compose(inst.Local),
			Mesh:        &Mesh{Size: inst.Size},
			Material:    &RenderMaterial{Material: mat},
			Addressable: inst.Addressable,
			ParentID:    inst.ParentID,
		}
		sub.objects = append(sub.objects, obj)
		if inst.Addressable {
			if _, exists := s.registry[inst.ID]; !exists {
				s.registry[inst.ID] = obj
			}
		}
	}

	// Record indicator markers: a small floating cube above every
	// component of this rack that has at least one maintenance record.
	// Markers are addressable but resolve to their parent on pick.
	for _, obj := range sub.objects {
		if !obj.Addressable || s.registry[obj.ID] != obj {
			continue
		}
		if len(st.Records[obj.ID]) == 0 {
			continue
		}
		top := BoxBounds(obj.World, obj.Mesh.Size).Max.Y
		pos := obj.World.Position
		marker := &Object{
			ID:       MarkerID(obj.ID),
			RackID:   rack.ID,
			Kind:     KindMarker,
			Meta:     Metadata{Kind: KindMarker},
			World:    Transform{Position: Vec3{pos.X, top + 0.25, pos.Z}},
			Mesh:     &Mesh{Size: Vec3{0.15, 0.15, 0.15}},
			Material: &RenderMaterial{Material: Material{Color: colorRecordTint, Emissive: colorRecordTint, EmissiveIntensity: 0.6, Pulse: true}},
			// Addressable so clicks land, but resolved to the parent.
			Addressable: true,
			ParentID:    obj.ID,
		}
		sub.objects = append(sub.objects, marker)
		s.registry[marker.ID] = marker
	}

	s.subtrees[rack.ID] = sub
}

// Lookup returns the addressable representative for a componentId.
func (s *Scene) Lookup(componentID string) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.registry[componentID]
	return obj, ok
}

// ComponentIDs returns the set of registered componentIds, unordered.
func (s *Scene) ComponentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.registry))
	for id := range s.registry {
		ids = append(ids, id)
	}
	return ids
}

// ComponentBounds exposes a component's world-space bounding box to
// export collaborators.
func (s *Scene) ComponentBounds(componentID string) (Bounds, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.registry[componentID]
	if !ok {
		return Bounds{}, false
	}
	return BoxBounds(obj.World, obj.Mesh.Size), true
}

// FocusTarget returns the camera target for a rack: its footprint center
// at half its height. False when the rack is not in the scene.
func (s *Scene) FocusTarget(rackID string) (Vec3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subtrees[rackID]
	if !ok {
		return Vec3{}, false
	}
	cfg := sub.rack.Config.Normalize()
	return Vec3{sub.rack.PosX, cfg.Height() / 2, sub.rack.PosZ}, true
}

// each visits every object under the read lock. Callers must not retain
// the objects past the callback.
func (s *Scene) each(fn func(*Object)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subtrees {
		for _, obj := range sub.objects {
			fn(obj)
		}
	}
}

// SnapshotObject is the wire form of one render object, consumed by the
// browser renderer.
type SnapshotObject struct {
	ID          string    `json:"id"`
	RackID      string    `json:"rackId"`
	Kind        Kind      `json:"kind"`
	Transform   Transform `json:"transform"`
	Size        Vec3      `json:"size"`
	Material    Material  `json:"material"`
	Addressable bool      `json:"addressable"`
	ParentID    string    `json:"parentId,omitempty"`
}

// Snapshot serializes the current scene graph.
func (s *Scene) Snapshot() []SnapshotObject {
	out := make([]SnapshotObject, 0, 256)
	s.each(func(obj *Object) {
		out = append(out, SnapshotObject{
			ID:          obj.ID,
			RackID:      obj.RackID,
			Kind:        obj.Kind,
			Transform:   obj.World,
			Size:        obj.Mesh.Size,
			Material:    obj.Material.Material,
			Addressable: obj.Addressable,
			ParentID:    obj.ParentID,
		})
	})
	return out
}

// String implements fmt.Stringer for debug logging.
func (s *Scene) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("scene{racks=%d components=%d}", len(s.subtrees), len(s.registry))
}
