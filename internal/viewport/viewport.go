// Package viewport owns the server-side 3D session for one user: the
// scene graph, the orbit camera, and the transient selection state. All
// mutation funnels through the session mutex, giving the single-writer
// discipline the scene registry requires.
package viewport

import (
	"sync"
	"time"

	"github.com/rackwise/rackwise/internal/scene"
)

// Session is one user's live viewport.
type Session struct {
	mu      sync.Mutex
	scene   *scene.Scene
	camera  *scene.Camera
	state   scene.State
	tracker scene.PointerTracker

	racks        []scene.Rack
	selectedRack string
	started      time.Time
}

// NewSession returns an empty viewport in normal view mode.
func NewSession() *Session {
	return &Session{
		scene:   scene.NewScene(),
		camera:  scene.NewCamera(),
		state:   scene.State{ViewMode: scene.ViewNormal},
		started: time.Now(),
	}
}

// SetRacks replaces the rack list and rebuilds the whole scene.
func (s *Session) SetRacks(racks []scene.Rack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.racks = racks
	s.scene.Rebuild(racks, &s.state)
}

// UpdateRack rebuilds a single rack's subtree, leaving the rest of the
// scene untouched.
func (s *Session) UpdateRack(rack scene.Rack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.racks {
		if s.racks[i].ID == rack.ID {
			s.racks[i] = rack
			s.scene.BuildRack(rack, &s.state)
			return
		}
	}
	s.racks = append(s.racks, rack)
	s.scene.BuildRack(rack, &s.state)
}

// RemoveRack drops a rack's subtree. Selection pointing into the removed
// rack is cleared.
func (s *Session) RemoveRack(rackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.racks[:0]
	for _, r := range s.racks {
		if r.ID != rackID {
			next = append(next, r)
		}
	}
	s.racks = next
	s.scene.RemoveRack(rackID)
	if s.selectedRack == rackID {
		s.selectedRack = ""
		s.state.SelectedID = ""
	}
}

// SetMaintenance replaces the record and health inputs and rebuilds.
func (s *Session) SetMaintenance(records map[string][]scene.RecordInfo, health map[string]scene.HealthStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Records = records
	s.state.Health = health
	s.scene.Rebuild(s.racks, &s.state)
}

// SetViewMode switches coloring scheme and rebuilds.
func (s *Session) SetViewMode(mode scene.ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode != scene.ViewHealth && mode != scene.ViewHeatmap {
		mode = scene.ViewNormal
	}
	s.state.ViewMode = mode
	s.scene.Rebuild(s.racks, &s.state)
}

// Click resolves a pointer click. A miss clears nothing (no-op); a hit
// selects the component and, when the owning rack changed, refocuses the
// camera on that rack. Only the affected rack subtrees are rebuilt.
func (s *Session) Click(px, py, width, height float64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tracker.Up() {
		return s.state.SelectedID, s.state.SelectedID != ""
	}
	id, ok := s.scene.PickPointer(s.camera, px, py, width, height)
	if !ok {
		return s.state.SelectedID, s.state.SelectedID != ""
	}
	s.selectLocked(id)
	return id, true
}

// Select sets the selection directly (e.g. from a component list in the
// UI) with the same camera semantics as a click.
func (s *Session) Select(componentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked(componentID)
}

func (s *Session) selectLocked(componentID string) {
	prev := s.state.SelectedID
	if prev == componentID {
		return
	}
	s.state.SelectedID = componentID

	rackID, _, _ := scene.SplitComponentID(componentID)
	prevRack := s.selectedRack
	if rackID != "" && rackID != s.selectedRack {
		s.selectedRack = rackID
		if target, ok := s.scene.FocusTarget(rackID); ok {
			s.camera.Focus(target)
		}
	}

	// Rebuild only the subtrees whose materials changed.
	rebuilt := map[string]bool{}
	for _, rid := range []string{prevRack, s.selectedRack} {
		if rid == "" || rebuilt[rid] {
			continue
		}
		for _, r := range s.racks {
			if r.ID == rid {
				s.scene.BuildRack(r, &s.state)
				rebuilt[rid] = true
			}
		}
	}
}

// PointerDown begins a gesture at the given position.
func (s *Session) PointerDown(px, py float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Down(px, py)
}

// Hover updates the hovered component. Suppressed while an orbit drag is
// active; hover changes never trigger a rebuild, they only retag state.
func (s *Session) Hover(px, py, width, height float64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tracker.Move(px, py) {
		return "", false
	}
	id, ok := s.scene.PickPointer(s.camera, px, py, width, height)
	if ok {
		s.state.HoveredID = id
	} else {
		s.state.HoveredID = ""
	}
	return id, ok
}

// Orbit and Zoom drive the camera; the target is never recomputed here.
func (s *Session) Orbit(dTheta, dPhi float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.Orbit(dTheta, dPhi)
}

func (s *Session) Zoom(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.Zoom(delta)
}

// Preset applies a named camera view.
func (s *Session) Preset(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera.ApplyPreset(name)
}

// FocusRack retargets the camera on a rack and marks it selected.
func (s *Session) FocusRack(rackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.scene.FocusTarget(rackID)
	if !ok {
		return false
	}
	s.selectedRack = rackID
	s.camera.Focus(target)
	return true
}

// Snapshot is the full wire state the browser renderer consumes each
// time it is told the scene is dirty.
type Snapshot struct {
	Objects    []scene.SnapshotObject `json:"objects"`
	Camera     scene.Camera           `json:"camera"`
	ViewMode   scene.ViewMode         `json:"viewMode"`
	SelectedID string                 `json:"selectedId,omitempty"`
	HoveredID  string                 `json:"hoveredId,omitempty"`
	Pulse      float64                `json:"pulse"`
	Bounce     float64                `json:"bounce"`
}

// Snapshot captures the current scene, camera, and animation phase.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.started).Seconds()
	return Snapshot{
		Objects:    s.scene.Snapshot(),
		Camera:     *s.camera,
		ViewMode:   s.state.ViewMode,
		SelectedID: s.state.SelectedID,
		HoveredID:  s.state.HoveredID,
		Pulse:      scene.PulseFactor(elapsed),
		Bounce:     scene.MarkerBounce(elapsed),
	}
}

// ComponentBounds proxies the scene's export query.
func (s *Session) ComponentBounds(componentID string) (scene.Bounds, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.ComponentBounds(componentID)
}

// Manager hands out one session per user.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the user's session, creating it on first use.
func (m *Manager) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		sess = NewSession()
		m.sessions[userID] = sess
	}
	return sess
}
