package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rackwise/rackwise/internal/middleware"
	"github.com/rackwise/rackwise/internal/scene"
	ws "github.com/rackwise/rackwise/internal/websocket"
)

// pointerRequest carries viewport pixel coordinates.
type pointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Down marks the start of a gesture; the session's tracker uses it to
	// tell clicks from orbit drags.
	Down bool `json:"down,omitempty"`
}

// sceneSnapshot hydrates the viewport from storage and returns the full
// scene graph, camera, and animation phase.
func (r *Router) sceneSnapshot(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	sess, err := r.loadViewport(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load scene")
		return
	}
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

// scenePick resolves a click. A miss leaves the selection untouched.
func (r *Router) scenePick(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	var body pointerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	sess := r.viewports.Get(userID)
	if body.Down {
		sess.PointerDown(body.X, body.Y)
		respondJSON(w, http.StatusOK, map[string]interface{}{"down": true})
		return
	}

	id, ok := sess.Click(body.X, body.Y, body.Width, body.Height)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"componentId": id,
		"selected":    ok,
	})
}

// sceneHover resolves a pointer move; suppressed during orbit drags.
func (r *Router) sceneHover(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	var body pointerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	id, ok := r.viewports.Get(userID).Hover(body.X, body.Y, body.Width, body.Height)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"componentId": id,
		"hovered":     ok,
	})
}

// sceneSelect sets the selection directly, e.g. from a record list row.
func (r *Router) sceneSelect(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	var body struct {
		ComponentID string `json:"componentId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	r.viewports.Get(userID).Select(body.ComponentID)
	respondJSON(w, http.StatusOK, map[string]string{"componentId": body.ComponentID})
}

// sceneMode switches the coloring view mode.
func (r *Router) sceneMode(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	r.viewports.Get(userID).SetViewMode(scene.ViewMode(body.Mode))
	r.hub.Notify(ws.Event{Type: "view_mode", UserID: userID})
	respondJSON(w, http.StatusOK, map[string]string{"mode": body.Mode})
}

// sceneCamera drives the orbit rig: named preset, orbit deltas, or zoom.
func (r *Router) sceneCamera(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	var body struct {
		Preset string  `json:"preset,omitempty"`
		DTheta float64 `json:"dTheta,omitempty"`
		DPhi   float64 `json:"dPhi,omitempty"`
		DZoom  float64 `json:"dZoom,omitempty"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	sess := r.viewports.Get(userID)
	if body.Preset != "" {
		if !sess.Preset(body.Preset) {
			respondError(w, http.StatusBadRequest, "Unknown preset")
			return
		}
	}
	if body.DTheta != 0 || body.DPhi != 0 {
		sess.Orbit(body.DTheta, body.DPhi)
	}
	if body.DZoom != 0 {
		sess.Zoom(body.DZoom)
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sceneFocus retargets the camera on a rack.
func (r *Router) sceneFocus(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	rackID := mux.Vars(req)["rackId"]
	if !r.viewports.Get(userID).FocusRack(rackID) {
		respondError(w, http.StatusNotFound, "Rack not in scene")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"rackId": rackID})
}
