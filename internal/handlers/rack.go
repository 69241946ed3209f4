package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rackwise/rackwise/internal/middleware"
	"github.com/rackwise/rackwise/internal/models"
	"github.com/rackwise/rackwise/internal/scene"
	"github.com/rackwise/rackwise/internal/viewport"
	ws "github.com/rackwise/rackwise/internal/websocket"
)

// rackRequest is the mutable surface of a rack. Position and rotation
// are pointers so an omitted field keeps its stored value instead of
// snapping the rack back to the origin.
type rackRequest struct {
	Name     string            `json:"name"`
	PosX     *float64          `json:"posX,omitempty"`
	PosZ     *float64          `json:"posZ,omitempty"`
	Rotation *float64          `json:"rotation,omitempty"`
	Config   *scene.RackConfig `json:"config,omitempty"`
}

// apply copies the provided fields onto the rack; omitted fields keep
// their stored values. The config is clamped on write.
func (b rackRequest) apply(rack *models.Rack) error {
	if b.Name != "" {
		rack.Name = b.Name
	}
	if b.PosX != nil {
		rack.PosX = *b.PosX
	}
	if b.PosZ != nil {
		rack.PosZ = *b.PosZ
	}
	if b.Rotation != nil {
		rack.Rotation = *b.Rotation
	}
	if b.Config != nil {
		return rack.SetConfig(*b.Config)
	}
	return nil
}

// canDeleteRack is the collection floor: the last rack is never
// deletable, so every account keeps at least one rack.
func canDeleteRack(count int64) bool {
	return count > 1
}

// listRacks returns the user's rack collection.
func (r *Router) listRacks(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	var racks []models.Rack
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&racks).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch racks")
		return
	}
	respondJSON(w, http.StatusOK, racks)
}

// getRack returns a single rack.
func (r *Router) getRack(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	vars := mux.Vars(req)

	var rack models.Rack
	if err := r.db.Where("id = ? AND user_id = ?", vars["id"], userID).First(&rack).Error; err != nil {
		respondError(w, http.StatusNotFound, "Rack not found")
		return
	}
	respondJSON(w, http.StatusOK, rack)
}

// createRack adds a rack with the given (clamped) config, or defaults.
func (r *Router) createRack(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var body rackRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	rack := models.Rack{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   "New Rack",
	}
	// Clamp here, at the configuration boundary; the layout engine never
	// sees raw client values.
	if err := body.apply(&rack); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid config")
		return
	}
	if body.Config == nil {
		if err := rack.SetConfig(scene.DefaultConfig()); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to build config")
			return
		}
	}

	if err := r.db.Create(&rack).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create rack")
		return
	}

	r.viewports.Get(userID).UpdateRack(rack.SceneRack())
	r.hub.Notify(ws.Event{Type: "rack_created", UserID: userID, RackID: rack.ID})
	respondJSON(w, http.StatusCreated, rack)
}

// updateRack applies config/position/name edits. Only the affected rack's
// scene subtree is rebuilt, so other racks keep their visual identity.
func (r *Router) updateRack(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	vars := mux.Vars(req)

	var rack models.Rack
	if err := r.db.Where("id = ? AND user_id = ?", vars["id"], userID).First(&rack).Error; err != nil {
		respondError(w, http.StatusNotFound, "Rack not found")
		return
	}

	var body rackRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if err := body.apply(&rack); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid config")
		return
	}

	if err := r.db.Save(&rack).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update rack")
		return
	}

	r.viewports.Get(userID).UpdateRack(rack.SceneRack())
	r.hub.Notify(ws.Event{Type: "rack_updated", UserID: userID, RackID: rack.ID})
	respondJSON(w, http.StatusOK, rack)
}

// deleteRack removes a rack unless it is the user's last one: the
// collection is never allowed to reach zero, so deleting the final rack
// is a no-op answered with a conflict.
func (r *Router) deleteRack(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	vars := mux.Vars(req)

	var count int64
	if err := r.db.Model(&models.Rack{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count racks")
		return
	}
	if !canDeleteRack(count) {
		respondError(w, http.StatusConflict, "Cannot delete the last rack")
		return
	}

	res := r.db.Where("id = ? AND user_id = ?", vars["id"], userID).Delete(&models.Rack{})
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete rack")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Rack not found")
		return
	}

	log.Printf("🗑️  Rack deleted: %s (user %s)", vars["id"], userID)
	r.viewports.Get(userID).RemoveRack(vars["id"])
	r.hub.Notify(ws.Event{Type: "rack_deleted", UserID: userID, RackID: vars["id"]})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Rack deleted"})
}

// loadViewport hydrates the user's viewport session from storage: rack
// list, record map, and health map. Called before serving scene state so
// a fresh session (or one staled by another device's writes) reflects
// the persisted collections.
func (r *Router) loadViewport(userID string) (*viewport.Session, error) {
	var racks []models.Rack
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&racks).Error; err != nil {
		return nil, err
	}
	var records []models.MaintenanceRecord
	if err := r.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}
	var health []models.ComponentHealth
	if err := r.db.Where("user_id = ?", userID).Find(&health).Error; err != nil {
		return nil, err
	}

	sess := r.viewports.Get(userID)
	sceneRacks := make([]scene.Rack, 0, len(racks))
	for i := range racks {
		sceneRacks = append(sceneRacks, racks[i].SceneRack())
	}
	sess.SetMaintenance(models.RecordMap(records), models.HealthMap(health))
	sess.SetRacks(sceneRacks)
	return sess, nil
}
