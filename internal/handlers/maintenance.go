package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rackwise/rackwise/internal/middleware"
	"github.com/rackwise/rackwise/internal/models"
	"github.com/rackwise/rackwise/internal/scene"
	ws "github.com/rackwise/rackwise/internal/websocket"
)

// recordRequest is the creation payload for a maintenance record.
type recordRequest struct {
	ComponentID string `json:"componentId"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Technician  string `json:"technician"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
}

// listRecords returns the user's records, optionally filtered to one
// componentId. Stale ids (from shrunk configs) are returned as stored.
func (r *Router) listRecords(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	q := r.db.Where("user_id = ?", userID)
	if cid := req.URL.Query().Get("componentId"); cid != "" {
		q = q.Where("component_id = ?", cid)
	}
	var records []models.MaintenanceRecord
	if err := q.Order("timestamp DESC").Find(&records).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// createRecord appends a maintenance record. Records are never updated in
// place; corrections are a delete plus a new record.
func (r *Router) createRecord(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var body recordRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if body.ComponentID == "" {
		respondError(w, http.StatusBadRequest, "componentId is required")
		return
	}
	if body.Description == "" {
		respondError(w, http.StatusBadRequest, "description is required")
		return
	}

	ts := time.Now()
	if body.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, body.Timestamp)
		if err != nil {
			respondError(w, http.StatusBadRequest, "timestamp must be ISO-8601")
			return
		}
		ts = parsed
	}

	status := body.Status
	if status == "" {
		status = string(scene.StatusPending)
	}
	recType := body.Type
	if recType == "" {
		recType = string(scene.RecordInspection)
	}

	record := models.MaintenanceRecord{
		ID:          time.Now().UnixMilli(),
		UserID:      userID,
		ComponentID: body.ComponentID,
		Type:        recType,
		Description: body.Description,
		Technician:  body.Technician,
		Status:      status,
		Timestamp:   ts,
	}

	if err := r.db.Create(&record).Error; err != nil {
		log.Printf("❌ Failed to save record: %v", err)
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	r.refreshMaintenance(userID)
	r.hub.Notify(ws.Event{Type: "records_updated", UserID: userID})
	respondJSON(w, http.StatusCreated, record)
}

// deleteRecord removes one record by id.
func (r *Router) deleteRecord(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid record id")
		return
	}

	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.MaintenanceRecord{})
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Record not found")
		return
	}

	r.refreshMaintenance(userID)
	r.hub.Notify(ws.Event{Type: "records_updated", UserID: userID})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
}

// uploadRecordImage stores a photograph on disk and appends its path to
// the record's ordered image list.
func (r *Router) uploadRecordImage(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid record id")
		return
	}

	var record models.MaintenanceRecord
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		respondError(w, http.StatusNotFound, "Record not found")
		return
	}

	if err := req.ParseMultipartForm(16 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := req.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	dir := filepath.Join(r.cfg.UploadDir, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to prepare storage")
		return
	}

	name := fmt.Sprintf("%d_%d%s", record.ID, time.Now().UnixNano(), filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	storagePath := filepath.ToSlash(filepath.Join(userID, name))
	if err := record.AddImage(storagePath); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record image path")
		return
	}
	if err := r.db.Save(&record).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	log.Printf("📷 Image stored for record %d: %s", record.ID, storagePath)
	respondJSON(w, http.StatusCreated, record)
}

// listHealth returns the componentId -> status mapping.
func (r *Router) listHealth(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	var rows []models.ComponentHealth
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch health statuses")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// setHealth upserts one component's health rating, last write wins.
func (r *Router) setHealth(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var body struct {
		ComponentID string `json:"componentId"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	switch scene.HealthStatus(body.Status) {
	case scene.HealthGood, scene.HealthFair, scene.HealthPoor, scene.HealthCritical:
	default:
		respondError(w, http.StatusBadRequest, "status must be good|fair|poor|critical")
		return
	}

	var row models.ComponentHealth
	err := r.db.Where("user_id = ? AND component_id = ?", userID, body.ComponentID).First(&row).Error
	if err != nil {
		row = models.ComponentHealth{UserID: userID, ComponentID: body.ComponentID}
	}
	row.Status = body.Status
	if err := r.db.Save(&row).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save health status")
		return
	}

	r.refreshMaintenance(userID)
	r.hub.Notify(ws.Event{Type: "health_updated", UserID: userID})
	respondJSON(w, http.StatusOK, row)
}

// refreshMaintenance pushes the current record and health collections
// into the user's viewport session.
func (r *Router) refreshMaintenance(userID string) {
	var records []models.MaintenanceRecord
	var health []models.ComponentHealth
	if err := r.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return
	}
	if err := r.db.Where("user_id = ?", userID).Find(&health).Error; err != nil {
		return
	}
	r.viewports.Get(userID).SetMaintenance(models.RecordMap(records), models.HealthMap(health))
}

// analytics aggregates maintenance state across the user's racks:
// record counts by status and type, the health distribution, and how
// many currently-generated components have never had a completed
// inspection.
func (r *Router) analytics(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var racks []models.Rack
	if err := r.db.Where("user_id = ?", userID).Find(&racks).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch racks")
		return
	}
	var records []models.MaintenanceRecord
	if err := r.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}
	var health []models.ComponentHealth
	if err := r.db.Where("user_id = ?", userID).Find(&health).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch health statuses")
		return
	}

	byStatus := map[string]int{}
	byType := map[string]int{}
	for i := range records {
		byStatus[records[i].Status]++
		byType[records[i].Type]++
	}
	healthDist := map[string]int{}
	for i := range health {
		healthDist[health[i].Status]++
	}

	recordMap := models.RecordMap(records)
	now := time.Now()
	neverInspected := 0
	totalComponents := 0
	for i := range racks {
		sr := racks[i].SceneRack()
		// Enumerate without pallets: load state is not a maintained asset
		// for inspection coverage purposes.
		cfg := sr.Config
		cfg.ShowPallets = false
		seen := map[string]bool{}
		for _, inst := range scene.Layout(sr.ID, cfg, scene.PalletRand(sr.ID, cfg)) {
			if !inst.Addressable || seen[inst.ID] {
				continue
			}
			seen[inst.ID] = true
			totalComponents++
			if scene.DaysSinceInspection(recordMap[inst.ID], now) == scene.NeverInspectedDays {
				neverInspected++
			}
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"racks":           len(racks),
		"records":         len(records),
		"recordsByStatus": byStatus,
		"recordsByType":   byType,
		"healthByStatus":  healthDist,
		"components":      totalComponents,
		"neverInspected":  neverInspected,
	})
}
