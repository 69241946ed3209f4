package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"github.com/rackwise/rackwise/internal/export"
	"github.com/rackwise/rackwise/internal/middleware"
	"github.com/rackwise/rackwise/internal/models"
	"github.com/rackwise/rackwise/internal/scene"
)

// exportRackPDF streams a plan/elevation drawing of one rack.
func (r *Router) exportRackPDF(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	vars := mux.Vars(req)

	var rack models.Rack
	if err := r.db.Where("id = ? AND user_id = ?", vars["id"], userID).First(&rack).Error; err != nil {
		respondError(w, http.StatusNotFound, "Rack not found")
		return
	}

	pdf, err := export.RackDrawingPDF(rack.SceneRack())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rack.Name+".pdf"))
	w.Write(pdf)
}

// exportRackLabels streams a QR label sheet covering every addressable
// component of one rack, ordered for stable sheet layout.
func (r *Router) exportRackLabels(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	vars := mux.Vars(req)

	var rack models.Rack
	if err := r.db.Where("id = ? AND user_id = ?", vars["id"], userID).First(&rack).Error; err != nil {
		respondError(w, http.StatusNotFound, "Rack not found")
		return
	}

	sr := rack.SceneRack()
	cfg := sr.Config
	// Pallets are transient load, not labeled assets.
	cfg.ShowPallets = false

	seen := map[string]bool{}
	var ids []string
	for _, inst := range scene.Layout(sr.ID, cfg, scene.PalletRand(sr.ID, cfg)) {
		if inst.Addressable && !seen[inst.ID] {
			seen[inst.ID] = true
			ids = append(ids, inst.ID)
		}
	}
	sort.Strings(ids)

	pdf, err := export.ComponentLabelsPDF(ids, export.DefaultLabelConfig())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render labels")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rack.Name+"-labels.pdf"))
	w.Write(pdf)
}

// exportSnapshot returns the user's full dataset as a portable JSON
// document: racks with configs, records, and health entries.
func (r *Router) exportSnapshot(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var racks []models.Rack
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&racks).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch racks")
		return
	}
	var records []models.MaintenanceRecord
	if err := r.db.Where("user_id = ?", userID).Order("timestamp").Find(&records).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}
	var health []models.ComponentHealth
	if err := r.db.Where("user_id = ?", userID).Find(&health).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch health statuses")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\"rackwise-snapshot.json\"")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"exportedAt": time.Now().UTC().Format(time.RFC3339),
		"racks":      racks,
		"records":    records,
		"health":     health,
	})
}
