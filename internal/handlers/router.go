package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rackwise/rackwise/internal/config"
	"github.com/rackwise/rackwise/internal/database"
	"github.com/rackwise/rackwise/internal/middleware"
	"github.com/rackwise/rackwise/internal/viewport"
	ws "github.com/rackwise/rackwise/internal/websocket"
)

// Router wraps the mux router with the shared application state.
type Router struct {
	*mux.Router
	db        *database.DB
	cfg       *config.Config
	hub       *ws.Hub
	viewports *viewport.Manager
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, hub *ws.Hub) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		db:        db,
		cfg:       cfg,
		hub:       hub,
		viewports: viewport.NewManager(),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	// Rack collection
	api.HandleFunc("/racks", r.listRacks).Methods("GET")
	api.HandleFunc("/racks", r.createRack).Methods("POST")
	api.HandleFunc("/racks/{id}", r.getRack).Methods("GET")
	api.HandleFunc("/racks/{id}", r.updateRack).Methods("PUT")
	api.HandleFunc("/racks/{id}", r.deleteRack).Methods("DELETE")

	// Maintenance records and component health
	api.HandleFunc("/records", r.listRecords).Methods("GET")
	api.HandleFunc("/records", r.createRecord).Methods("POST")
	api.HandleFunc("/records/{id}", r.deleteRecord).Methods("DELETE")
	api.HandleFunc("/records/{id}/images", r.uploadRecordImage).Methods("POST")
	api.HandleFunc("/component-health", r.listHealth).Methods("GET")
	api.HandleFunc("/component-health", r.setHealth).Methods("PUT")
	api.HandleFunc("/analytics", r.analytics).Methods("GET")

	// Viewport: scene snapshot, picking, selection, camera
	api.HandleFunc("/scene", r.sceneSnapshot).Methods("GET")
	api.HandleFunc("/scene/pick", r.scenePick).Methods("POST")
	api.HandleFunc("/scene/hover", r.sceneHover).Methods("POST")
	api.HandleFunc("/scene/select", r.sceneSelect).Methods("POST")
	api.HandleFunc("/scene/mode", r.sceneMode).Methods("POST")
	api.HandleFunc("/scene/camera", r.sceneCamera).Methods("POST")
	api.HandleFunc("/scene/focus/{rackId}", r.sceneFocus).Methods("POST")

	// Exports
	api.HandleFunc("/racks/{id}/export/pdf", r.exportRackPDF).Methods("GET")
	api.HandleFunc("/racks/{id}/export/labels", r.exportRackLabels).Methods("GET")
	api.HandleFunc("/export/snapshot", r.exportSnapshot).Methods("GET")

	// Uploaded photographs
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Live viewport event stream
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, w, req)
	})

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "rackwise",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
