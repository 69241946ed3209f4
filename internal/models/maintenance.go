package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/rackwise/rackwise/internal/scene"
)

// MaintenanceRecord is one maintenance or inspection entry attached to a
// derived componentId. Records are append-and-delete only, never updated
// in place. The componentId is a tolerant foreign key: ids referencing
// bays/levels removed by a config shrink are kept and simply have no
// visual anchor until the geometry returns.
type MaintenanceRecord struct {
	ID          int64          `gorm:"primaryKey" json:"id"` // timestamp-derived, assigned at creation
	UserID      string         `gorm:"type:uuid;not null;index" json:"userId"`
	ComponentID string         `gorm:"not null;index" json:"componentId"`
	Type        string         `gorm:"not null" json:"type"`
	Description string         `gorm:"not null" json:"description"`
	Technician  string         `json:"technician,omitempty"`
	Status      string         `gorm:"default:'pending'" json:"status"`
	Timestamp   time.Time      `gorm:"not null" json:"timestamp"`
	Images      datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"images"` // ordered storage paths

	CreatedAt time.Time `json:"createdAt"`
}

func (MaintenanceRecord) TableName() string { return "maintenance_records" }

// ImagePaths decodes the stored image path list.
func (m *MaintenanceRecord) ImagePaths() []string {
	var paths []string
	if len(m.Images) > 0 {
		_ = json.Unmarshal(m.Images, &paths)
	}
	return paths
}

// AddImage appends a storage path to the ordered image list.
func (m *MaintenanceRecord) AddImage(path string) error {
	paths := append(m.ImagePaths(), path)
	raw, err := json.Marshal(paths)
	if err != nil {
		return err
	}
	m.Images = datatypes.JSON(raw)
	return nil
}

// Info projects the record into the slice the coloring policy consumes.
func (m *MaintenanceRecord) Info() scene.RecordInfo {
	return scene.RecordInfo{
		Type:      scene.RecordType(m.Type),
		Status:    scene.RecordStatus(m.Status),
		Timestamp: m.Timestamp,
	}
}

// ComponentHealth is the user-assigned condition rating for one
// componentId: at most one row per component, last write wins.
type ComponentHealth struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_health_user_component" json:"userId"`
	ComponentID string    `gorm:"not null;uniqueIndex:idx_health_user_component" json:"componentId"`
	Status      string    `gorm:"not null" json:"status"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ComponentHealth) TableName() string { return "component_health" }

// RecordMap groups records by componentId for the scene state.
func RecordMap(records []MaintenanceRecord) map[string][]scene.RecordInfo {
	out := make(map[string][]scene.RecordInfo, len(records))
	for i := range records {
		out[records[i].ComponentID] = append(out[records[i].ComponentID], records[i].Info())
	}
	return out
}

// HealthMap projects health rows into the scene state mapping.
func HealthMap(rows []ComponentHealth) map[string]scene.HealthStatus {
	out := make(map[string]scene.HealthStatus, len(rows))
	for i := range rows {
		out[rows[i].ComponentID] = scene.HealthStatus(rows[i].Status)
	}
	return out
}
