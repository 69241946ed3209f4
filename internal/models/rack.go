package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rackwise/rackwise/internal/scene"
)

// Rack is a persisted racking structure on a user's warehouse floor.
// The declarative geometry configuration is stored as a JSONB document;
// component identity is derived from ID + config, never persisted.
type Rack struct {
	ID       string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string         `gorm:"type:uuid;not null;index" json:"userId"`
	Name     string         `gorm:"not null" json:"name"`
	PosX     float64        `gorm:"default:0" json:"posX"`
	PosZ     float64        `gorm:"default:0" json:"posZ"`
	Rotation float64        `gorm:"default:0" json:"rotation"` // radians about the vertical axis
	Config   datatypes.JSON `gorm:"type:jsonb" json:"config"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *UserAuth `gorm:"foreignKey:UserID" json:"-"`
}

func (Rack) TableName() string { return "racks" }

// SceneRack resolves the row into the scene-level value the viewport
// consumes. A corrupt or missing config document falls back to defaults;
// the layout engine never sees un-normalized values.
func (r *Rack) SceneRack() scene.Rack {
	cfg := scene.DefaultConfig()
	if len(r.Config) > 0 {
		_ = json.Unmarshal(r.Config, &cfg)
	}
	return scene.Rack{
		ID:       r.ID,
		Name:     r.Name,
		PosX:     r.PosX,
		PosZ:     r.PosZ,
		Rotation: r.Rotation,
		Config:   cfg.Normalize(),
	}
}

// SetConfig normalizes and stores a configuration document.
func (r *Rack) SetConfig(cfg scene.RackConfig) error {
	raw, err := json.Marshal(cfg.Normalize())
	if err != nil {
		return err
	}
	r.Config = datatypes.JSON(raw)
	return nil
}
