package core

import (
	"time"

	"github.com/google/uuid"
)

// PropertyOccupant is one member of a property's occupant set. The composite
// primary key gives the set its no-duplicates guarantee.
type PropertyOccupant struct {
	PropertyID uuid.UUID `gorm:"type:uuid;primaryKey;column:property_id" json:"property_id"`
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey;index;column:user_id" json:"user_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (PropertyOccupant) TableName() string { return "property_occupant" }
