package core

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string                      `gorm:"not null;column:name" json:"name"`
	StreetAddress string                      `gorm:"not null;column:street_address" json:"street_address"`
	Rent          string                      `gorm:"not null;column:rent" json:"rent"`
	Description   string                      `gorm:"column:description" json:"description,omitempty"`
	Amenities     datatypes.JSONSlice[string] `gorm:"column:amenities" json:"amenities"`

	Occupants []*User `gorm:"many2many:property_occupant;joinForeignKey:PropertyID;joinReferences:UserID" json:"occupants"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Property) TableName() string { return "property" }

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Amenities == nil {
		p.Amenities = datatypes.JSONSlice[string]{}
	}
	return nil
}

// HasOccupant reports whether userID is among the resolved occupants.
func (p *Property) HasOccupant(userID uuid.UUID) bool {
	if p == nil {
		return false
	}
	for _, o := range p.Occupants {
		if o != nil && o.ID == userID {
			return true
		}
	}
	return false
}
