package core

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	FirstName string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;column:last_name" json:"last_name"`
	Phone     string    `gorm:"column:phone" json:"phone,omitempty"`
	Role      Role      `gorm:"not null;default:tenant;index;column:role" json:"role"`

	// Occupancy reference. Only the occupancy service writes it together with
	// the property's occupant set.
	PropertyID *uuid.UUID `gorm:"type:uuid;index;column:property_id" json:"property_id"`
	Property   *Property  `gorm:"foreignKey:PropertyID;references:ID" json:"property,omitempty"`
	// Set when the user moves into a property, cleared on move out.
	LeaseStartedAt *time.Time `gorm:"column:lease_started_at" json:"lease_started_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleTenant
	}
	return nil
}

func (u *User) IsOwner() bool { return u != nil && u.Role == RoleOwner }

// Occupying reports whether the user currently references a property.
func (u *User) Occupying() bool { return u != nil && u.PropertyID != nil }

// Occupies reports whether the user's occupancy reference is propertyID.
func (u *User) Occupies(propertyID uuid.UUID) bool {
	return u != nil && u.PropertyID != nil && *u.PropertyID == propertyID
}
