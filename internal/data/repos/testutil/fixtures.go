package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedUser inserts a user with a placeholder password hash.
func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role types.Role) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProperty(tb testing.TB, ctx context.Context, tx *gorm.DB, name, rent string) *types.Property {
	tb.Helper()
	p := &types.Property{
		ID:            uuid.New(),
		Name:          name,
		StreetAddress: "1 Main St",
		Rent:          rent,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		tb.Fatalf("seed property: %v", err)
	}
	return p
}

// SeedOccupancy writes one side of the relationship, or both.
func SeedOccupancy(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, propertyID uuid.UUID, userSide, propertySide bool) {
	tb.Helper()
	if userSide {
		if err := tx.WithContext(ctx).Model(&types.User{}).Where("id = ?", userID).Update("property_id", propertyID).Error; err != nil {
			tb.Fatalf("seed user occupancy: %v", err)
		}
	}
	if propertySide {
		row := &types.PropertyOccupant{PropertyID: propertyID, UserID: userID}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed occupant row: %v", err)
		}
	}
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
