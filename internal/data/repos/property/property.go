package property

import (
	"errors"

	"github.com/google/uuid"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyRepo interface {
	Create(dbc dbctx.Context, properties []*types.Property) ([]*types.Property, error)
	GetByIDs(dbc dbctx.Context, propertyIDs []uuid.UUID) ([]*types.Property, error)
	List(dbc dbctx.Context) ([]*types.Property, error)
	Exists(dbc dbctx.Context, propertyID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, propertyID uuid.UUID, fields map[string]any) (bool, error)
	DeleteByID(dbc dbctx.Context, propertyID uuid.UUID) (*types.Property, error)

	// Occupant set operations. Both are idempotent.
	AddOccupant(dbc dbctx.Context, propertyID, userID uuid.UUID) error
	RemoveOccupant(dbc dbctx.Context, propertyID, userID uuid.UUID) error
	ListOccupants(dbc dbctx.Context) ([]*types.PropertyOccupant, error)
}

type propertyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRepo {
	repoLog := baseLog.With("repo", "PropertyRepo")
	if err := db.SetupJoinTable(&types.Property{}, "Occupants", &types.PropertyOccupant{}); err != nil {
		repoLog.Warn("Failed to register occupant join table", "error", err)
	}
	return &propertyRepo{db: db, log: repoLog}
}

func (pr *propertyRepo) Create(dbc dbctx.Context, properties []*types.Property) ([]*types.Property, error) {
	if len(properties) == 0 {
		return []*types.Property{}, nil
	}
	if err := dbc.DB(pr.db).Omit(clause.Associations).Create(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (pr *propertyRepo) GetByIDs(dbc dbctx.Context, propertyIDs []uuid.UUID) ([]*types.Property, error) {
	var results []*types.Property
	if len(propertyIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(pr.db).
		Preload("Occupants", orderOccupants).
		Where("id IN ?", propertyIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *propertyRepo) List(dbc dbctx.Context) ([]*types.Property, error) {
	var results []*types.Property
	if err := dbc.DB(pr.db).
		Preload("Occupants", orderOccupants).
		Order("created_at ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *propertyRepo) Exists(dbc dbctx.Context, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := dbc.DB(pr.db).
		Model(&types.Property{}).
		Where("id = ?", propertyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateFields reports false when no property has the id.
func (pr *propertyRepo) UpdateFields(dbc dbctx.Context, propertyID uuid.UUID, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return pr.Exists(dbc, propertyID)
	}
	res := dbc.DB(pr.db).
		Model(&types.Property{}).
		Where("id = ?", propertyID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByID removes the property and its own occupant set. Users that still
// point at the property keep their reference.
func (pr *propertyRepo) DeleteByID(dbc dbctx.Context, propertyID uuid.UUID) (*types.Property, error) {
	var deleted *types.Property
	err := dbc.DB(pr.db).Transaction(func(tx *gorm.DB) error {
		var existing types.Property
		if err := tx.Preload("Occupants", orderOccupants).Where("id = ?", propertyID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&types.PropertyOccupant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", propertyID).Delete(&types.Property{}).Error; err != nil {
			return err
		}
		deleted = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (pr *propertyRepo) AddOccupant(dbc dbctx.Context, propertyID, userID uuid.UUID) error {
	row := &types.PropertyOccupant{PropertyID: propertyID, UserID: userID}
	return dbc.DB(pr.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (pr *propertyRepo) RemoveOccupant(dbc dbctx.Context, propertyID, userID uuid.UUID) error {
	return dbc.DB(pr.db).
		Where("property_id = ? AND user_id = ?", propertyID, userID).
		Delete(&types.PropertyOccupant{}).Error
}

func (pr *propertyRepo) ListOccupants(dbc dbctx.Context) ([]*types.PropertyOccupant, error) {
	var results []*types.PropertyOccupant
	if err := dbc.DB(pr.db).
		Order("property_id ASC").
		Order("user_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func orderOccupants(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
