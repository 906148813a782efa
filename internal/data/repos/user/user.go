package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFilter narrows List. A nil Role lists everyone.
type UserFilter struct {
	Role          *types.Role
	WithProperty  bool
	OnlyOccupying bool
}

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByEmails(dbc dbctx.Context, userEmails []string) ([]*types.User, error)
	EmailExists(dbc dbctx.Context, userEmail string) (bool, error)
	List(dbc dbctx.Context, filter UserFilter) ([]*types.User, error)
	UpdateFields(dbc dbctx.Context, userID uuid.UUID, fields map[string]any) error
	SetProperty(dbc dbctx.Context, userID uuid.UUID, propertyID uuid.UUID) error
	ClearPropertyIf(dbc dbctx.Context, userID uuid.UUID, propertyID uuid.UUID) (bool, error)
	DeleteByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.DB(ur.db).Omit(clause.Associations).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).
		Preload("Property").
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmails(dbc dbctx.Context, userEmails []string) ([]*types.User, error) {
	var results []*types.User
	if len(userEmails) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).
		Preload("Property").
		Where("email IN ?", userEmails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, userEmail string) (bool, error) {
	var count int64
	if err := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("email = ?", userEmail).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) List(dbc dbctx.Context, filter UserFilter) ([]*types.User, error) {
	q := dbc.DB(ur.db).Model(&types.User{})
	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}
	if filter.OnlyOccupying {
		q = q.Where("property_id IS NOT NULL")
	}
	if filter.WithProperty {
		q = q.Preload("Property")
	}
	var results []*types.User
	if err := q.Order("created_at ASC").Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdateFields(dbc dbctx.Context, userID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
}

// SetProperty points the user at propertyID. The lease start is stamped when
// the reference changes and kept when it already points there.
func (ur *userRepo) SetProperty(dbc dbctx.Context, userID uuid.UUID, propertyID uuid.UUID) error {
	leaseStart := gorm.Expr(
		"CASE WHEN property_id = ? AND lease_started_at IS NOT NULL THEN lease_started_at ELSE ? END",
		propertyID, time.Now().UTC(),
	)
	return dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"property_id":      propertyID,
			"lease_started_at": leaseStart,
		}).Error
}

// ClearPropertyIf nulls the occupancy reference only while it still equals
// propertyID, so a concurrent move-in elsewhere is not undone.
func (ur *userRepo) ClearPropertyIf(dbc dbctx.Context, userID uuid.UUID, propertyID uuid.UUID) (bool, error) {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ? AND property_id = ?", userID, propertyID).
		Updates(map[string]any{
			"property_id":      gorm.Expr("NULL"),
			"lease_started_at": gorm.Expr("NULL"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByID hard-deletes the user and returns the row as it was, or nil when
// nothing matched. Occupant sets that reference the user are left alone.
func (ur *userRepo) DeleteByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	var existing types.User
	tx := dbc.DB(ur.db)
	if err := tx.Where("id = ?", userID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := tx.Where("id = ?", userID).Delete(&types.User{}).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
