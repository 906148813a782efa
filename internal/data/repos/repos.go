package repos

import (
	"github.com/OwaisIslam/living-real/internal/data/repos/property"
	"github.com/OwaisIslam/living-real/internal/data/repos/user"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserFilter = user.UserFilter

type PropertyRepo = property.PropertyRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewPropertyRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRepo {
	return property.NewPropertyRepo(db, baseLog)
}
