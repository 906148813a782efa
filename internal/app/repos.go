package app

import (
	"gorm.io/gorm"

	"github.com/OwaisIslam/living-real/internal/data/repos"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type Repos struct {
	User     repos.UserRepo
	Property repos.PropertyRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Property: repos.NewPropertyRepo(db, log),
	}
}
