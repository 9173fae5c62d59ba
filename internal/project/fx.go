package project

import (
	"github.com/craftbid/matchengine/internal/project/domain"
	"github.com/craftbid/matchengine/pkg/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides read-only stores for projects and the catalog lookups the
// notification text needs.
var Module = fx.Module("project",
	fx.Provide(func(db *gorm.DB) repository.Repository[domain.Project] {
		return repository.ProvideStore[domain.Project](db)
	}),
	fx.Provide(func(db *gorm.DB) repository.Repository[domain.Category] {
		return repository.ProvideStore[domain.Category](db)
	}),
	fx.Provide(func(db *gorm.DB) repository.Repository[domain.City] {
		return repository.ProvideStore[domain.City](db)
	}),
)
