package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	"gorm.io/gorm"
)

var defaultCategories = []string{
	"CNC Machining",
	"Sheet Metal",
	"3D Printing",
	"Injection Molding",
	"Welding",
	"Woodworking",
}

var defaultCities = []string{
	"Berlin",
	"Hamburg",
	"Munich",
	"Cologne",
	"Stuttgart",
}

// EnsureReferenceData seeds the category and city lookup tables so a fresh
// local install has something to match against. Existing rows are left alone.
func EnsureReferenceData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&projectdomain.Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for _, title := range defaultCategories {
				category := projectdomain.Category{ID: node.Generate(), Title: title}
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&projectdomain.City{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for _, title := range defaultCities {
				city := projectdomain.City{ID: node.Generate(), Title: title}
				if err := tx.Create(&city).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}
