package migration

import (
	"fmt"

	messagingdomain "github.com/craftbid/matchengine/internal/messaging/domain"
	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	quotedomain "github.com/craftbid/matchengine/internal/quote/domain"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	reviewdomain "github.com/craftbid/matchengine/internal/review/domain"
	supplierdomain "github.com/craftbid/matchengine/internal/supplier/domain"
	"gorm.io/gorm"
)

// Run creates or updates the engine's tables on startup so local and
// self-hosted environments work out of the box.
func Run(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&supplierdomain.Supplier{},
		&supplierdomain.CategoryMembership{},
		&supplierdomain.CityMembership{},
		&projectdomain.Category{},
		&projectdomain.City{},
		&projectdomain.Project{},
		&reviewdomain.Review{},
		&ratingdomain.CompositeRating{},
		&quotedomain.Quote{},
		&messagingdomain.Conversation{},
		&messagingdomain.Message{},
	); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
