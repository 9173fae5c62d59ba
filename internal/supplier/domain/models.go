package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

type PremiumTier string

const (
	TierNone   PremiumTier = "NONE"
	TierBronze PremiumTier = "BRONZE"
	TierSilver PremiumTier = "SILVER"
	TierGold   PremiumTier = "GOLD"
)

// Supplier is the account record the engine scores and notifies. Profile
// completeness fields feed the composite rating; the activity fields feed the
// candidate recency bonus.
type Supplier struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	DisplayName         string       `gorm:"not null" json:"display_name"`
	Role                Role         `gorm:"not null;index" json:"role"`
	IsActive            bool         `gorm:"not null;default:true" json:"is_active"`
	IsBlocked           bool         `gorm:"not null;default:false" json:"is_blocked"`
	PremiumTier         PremiumTier  `gorm:"not null;default:'NONE'" json:"premium_tier"`
	WorkshopName        string       `json:"workshop_name,omitempty"`
	WorkshopAddress     string       `json:"workshop_address,omitempty"`
	ProfileImageURL     string       `json:"profile_image_url,omitempty"`
	CoverImageURL       string       `json:"cover_image_url,omitempty"`
	MachineCount        int          `gorm:"not null;default:0" json:"machine_count"`
	PortfolioImageCount int          `gorm:"not null;default:0" json:"portfolio_image_count"`
	LastLoginAt         *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// CategoryMembership is pure set membership; catalog management owns its
// lifecycle, the engine only reads it.
type CategoryMembership struct {
	SupplierID snowflake.ID `gorm:"not null;uniqueIndex:idx_supplier_category" json:"supplier_id"`
	CategoryID snowflake.ID `gorm:"not null;uniqueIndex:idx_supplier_category;index" json:"category_id"`
}

// CityMembership mirrors CategoryMembership for service areas.
type CityMembership struct {
	SupplierID snowflake.ID `gorm:"not null;uniqueIndex:idx_supplier_city" json:"supplier_id"`
	CityID     snowflake.ID `gorm:"not null;uniqueIndex:idx_supplier_city;index" json:"city_id"`
}
