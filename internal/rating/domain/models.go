package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Sub-score maxima. TotalScore is bounded to [0,100] because the five maxima
// sum to 100 and penalties only subtract.
const (
	MaxPremiumScore  = 30.0
	MaxReviewScore   = 25.0
	MaxProfileScore  = 20.0
	MaxResponseScore = 15.0
	MaxActivityScore = 10.0
)

// CompositeRating is the supplier's trust score: five weighted sub-scores
// minus penalties, clamped at zero. At most one row exists per supplier.
type CompositeRating struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	SupplierID       snowflake.ID `gorm:"not null;uniqueIndex" json:"supplier_id"`
	PremiumScore     float64      `gorm:"not null;default:0" json:"premium_score"`
	ReviewScore      float64      `gorm:"not null;default:0" json:"review_score"`
	ProfileScore     float64      `gorm:"not null;default:0" json:"profile_score"`
	ResponseScore    float64      `gorm:"not null;default:0" json:"response_score"`
	ActivityScore    float64      `gorm:"not null;default:0" json:"activity_score"`
	Penalties        float64      `gorm:"not null;default:0" json:"penalties"`
	TotalScore       float64      `gorm:"not null;default:0" json:"total_score"`
	LastCalculatedAt time.Time    `gorm:"not null" json:"last_calculated_at"`
}
