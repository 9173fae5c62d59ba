package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "PENDING"
	ProjectStatusPublic     ProjectStatus = "PUBLIC"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

// Project is a read-only input to the engine; the surrounding system creates it
// and moves it to IN_PROGRESS once a quote is accepted.
type Project struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	CategoryID  snowflake.ID  `gorm:"not null;index" json:"category_id"`
	CityID      snowflake.ID  `gorm:"not null;index" json:"city_id"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

type Category struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	Title string       `gorm:"not null" json:"title"`
}

type City struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	Title string       `gorm:"not null" json:"title"`
}

var (
	ErrNotFound  = errors.New("project_not_found")
	ErrInvalidID = errors.New("invalid_project_id")
)
