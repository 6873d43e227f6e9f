package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService is a row of the services table: one purchasable advisory service.
type CatalogService struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex:ux_services_slug"`
	Title       string          `gorm:"column:title;not null"`
	Category    string          `gorm:"column:category;not null"`
	Summary     *string         `gorm:"column:summary"`
	PriceNote   *string         `gorm:"column:price_note"`
	Details     json.RawMessage `gorm:"column:details;type:jsonb"`
	Position    int             `gorm:"column:position;not null;default:0"`
	IsPublished bool            `gorm:"column:is_published;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CatalogService) TableName() string { return "services" }

func (s *CatalogService) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
