package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product status values
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// BaseModel is the base model for all persisted entities
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate hook to generate UUID if not set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Artisan represents an authenticated seller account
type Artisan struct {
	BaseModel
	Name         string `gorm:"not null" json:"name" validate:"required"`
	Email        string `gorm:"unique;not null" json:"email" validate:"required,email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
	Avatar       string `json:"avatar"`
}

// Product represents a marketplace listing owned by one artisan
type Product struct {
	BaseModel
	ArtisanID   uuid.UUID      `gorm:"type:uuid;index;not null;constraint:OnDelete:RESTRICT" json:"artisanId"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"not null" json:"description"`
	Price       float64        `gorm:"not null;check:price >= 0" json:"price"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	Category    string         `gorm:"not null" json:"category"`
	Stock       int            `gorm:"default:0;check:stock >= 0" json:"stock"`
	Status      string         `gorm:"default:'draft';check:status IN ('draft','published')" json:"status"`

	Artisan *Artisan `gorm:"foreignKey:ArtisanID" json:"artisan,omitempty"`
}

// PaginationResult represents paginated results
type PaginationResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// UpdateProfileRequest represents editable account fields; nil means "leave unchanged"
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Avatar   *string `json:"avatar"`
}

// GetAllModels returns all models for GORM AutoMigrate
func GetAllModels() []interface{} {
	return []interface{}{
		&Artisan{},
		&Product{},
	}
}
