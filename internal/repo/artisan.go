package repo

import (
	"artisania/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArtisanRepository handles artisan data access
type ArtisanRepository struct {
	db *gorm.DB
}

// NewArtisanRepository creates a new artisan repository
func NewArtisanRepository(db *gorm.DB) *ArtisanRepository {
	return &ArtisanRepository{db: db}
}

// GetByEmail gets an artisan by email
func (r *ArtisanRepository) GetByEmail(email string) (*models.Artisan, error) {
	var artisan models.Artisan
	if err := r.db.Where("email = ?", email).First(&artisan).Error; err != nil {
		return nil, err
	}
	return &artisan, nil
}

// GetByID gets an artisan by ID
func (r *ArtisanRepository) GetByID(id uuid.UUID) (*models.Artisan, error) {
	var artisan models.Artisan
	if err := r.db.Where("id = ?", id).First(&artisan).Error; err != nil {
		return nil, err
	}
	return &artisan, nil
}

// Create creates a new artisan
func (r *ArtisanRepository) Create(artisan *models.Artisan) error {
	return r.db.Create(artisan).Error
}

// Update updates an artisan
func (r *ArtisanRepository) Update(artisan *models.Artisan) error {
	return r.db.Save(artisan).Error
}
