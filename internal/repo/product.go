package repo

import (
	"artisania/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Marketplace query bounds
const (
	DefaultPageSize = 12
	MaxPageSize     = 48
)

// MarketplaceQuery represents the public marketplace filter set. Only
// published products are ever considered, regardless of filters.
type MarketplaceQuery struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Limit    int
}

// Normalize clamps pagination and defaults the sort key.
func (q MarketplaceQuery) Normalize() MarketplaceQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if _, ok := marketplaceOrder[q.Sort]; !ok {
		q.Sort = "newest"
	}
	return q
}

var marketplaceOrder = map[string]string{
	"newest":     "created_at DESC",
	"price_asc":  "price ASC",
	"price_desc": "price DESC",
}

// ProductRepository handles product data access
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create creates a new product
func (r *ProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return err
	}
	return r.db.Preload("Artisan").First(product, "id = ?", product.ID).Error
}

// Update updates a product
func (r *ProductRepository) Update(product *models.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		return err
	}
	return r.db.Preload("Artisan").First(product, "id = ?", product.ID).Error
}

// ListByArtisan returns all products owned by the artisan, newest-updated first
func (r *ProductRepository) ListByArtisan(artisanID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("artisan_id = ?", artisanID).
		Order("updated_at DESC").
		Preload("Artisan").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Marketplace runs the public query: published products only, optional title
// substring and category filters, paginated.
func (r *ProductRepository) Marketplace(q MarketplaceQuery) (*models.PaginationResult[models.Product], error) {
	q = q.Normalize()

	query := r.db.Model(&models.Product{}).Where("status = ?", models.StatusPublished)
	if q.Search != "" {
		query = query.Where("title ILIKE ?", "%"+q.Search+"%")
	}
	if q.Category != "" && q.Category != "all" {
		query = query.Where("category = ?", q.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []models.Product
	err := query.Order(marketplaceOrder[q.Sort]).
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Preload("Artisan").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}

	return &models.PaginationResult[models.Product]{
		Data:       products,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.Limit,
		TotalPages: totalPages(total, q.Limit),
	}, nil
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
