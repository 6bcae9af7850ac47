package app

import (
	"os"

	"artisania/internal/ai"
	"artisania/internal/auth"
	"artisania/internal/enhance"
	"artisania/internal/repo"
	"artisania/internal/services"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB             *gorm.DB
	AuthService    *auth.Service
	ArtisanRepo    *repo.ArtisanRepository
	ProductRepo    *repo.ProductRepository
	Enhancer       *enhance.Enhancer
	Describer      *ai.Describer
	StorageService *services.StorageService
	PublishService *services.PublishService
}

// NewServices creates a new services container
func NewServices(db *gorm.DB) *Services {
	artisanRepo := repo.NewArtisanRepository(db)
	productRepo := repo.NewProductRepository(db)

	authService := auth.NewService(artisanRepo)

	// Background removal is optional; without a key the enhancer still runs
	// the normalization step over the original image.
	var remover enhance.BackgroundRemover
	if key := os.Getenv("REMOVE_BG_KEY"); key != "" {
		remover = enhance.NewRemoveBGClient(key, os.Getenv("REMOVE_BG_ENDPOINT"))
		log.Info().Msg("Background removal provider configured")
	} else {
		log.Warn().Msg("REMOVE_BG_KEY not set, image enhancement will skip background removal")
	}
	enhancer := enhance.NewEnhancer(remover)

	describer := ai.NewDescriber(os.Getenv("OPENAI_API_KEY"))
	if describer == nil {
		log.Warn().Msg("OPENAI_API_KEY not set, product info generation is disabled")
	}

	storageService, err := services.NewStorageService()
	if err != nil {
		log.Warn().Err(err).Msg("Storage service not available, image uploads are disabled")
		storageService = nil
	}

	return &Services{
		DB:             db,
		AuthService:    authService,
		ArtisanRepo:    artisanRepo,
		ProductRepo:    productRepo,
		Enhancer:       enhancer,
		Describer:      describer,
		StorageService: storageService,
		PublishService: services.NewPublishService(),
	}
}
