package auth

import (
	"errors"
	"os"
	"strings"
	"time"

	"artisania/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrAccountNotFound    = errors.New("account not found")
)

// ArtisanRepository interface for artisan data access
type ArtisanRepository interface {
	GetByEmail(email string) (*models.Artisan, error)
	GetByID(id uuid.UUID) (*models.Artisan, error)
	Create(artisan *models.Artisan) error
	Update(artisan *models.Artisan) error
}

// Service handles authentication logic
type Service struct {
	artisans ArtisanRepository
}

// NewService creates a new auth service
func NewService(artisans ArtisanRepository) *Service {
	return &Service{artisans: artisans}
}

// RegisterRequest represents registration request data
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// LoginRequest represents login request data
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	ArtisanID uuid.UUID `json:"artisan_id"`
	Email     string    `json:"email"`
	jwt.RegisteredClaims
}

// Register creates a new artisan account and returns it with a signed token.
func (s *Service) Register(req RegisterRequest) (string, *models.Artisan, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.artisans.GetByEmail(email); err == nil {
		return "", nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	artisan := &models.Artisan{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Location:     req.Location,
		Bio:          req.Bio,
	}
	if err := s.artisans.Create(artisan); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(artisan)
	if err != nil {
		return "", nil, err
	}
	return token, artisan, nil
}

// Login authenticates an artisan and returns a signed token.
func (s *Service) Login(req LoginRequest) (string, *models.Artisan, error) {
	artisan, err := s.artisans.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(artisan.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(artisan)
	if err != nil {
		return "", nil, err
	}
	return token, artisan, nil
}

// ValidateToken validates and parses a JWT token
func (s *Service) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GetAccount loads an artisan by ID.
func (s *Service) GetAccount(artisanID uuid.UUID) (*models.Artisan, error) {
	artisan, err := s.artisans.GetByID(artisanID)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	return artisan, nil
}

// UpdateProfile applies the editable account fields and persists the artisan.
func (s *Service) UpdateProfile(artisanID uuid.UUID, req models.UpdateProfileRequest) (*models.Artisan, error) {
	artisan, err := s.artisans.GetByID(artisanID)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	if req.Name != nil {
		artisan.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		artisan.Bio = *req.Bio
	}
	if req.Location != nil {
		artisan.Location = *req.Location
	}
	if req.Avatar != nil {
		artisan.Avatar = *req.Avatar
	}

	if err := s.artisans.Update(artisan); err != nil {
		return nil, err
	}
	return artisan, nil
}

// generateToken signs an access token bound to one artisan identity.
func (s *Service) generateToken(artisan *models.Artisan) (string, error) {
	duration, err := time.ParseDuration(getEnvOrDefault("JWT_TOKEN_DURATION", "168h"))
	if err != nil {
		duration = 168 * time.Hour
	}

	claims := TokenClaims{
		ArtisanID: artisan.ID,
		Email:     artisan.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "artisania",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// getEnvOrDefault gets an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
