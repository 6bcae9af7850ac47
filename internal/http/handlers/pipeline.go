package handlers

import (
	"context"
	"errors"
	"net/http"

	"artisania/internal/ai"
	"artisania/internal/enhance"
	"artisania/internal/imagedata"
	"artisania/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ListingDescriber generates listing copy from a product image.
// *ai.Describer satisfies it; tests substitute fakes.
type ListingDescriber interface {
	Describe(ctx context.Context, img imagedata.Payload, locale string) (ai.Listing, error)
}

// PipelineHandler handles the stateless onboarding pipeline endpoints
type PipelineHandler struct {
	enhancer  *enhance.Enhancer
	describer ListingDescriber
	publisher *services.PublishService
}

// NewPipelineHandler creates a new pipeline handler. describer may be nil
// when no generation provider is configured.
func NewPipelineHandler(enhancer *enhance.Enhancer, describer ListingDescriber, publisher *services.PublishService) *PipelineHandler {
	return &PipelineHandler{
		enhancer:  enhancer,
		describer: describer,
		publisher: publisher,
	}
}

type imageRequest struct {
	CroppedImageBase64 string `json:"croppedImageBase64"`
	Language           string `json:"language"`
}

// EnhanceImage runs background removal and normalization on a raw photo
func (h *PipelineHandler) EnhanceImage(c echo.Context) error {
	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request")
	}
	if req.CroppedImageBase64 == "" {
		return respondError(c, http.StatusBadRequest, "croppedImageBase64 is required")
	}

	src, err := imagedata.Decode(req.CroppedImageBase64)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "croppedImageBase64 is not a valid image payload")
	}

	result := h.enhancer.Enhance(c.Request().Context(), src)
	if result.UsedFallback {
		log.Debug().Msg("Enhancement fell back to original image")
	}

	return respondOK(c, http.StatusOK, envelope{
		"enhancedImageUrl": result.Image.DataURI(),
	})
}

// GenerateProductInfo produces listing copy from an enhanced image
func (h *PipelineHandler) GenerateProductInfo(c echo.Context) error {
	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request")
	}
	if req.CroppedImageBase64 == "" {
		return respondError(c, http.StatusBadRequest, "croppedImageBase64 is required")
	}

	img, err := imagedata.Decode(req.CroppedImageBase64)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "croppedImageBase64 is not a valid image payload")
	}

	if h.describer == nil {
		return respondError(c, http.StatusInternalServerError, "generation provider not configured")
	}

	listing, err := h.describer.Describe(c.Request().Context(), img, req.Language)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return respondError(c, http.StatusInternalServerError, "generation provider not configured")
		}
		log.Error().Err(err).Msg("Listing generation failed")
		return respondError(c, http.StatusInternalServerError, "Failed to generate product info")
	}

	return respondOK(c, http.StatusOK, envelope{
		"title":          listing.Title,
		"description":    listing.Description,
		"estimatedPrice": listing.EstimatedPrice,
	})
}

type publishRequest struct {
	Title        string          `json:"title"`
	Marketplaces map[string]bool `json:"marketplaces"`
}

// Publish accepts a fire-and-forget marketplace submission
func (h *PipelineHandler) Publish(c echo.Context) error {
	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request")
	}

	submitted := h.publisher.Submit(req.Title, req.Marketplaces)

	return respondOK(c, http.StatusOK, envelope{
		"submitted": submitted,
		"title":     req.Title,
	})
}
