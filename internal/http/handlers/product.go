package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"artisania/internal/imagedata"
	"artisania/internal/repo"
	"artisania/internal/services"
	"artisania/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductStore is the persistence surface the product handlers need.
// *repo.ProductRepository satisfies it in production.
type ProductStore interface {
	GetByID(id uuid.UUID) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	ListByArtisan(artisanID uuid.UUID) ([]models.Product, error)
	Marketplace(q repo.MarketplaceQuery) (*models.PaginationResult[models.Product], error)
}

// ImageUploader stores product images and returns their public URLs.
type ImageUploader interface {
	UploadProductImage(artisanID, productID string, data []byte, contentType string) (string, error)
}

// ProductHandler handles product and marketplace endpoints
type ProductHandler struct {
	store    ProductStore
	uploader ImageUploader
}

// NewProductHandler creates a new product handler. uploader may be nil when
// object storage is not configured.
func NewProductHandler(store ProductStore, uploader ImageUploader) *ProductHandler {
	return &ProductHandler{store: store, uploader: uploader}
}

// FlexNumber accepts a JSON number or a numeric string.
type FlexNumber struct {
	Value float64
	Set   bool
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	n.Value = v
	n.Set = true
	return nil
}

// LaxNumber is a FlexNumber that absorbs garbage: anything non-numeric
// counts as zero instead of failing the request. Used for stock.
type LaxNumber struct {
	Value float64
	Set   bool
}

func (n *LaxNumber) UnmarshalJSON(data []byte) error {
	var inner FlexNumber
	if err := inner.UnmarshalJSON(data); err != nil {
		n.Value = 0
		n.Set = true
		return nil
	}
	n.Value = inner.Value
	n.Set = inner.Set
	return nil
}

// FlexStrings accepts a JSON string array or a comma-separated string.
// Blank entries are dropped either way.
type FlexStrings struct {
	Values []string
	Set    bool
}

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	var raw []string
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		var csv string
		if err := json.Unmarshal(data, &csv); err != nil {
			return err
		}
		raw = strings.Split(csv, ",")
	}

	f.Set = true
	f.Values = make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			f.Values = append(f.Values, v)
		}
	}
	return nil
}

// productPayload is the mutable field set shared by create and update.
type productPayload struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Price       FlexNumber  `json:"price"`
	Images      FlexStrings `json:"images"`
	Category    *string     `json:"category"`
	Stock       LaxNumber   `json:"stock"`
	Status      *string     `json:"status"`
}

// coerceStatus maps anything that is not exactly "published" to draft.
func coerceStatus(s string) string {
	if s == models.StatusPublished {
		return models.StatusPublished
	}
	return models.StatusDraft
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// Create creates a product owned by the authenticated artisan
func (h *ProductHandler) Create(c echo.Context) error {
	artisanID, ok := artisanIDFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "Invalid token")
	}

	var req productPayload
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	title := trimmed(req.Title)
	description := trimmed(req.Description)
	category := trimmed(req.Category)
	if title == "" || description == "" || category == "" || !req.Price.Set {
		return respondError(c, http.StatusBadRequest, "title, description, price and category are required")
	}
	if req.Price.Value < 0 {
		return respondError(c, http.StatusBadRequest, "price must be non-negative")
	}

	stock := 0
	if req.Stock.Set && req.Stock.Value > 0 {
		stock = int(req.Stock.Value)
	}

	images := req.Images.Values
	if images == nil {
		images = []string{}
	}

	product := &models.Product{
		ArtisanID:   artisanID,
		Title:       title,
		Description: description,
		Price:       req.Price.Value,
		Images:      images,
		Category:    category,
		Stock:       stock,
		Status:      coerceStatus(trimmed(req.Status)),
	}

	if err := h.store.Create(product); err != nil {
		log.Error().Err(err).Msg("Failed to create product")
		return respondError(c, http.StatusInternalServerError, "Failed to create product")
	}

	return respondOK(c, http.StatusCreated, envelope{"product": product})
}

// Update mutates a product; only the owner may do so
func (h *ProductHandler) Update(c echo.Context) error {
	artisanID, ok := artisanIDFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "Invalid token")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Product not found")
	}

	var req productPayload
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	product, err := h.store.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		log.Error().Err(err).Msg("Failed to load product")
		return respondError(c, http.StatusInternalServerError, "Failed to load product")
	}

	if product.ArtisanID != artisanID {
		return respondError(c, http.StatusForbidden, "You do not own this product")
	}

	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price.Set {
		if req.Price.Value < 0 {
			return respondError(c, http.StatusBadRequest, "price must be non-negative")
		}
		product.Price = req.Price.Value
	}
	if req.Images.Set {
		product.Images = req.Images.Values
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.Stock.Set {
		stock := 0
		if req.Stock.Value > 0 {
			stock = int(req.Stock.Value)
		}
		product.Stock = stock
	}
	if req.Status != nil {
		product.Status = coerceStatus(strings.TrimSpace(*req.Status))
	}

	if err := h.store.Update(product); err != nil {
		log.Error().Err(err).Msg("Failed to update product")
		return respondError(c, http.StatusInternalServerError, "Failed to update product")
	}

	return respondOK(c, http.StatusOK, envelope{"product": product})
}

// ListMine returns the authenticated artisan's products, newest-updated first
func (h *ProductHandler) ListMine(c echo.Context) error {
	artisanID, ok := artisanIDFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "Invalid token")
	}

	products, err := h.store.ListByArtisan(artisanID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		return respondError(c, http.StatusInternalServerError, "Failed to list products")
	}
	if products == nil {
		products = []models.Product{}
	}

	return respondOK(c, http.StatusOK, envelope{"products": products})
}

// Marketplace runs the public catalog query
func (h *ProductHandler) Marketplace(c echo.Context) error {
	q := repo.MarketplaceQuery{
		Search:   strings.TrimSpace(c.QueryParam("q")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Sort:     c.QueryParam("sort"),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		q.Limit = limit
	}
	q = q.Normalize()

	result, err := h.store.Marketplace(q)
	if err != nil {
		log.Error().Err(err).Msg("Marketplace query failed")
		return respondError(c, http.StatusInternalServerError, "Failed to query marketplace")
	}

	return respondOK(c, http.StatusOK, envelope{
		"products": result.Data,
		"pagination": envelope{
			"page":       result.Page,
			"limit":      result.PerPage,
			"total":      result.Total,
			"totalPages": result.TotalPages,
		},
	})
}

// UploadImage stores one image for a product and appends its public URL
func (h *ProductHandler) UploadImage(c echo.Context) error {
	artisanID, ok := artisanIDFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "Invalid token")
	}

	if h.uploader == nil {
		return respondError(c, http.StatusServiceUnavailable, "storage not configured")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Product not found")
	}

	product, err := h.store.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		return respondError(c, http.StatusInternalServerError, "Failed to load product")
	}
	if product.ArtisanID != artisanID {
		return respondError(c, http.StatusForbidden, "You do not own this product")
	}

	payload, err := h.readUploadPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	url, err := h.uploader.UploadProductImage(artisanID.String(), productID.String(), payload.Data, payload.MIME)
	if err != nil {
		log.Error().Err(err).Msg("Image upload failed")
		return respondError(c, http.StatusInternalServerError, "Failed to store image")
	}

	product.Images = append(product.Images, url)
	if err := h.store.Update(product); err != nil {
		log.Error().Err(err).Msg("Failed to attach image to product")
		return respondError(c, http.StatusInternalServerError, "Failed to update product")
	}

	return respondOK(c, http.StatusOK, envelope{
		"imageUrl": url,
		"product":  product,
	})
}

// readUploadPayload accepts either a multipart "image" file or a JSON body
// with a base64 image field.
func (h *ProductHandler) readUploadPayload(c echo.Context) (imagedata.Payload, error) {
	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return imagedata.Payload{}, fmt.Errorf("failed to open uploaded file")
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			return imagedata.Payload{}, fmt.Errorf("failed to read uploaded file")
		}
		return imagedata.Payload{Data: data, MIME: imagedata.SniffMIME(data)}, nil
	}

	var req struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil || req.Image == "" {
		return imagedata.Payload{}, fmt.Errorf("image is required")
	}
	return imagedata.Decode(req.Image)
}

var _ ImageUploader = (*services.StorageService)(nil)
