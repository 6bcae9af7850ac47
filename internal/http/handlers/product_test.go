package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"artisania/internal/repo"
	"artisania/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type fakeProductStore struct {
	products map[uuid.UUID]*models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[uuid.UUID]*models.Product)}
}

func (s *fakeProductStore) GetByID(id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProductStore) Create(product *models.Product) error {
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *fakeProductStore) Update(product *models.Product) error {
	if _, ok := s.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	product.UpdatedAt = time.Now()
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *fakeProductStore) ListByArtisan(artisanID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.ArtisanID == artisanID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *fakeProductStore) Marketplace(q repo.MarketplaceQuery) (*models.PaginationResult[models.Product], error) {
	q = q.Normalize()
	var matched []models.Product
	for _, p := range s.products {
		if p.Status != models.StatusPublished {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
			continue
		}
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		matched = append(matched, *p)
	}
	if matched == nil {
		matched = []models.Product{}
	}
	total := int64(len(matched))

	start := (q.Page - 1) * q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return &models.PaginationResult[models.Product]{
		Data:       matched[start:end],
		Total:      total,
		Page:       q.Page,
		PerPage:    q.Limit,
		TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

func jsonRequest(t *testing.T, method, target, body string, artisanID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if artisanID != uuid.Nil {
		c.Set("artisan_id", artisanID.String())
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

func TestCreateProductDefaultsToDraft(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)
	owner := uuid.New()

	for _, status := range []string{"", "archived", "PUBLISHED"} {
		body := `{"title":"Clay Pot","description":"Hand thrown","price":250,"category":"pottery","status":"` + status + `"}`
		c, rec := jsonRequest(t, http.MethodPost, "/api/products", body, owner)
		if err := h.Create(c); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("status %q: got code %d, want 201", status, rec.Code)
		}
		product := decodeBody(t, rec)["product"].(map[string]interface{})
		if product["status"] != models.StatusDraft {
			t.Errorf("status %q: product status = %v, want draft", status, product["status"])
		}
	}
}

func TestCreateProductExplicitPublish(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)

	body := `{"title":"Shawl","description":"Woven wool","price":"1200.50","category":"textiles","status":"published"}`
	c, rec := jsonRequest(t, http.MethodPost, "/api/products", body, uuid.New())
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	product := decodeBody(t, rec)["product"].(map[string]interface{})
	if product["status"] != models.StatusPublished {
		t.Errorf("status = %v, want published", product["status"])
	}
	if product["price"].(float64) != 1200.50 {
		t.Errorf("price = %v, want 1200.50 parsed from string", product["price"])
	}
}

func TestCreateProductRejectsNonNumericPrice(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)

	body := `{"title":"Vase","description":"Ceramic","price":"priceless","category":"pottery"}`
	c, rec := jsonRequest(t, http.MethodPost, "/api/products", body, uuid.New())
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if decodeBody(t, rec)["ok"] != false {
		t.Error("expected ok:false envelope")
	}
	if len(store.products) != 0 {
		t.Error("store should be unchanged after rejected create")
	}
}

func TestCreateProductNormalizesImagesAndStock(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)

	body := `{"title":"Basket","description":"Woven cane","price":99,"category":"home","images":" a.jpg, , b.jpg ","stock":"not a number"}`
	c, rec := jsonRequest(t, http.MethodPost, "/api/products", body, uuid.New())
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201 (non-numeric stock coerces to 0)", rec.Code)
	}
	product := decodeBody(t, rec)["product"].(map[string]interface{})
	images := product["images"].([]interface{})
	if len(images) != 2 || images[0] != "a.jpg" || images[1] != "b.jpg" {
		t.Errorf("images = %v, want [a.jpg b.jpg]", images)
	}
	if product["stock"].(float64) != 0 {
		t.Errorf("stock = %v, want default 0", product["stock"])
	}
}

func TestCreateProductWithoutImagesIsEmptyArray(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)

	body := `{"title":"Bowl","description":"Glazed","price":150,"category":"pottery"}`
	c, rec := jsonRequest(t, http.MethodPost, "/api/products", body, uuid.New())
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201", rec.Code)
	}

	product := decodeBody(t, rec)["product"].(map[string]interface{})
	images, ok := product["images"].([]interface{})
	if !ok {
		t.Fatalf("images = %v, want an empty array rather than null", product["images"])
	}
	if len(images) != 0 {
		t.Errorf("images = %v, want empty", images)
	}
}

func TestUpdateProductOwnerOnly(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)
	owner := uuid.New()

	seed := &models.Product{ArtisanID: owner, Title: "Original", Description: "d", Price: 10, Category: "c", Status: models.StatusDraft}
	if err := store.Create(seed); err != nil {
		t.Fatal(err)
	}

	c, rec := jsonRequest(t, http.MethodPut, "/api/products/"+seed.ID.String(), `{"title":"Hijacked"}`, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(seed.ID.String())
	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
	if store.products[seed.ID].Title != "Original" {
		t.Error("non-owner update must not change the store")
	}
}

func TestUpdateProductUnknownID(t *testing.T) {
	h := NewProductHandler(newFakeProductStore(), nil)

	id := uuid.New().String()
	c, rec := jsonRequest(t, http.MethodPut, "/api/products/"+id, `{"title":"x"}`, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
}

func TestUpdateProductCoercesStatus(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)
	owner := uuid.New()

	seed := &models.Product{ArtisanID: owner, Title: "t", Description: "d", Price: 10, Category: "c", Status: models.StatusPublished}
	if err := store.Create(seed); err != nil {
		t.Fatal(err)
	}

	c, rec := jsonRequest(t, http.MethodPut, "/api/products/"+seed.ID.String(), `{"status":"retired"}`, owner)
	c.SetParamNames("id")
	c.SetParamValues(seed.ID.String())
	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if store.products[seed.ID].Status != models.StatusDraft {
		t.Errorf("status = %q, want draft after coercion", store.products[seed.ID].Status)
	}
}

func TestMarketplaceExcludesDrafts(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)
	owner := uuid.New()

	draft := &models.Product{ArtisanID: owner, Title: "Hidden Bowl", Description: "d", Price: 10, Category: "pottery", Status: models.StatusDraft}
	published := &models.Product{ArtisanID: owner, Title: "Visible Bowl", Description: "d", Price: 10, Category: "pottery", Status: models.StatusPublished}
	for _, p := range []*models.Product{draft, published} {
		if err := store.Create(p); err != nil {
			t.Fatal(err)
		}
	}

	c, rec := jsonRequest(t, http.MethodGet, "/api/marketplace?q=bowl", "", uuid.Nil)
	if err := h.Marketplace(c); err != nil {
		t.Fatalf("Marketplace returned error: %v", err)
	}

	body := decodeBody(t, rec)
	products := body["products"].([]interface{})
	if len(products) != 1 {
		t.Fatalf("got %d products, want only the published one", len(products))
	}
	if products[0].(map[string]interface{})["title"] != "Visible Bowl" {
		t.Errorf("unexpected product in marketplace: %v", products[0])
	}

	pagination := body["pagination"].(map[string]interface{})
	if pagination["page"].(float64) != 1 || pagination["limit"].(float64) != float64(repo.DefaultPageSize) {
		t.Errorf("pagination defaults wrong: %v", pagination)
	}
	if pagination["totalPages"].(float64) != 1 {
		t.Errorf("totalPages = %v, want 1", pagination["totalPages"])
	}
}

func TestMarketplacePageBeyondTotalPages(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)
	owner := uuid.New()

	for _, title := range []string{"Bowl One", "Bowl Two", "Bowl Three"} {
		p := &models.Product{ArtisanID: owner, Title: title, Description: "d", Price: 10, Category: "pottery", Status: models.StatusPublished}
		if err := store.Create(p); err != nil {
			t.Fatal(err)
		}
	}

	c, rec := jsonRequest(t, http.MethodGet, "/api/marketplace?limit=2&page=5", "", uuid.Nil)
	if err := h.Marketplace(c); err != nil {
		t.Fatalf("Marketplace returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["ok"] != true {
		t.Fatal("expected ok:true for a page past the end")
	}
	products, ok := body["products"].([]interface{})
	if !ok || len(products) != 0 {
		t.Errorf("products = %v, want empty list", body["products"])
	}

	pagination := body["pagination"].(map[string]interface{})
	if pagination["totalPages"].(float64) != 2 {
		t.Errorf("totalPages = %v, want 2 for 3 items at limit 2", pagination["totalPages"])
	}
	if pagination["total"].(float64) != 3 {
		t.Errorf("total = %v, want 3", pagination["total"])
	}
}

func TestMarketplaceClampsLimit(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)

	c, rec := jsonRequest(t, http.MethodGet, "/api/marketplace?limit=9999&page=-3", "", uuid.Nil)
	if err := h.Marketplace(c); err != nil {
		t.Fatalf("Marketplace returned error: %v", err)
	}

	pagination := decodeBody(t, rec)["pagination"].(map[string]interface{})
	if pagination["limit"].(float64) != float64(repo.MaxPageSize) {
		t.Errorf("limit = %v, want clamped to %d", pagination["limit"], repo.MaxPageSize)
	}
	if pagination["page"].(float64) != 1 {
		t.Errorf("page = %v, want clamped to 1", pagination["page"])
	}
}

func TestUploadImageWithoutStorage(t *testing.T) {
	store := newFakeProductStore()
	h := NewProductHandler(store, nil)
	owner := uuid.New()

	seed := &models.Product{ArtisanID: owner, Title: "t", Description: "d", Price: 1, Category: "c"}
	if err := store.Create(seed); err != nil {
		t.Fatal(err)
	}

	c, rec := jsonRequest(t, http.MethodPost, "/api/products/"+seed.ID.String()+"/upload-image", `{"image":"aGk="}`, owner)
	c.SetParamNames("id")
	c.SetParamValues(seed.ID.String())
	if err := h.UploadImage(c); err != nil {
		t.Fatalf("UploadImage returned error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503 when storage is not configured", rec.Code)
	}
}
