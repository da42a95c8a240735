package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/store"
)

type fakeProductCatalog struct {
	created    *models.Product
	createID   primitive.ObjectID
	createErr  error
	updated    bson.M
	updateErr  error
	product    *models.Product
	listFilter *store.ListFilter
	items      []models.Product
	total      int64
	bulk       []models.Product
	summary    *store.BulkSummary
}

func (f *fakeProductCatalog) Create(_ context.Context, p models.Product) (primitive.ObjectID, error) {
	f.created = &p
	return f.createID, f.createErr
}

func (f *fakeProductCatalog) Update(_ context.Context, _ primitive.ObjectID, fields bson.M) (*models.Product, error) {
	f.updated = fields
	return f.product, f.updateErr
}

func (f *fakeProductCatalog) Delete(_ context.Context, _ primitive.ObjectID) error {
	return nil
}

func (f *fakeProductCatalog) List(_ context.Context, filter store.ListFilter) ([]models.Product, int64, error) {
	f.listFilter = &filter
	return f.items, f.total, nil
}

func (f *fakeProductCatalog) GetByIDOrSlug(_ context.Context, _ string) (*models.Product, error) {
	if f.product == nil {
		return nil, store.ErrNotFound
	}
	return f.product, nil
}

func (f *fakeProductCatalog) BulkUpsert(_ context.Context, products []models.Product) (*store.BulkSummary, error) {
	f.bulk = products
	return f.summary, nil
}

func TestCreateProduct_DerivesSlugAndThumbnail(t *testing.T) {
	fake := &fakeProductCatalog{createID: primitive.NewObjectID()}
	pc := NewProductController(fake, testLogger())

	body := []byte(`{"name": "Fresh Apples", "price": 3.5, "images": ["a.jpg", "b.jpg"]}`)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	pc.CreateProduct(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, fake.created)
	assert.Equal(t, "fresh-apples", fake.created.Slug)
	assert.Equal(t, "a.jpg", fake.created.Thumbnail)
	assert.True(t, fake.created.IsActive)
}

func TestCreateProduct_MissingPrice(t *testing.T) {
	fake := &fakeProductCatalog{}
	pc := NewProductController(fake, testLogger())

	body := []byte(`{"name": "Fresh Apples"}`)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	pc.CreateProduct(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, fake.created)
}

func TestCreateProduct_DuplicateSlug(t *testing.T) {
	fake := &fakeProductCatalog{createErr: store.ErrDuplicateSlug}
	pc := NewProductController(fake, testLogger())

	body := []byte(`{"name": "Fresh Apples", "price": 3.5}`)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	pc.CreateProduct(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUpdateProduct_ReslugsOnRename(t *testing.T) {
	fake := &fakeProductCatalog{product: &models.Product{}}
	pc := NewProductController(fake, testLogger())

	id := primitive.NewObjectID()
	body := []byte(`{"name": "Green Apples"}`)
	req := httptest.NewRequest("PATCH", "/api/products/"+id.Hex(), bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": id.Hex()})
	rr := httptest.NewRecorder()

	pc.UpdateProduct(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Green Apples", fake.updated["name"])
	assert.Equal(t, "green-apples", fake.updated["slug"])
}

func TestListProducts_ParsesQuery(t *testing.T) {
	fake := &fakeProductCatalog{items: []models.Product{}, total: 25}
	pc := NewProductController(fake, testLogger())

	req := httptest.NewRequest("GET", "/api/products?q=apple&sort=price_asc&page=2&limit=10&minPrice=1&maxPrice=5", nil)
	rr := httptest.NewRecorder()

	pc.ListProducts(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, fake.listFilter)
	assert.Equal(t, "apple", fake.listFilter.Query)
	assert.Equal(t, "price_asc", fake.listFilter.Sort)
	assert.Equal(t, 2, fake.listFilter.Page)
	assert.Equal(t, 10, fake.listFilter.Limit)
	require.NotNil(t, fake.listFilter.MinPrice)
	assert.Equal(t, 1.0, *fake.listFilter.MinPrice)
	assert.True(t, fake.listFilter.OnlyActive)

	var resp struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Pages int64 `json:"pages"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, int64(25), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, int64(3), resp.Pages)
}

func TestBulkUpsertProducts(t *testing.T) {
	fake := &fakeProductCatalog{summary: &store.BulkSummary{Upserted: 2}}
	pc := NewProductController(fake, testLogger())

	body := []byte(`{"items": [
		{"name": "Fresh Apples", "price": 3.5, "images": "a.jpg, b.jpg"},
		{"name": "  ", "price": 1},
		{"name": "Ripe Bananas", "price": 2, "slug": "bananas"}
	]}`)
	req := httptest.NewRequest("POST", "/api/products/bulk", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	pc.BulkUpsertProducts(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// the blank-named row is skipped, not fatal
	require.Len(t, fake.bulk, 2)
	assert.Equal(t, "fresh-apples", fake.bulk[0].Slug)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, fake.bulk[0].Images)
	assert.Equal(t, "a.jpg", fake.bulk[0].Thumbnail)
	assert.Equal(t, "bananas", fake.bulk[1].Slug)
}

func TestBulkUpsertProducts_NothingValid(t *testing.T) {
	fake := &fakeProductCatalog{}
	pc := NewProductController(fake, testLogger())

	body := []byte(`{"items": [{"name": "", "price": 1}]}`)
	req := httptest.NewRequest("POST", "/api/products/bulk", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	pc.BulkUpsertProducts(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, fake.bulk)
}
