package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/store"
)

// ProductCatalog is the persistence surface the catalog endpoints need.
type ProductCatalog interface {
	Create(ctx context.Context, p models.Product) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f store.ListFilter) ([]models.Product, int64, error)
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Product, error)
	BulkUpsert(ctx context.Context, products []models.Product) (*store.BulkSummary, error)
}

// ProductController handles the public catalog and the admin product CRUD.
type ProductController struct {
	store ProductCatalog
	log   *slog.Logger
}

// NewProductController creates a new ProductController.
func NewProductController(store ProductCatalog, log *slog.Logger) *ProductController {
	return &ProductController{store: store, log: log}
}

type createProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Thumbnail   string   `json:"thumbnail"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Slug        string   `json:"slug"`
}

// CreateProduct adds a catalog entry. Admin only.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name and price are required")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = store.Slugify(req.Name)
	}
	thumbnail := req.Thumbnail
	if thumbnail == "" && len(req.Images) > 0 {
		thumbnail = req.Images[0]
	}

	createdBy := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		createdBy = claims.ID
	}

	product := models.Product{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
		Thumbnail:   thumbnail,
		Category:    req.Category,
		Brand:       req.Brand,
		IsActive:    true,
		CreatedBy:   createdBy,
	}

	id, err := pc.store.Create(r.Context(), product)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeError(w, http.StatusConflict, "Duplicate slug")
			return
		}
		pc.log.Error("failed to create product", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	product.ID = id
	writeJSON(w, http.StatusCreated, response{"success": true, "product": product})
}

type updateProductRequest struct {
	Name        *string   `json:"name"`
	Slug        *string   `json:"slug"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Stock       *int      `json:"stock"`
	Images      *[]string `json:"images"`
	Thumbnail   *string   `json:"thumbnail"`
	Category    *string   `json:"category"`
	Brand       *string   `json:"brand"`
	IsActive    *bool     `json:"isActive"`
}

// UpdateProduct patches the given fields. Renaming without an explicit slug
// re-derives the slug from the new name. Admin only.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
		if req.Slug == nil {
			fields["slug"] = store.Slugify(*req.Name)
		}
	}
	if req.Slug != nil {
		fields["slug"] = *req.Slug
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.Images != nil {
		fields["images"] = *req.Images
	}
	if req.Thumbnail != nil {
		fields["thumbnail"] = *req.Thumbnail
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	product, err := pc.store.Update(r.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, store.ErrDuplicateSlug):
			writeError(w, http.StatusConflict, "Duplicate slug")
		default:
			pc.log.Error("failed to update product", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "product": product})
}

// DeleteProduct removes a catalog entry. Admin only.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := pc.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		pc.log.Error("failed to delete product", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "message": "Product deleted"})
}

// ListProducts serves the public catalog with search, filters, sorting and
// pagination.
func (pc *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ListFilter{
		Query:      q.Get("q"),
		Category:   q.Get("category"),
		Brand:      q.Get("brand"),
		Sort:       q.Get("sort"),
		OnlyActive: q.Get("onlyActive") != "0",
	}
	if v := q.Get("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if filter.Limit == 0 {
		filter.Limit = 12
	}

	items, total, err := pc.store.List(r.Context(), filter)
	if err != nil {
		pc.log.Error("failed to list products", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 12
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	page := filter.Page
	if page < 1 {
		page = 1
	}

	writeJSON(w, http.StatusOK, response{
		"success": true,
		"items":   items,
		"total":   total,
		"page":    page,
		"pages":   pages,
	})
}

// GetProduct resolves a single product by slug or hex id.
func (pc *ProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := pc.store.GetByIDOrSlug(r.Context(), mux.Vars(r)["idOrSlug"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		pc.log.Error("failed to load product", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "product": product})
}

// stringList accepts either a JSON array of strings or a single
// comma-separated string, which is what the CSV importer submits.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

type bulkProductItem struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	Description string     `json:"description"`
	Images      stringList `json:"images"`
	Thumbnail   string     `json:"thumbnail"`
	Category    string     `json:"category"`
	Brand       string     `json:"brand"`
	IsActive    *bool      `json:"isActive"`
}

// BulkUpsertProducts imports CSV rows, upserting by slug. Rows without a name
// are skipped rather than failing the whole import. Admin only.
func (pc *ProductController) BulkUpsertProducts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []bulkProductItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "No items to import")
		return
	}

	createdBy := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		createdBy = claims.ID
	}

	products := make([]models.Product, 0, len(req.Items))
	for _, item := range req.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Price < 0 {
			continue
		}
		slug := strings.TrimSpace(item.Slug)
		if slug == "" {
			slug = store.Slugify(name)
		}
		thumbnail := item.Thumbnail
		if thumbnail == "" && len(item.Images) > 0 {
			thumbnail = item.Images[0]
		}
		isActive := true
		if item.IsActive != nil {
			isActive = *item.IsActive
		}
		products = append(products, models.Product{
			Name:        name,
			Slug:        slug,
			Description: item.Description,
			Price:       item.Price,
			Stock:       item.Stock,
			Images:      item.Images,
			Thumbnail:   thumbnail,
			Category:    item.Category,
			Brand:       item.Brand,
			IsActive:    isActive,
			CreatedBy:   createdBy,
		})
	}
	if len(products) == 0 {
		writeError(w, http.StatusBadRequest, "Nothing valid to import")
		return
	}

	summary, err := pc.store.BulkUpsert(r.Context(), products)
	if err != nil {
		pc.log.Error("failed to bulk upsert products", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, response{"success": true, "summary": summary})
}
