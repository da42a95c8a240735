package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

// ErrDuplicateSlug is returned when a product write collides with an existing
// slug.
var ErrDuplicateSlug = errors.New("duplicate product slug")

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify turns a product name into a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugCollapse.ReplaceAllString(s, "-")
}

// ProductStore persists catalog entries.
type ProductStore struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// NewProductStore creates a ProductStore backed by the given database.
func NewProductStore(db *mongo.Database, log *slog.Logger) *ProductStore {
	return &ProductStore{coll: db.Collection(productsCollection), log: log}
}

// Create inserts a new product. Returns ErrDuplicateSlug when the slug is
// already taken.
func (s *ProductStore) Create(ctx context.Context, p models.Product) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicateSlug
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert product: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// Update applies the given field changes and returns the updated product.
func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	fields["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Product
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &p, nil
}

// Delete removes a product. Returns ErrNotFound when no product matches.
func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter captures the public catalog query parameters.
type ListFilter struct {
	Query      string
	Category   string
	Brand      string
	MinPrice   *float64
	MaxPrice   *float64
	Sort       string // new | price_asc | price_desc | name_asc
	Page       int
	Limit      int
	OnlyActive bool
}

const maxPageSize = 60

// List returns one page of matching products plus the total match count.
func (s *ProductStore) List(ctx context.Context, f ListFilter) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if f.OnlyActive {
		filter["isActive"] = true
	}
	if f.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"brand": re},
			bson.M{"category": re},
		}
	}
	if f.Category != "" {
		filter["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Category) + "$", Options: "i"}
	}
	if f.Brand != "" {
		filter["brand"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Brand) + "$", Options: "i"}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}

	sorts := map[string]bson.D{
		"new":        {{Key: "createdAt", Value: -1}},
		"price_asc":  {{Key: "price", Value: 1}},
		"price_desc": {{Key: "price", Value: -1}},
		"name_asc":   {{Key: "name", Value: 1}},
	}
	sort, ok := sorts[f.Sort]
	if !ok {
		sort = sorts["new"]
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 12
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

// GetByIDOrSlug resolves a product by slug first, then by hex id.
func (s *ProductStore) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := s.coll.FindOne(ctx, bson.M{"slug": idOrSlug}).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}

	id, idErr := primitive.ObjectIDFromHex(idOrSlug)
	if idErr != nil {
		return nil, ErrNotFound
	}
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return &p, nil
}

// BulkSummary reports the outcome of a bulk upsert.
type BulkSummary struct {
	Upserted int64 `json:"upserted"`
	Modified int64 `json:"modified"`
	Matched  int64 `json:"matched"`
}

// BulkUpsert upserts products by slug in a single unordered bulk write,
// used by the CSV import.
func (s *ProductStore) BulkUpsert(ctx context.Context, products []models.Product) (*BulkSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	ops := make([]mongo.WriteModel, 0, len(products))
	for _, p := range products {
		set := bson.M{
			"name":        p.Name,
			"slug":        p.Slug,
			"price":       p.Price,
			"stock":       p.Stock,
			"description": p.Description,
			"images":      p.Images,
			"thumbnail":   p.Thumbnail,
			"category":    p.Category,
			"brand":       p.Brand,
			"isActive":    p.IsActive,
			"createdBy":   p.CreatedBy,
			"updatedAt":   now,
		}
		ops = append(ops, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"slug": p.Slug}).
			SetUpdate(bson.M{"$set": set, "$setOnInsert": bson.M{"createdAt": now}}).
			SetUpsert(true))
	}

	res, err := s.coll.BulkWrite(ctx, ops, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return nil, fmt.Errorf("bulk upsert products: %w", err)
	}
	return &BulkSummary{
		Upserted: res.UpsertedCount,
		Modified: res.ModifiedCount,
		Matched:  res.MatchedCount,
	}, nil
}
