package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

const collectionSweets = "sweets"

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

type SweetRepository struct {
	col *mongo.Collection
}

func NewSweetRepository(db *mongo.Database) *SweetRepository {
	return &SweetRepository{col: db.Collection(collectionSweets)}
}

func (r *SweetRepository) List(ctx context.Context) ([]domain.Sweet, error) {
	return r.find(ctx, bson.M{})
}

func (r *SweetRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]domain.Sweet, error) {
	return r.find(ctx, buildSearchFilter(filter))
}

func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Sweet
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, notFound(err, "find sweet")
	}
	return &s, nil
}

func (r *SweetRepository) Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return nil, fmt.Errorf("insert sweet: %w", err)
	}
	out := *s
	return &out, nil
}

func (r *SweetRepository) CreateIfAbsent(ctx context.Context, s *domain.Sweet) (bool, error) {
	if _, err := r.Create(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *SweetRepository) Update(ctx context.Context, id string, patch ports.UpdateSweetInput) (*domain.Sweet, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": buildSetDocument(patch, time.Now().UTC())}, "update sweet")
}

func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Decrement matches only documents holding at least k units, so the check
// and the $inc are a single atomic document update.
func (r *SweetRepository) Decrement(ctx context.Context, id string, k int) (*domain.Sweet, error) {
	filter := stockGuard(id, "$gte", k)
	update := bson.M{
		"$inc": bson.M{"quantity": -k},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	s, err := r.findAndUpdate(ctx, filter, update, "purchase")
	if !errors.Is(err, domain.ErrNotFound) {
		return s, err
	}
	return nil, r.missOr(ctx, id, domain.ErrInsufficientStock, "purchase")
}

// Increment only matches documents with room for k more units, keeping
// quantity at or below domain.MaxQuantity.
func (r *SweetRepository) Increment(ctx context.Context, id string, k int) (*domain.Sweet, error) {
	filter := stockGuard(id, "$lte", domain.MaxQuantity-k)
	update := bson.M{
		"$inc": bson.M{"quantity": k},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	s, err := r.findAndUpdate(ctx, filter, update, "restock")
	if !errors.Is(err, domain.ErrNotFound) {
		return s, err
	}
	return nil, r.missOr(ctx, id, domain.ErrStockLimit, "restock")
}

// stockGuard matches the sweet only while its quantity satisfies op against bound.
func stockGuard(id, op string, bound int) bson.M {
	return bson.M{"_id": id, "quantity": bson.M{op: bound}}
}

// missOr tells a missing document apart from one the guard filtered out.
func (r *SweetRepository) missOr(ctx context.Context, id string, guard error, op string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return guard
}

// EnsureIndexes creates the indexes the sweet and user queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	_, err = db.Collection(collectionSweets).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: newestFirst},
	})
	if err != nil {
		return fmt.Errorf("sweet indexes: %w", err)
	}
	return nil
}

func (r *SweetRepository) find(ctx context.Context, filter bson.M) ([]domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find sweets: %w", err)
	}
	sweets := make([]domain.Sweet, 0)
	if err := cur.All(ctx, &sweets); err != nil {
		return nil, fmt.Errorf("decode sweets: %w", err)
	}
	return sweets, nil
}

func (r *SweetRepository) findAndUpdate(ctx context.Context, filter, update bson.M, op string) (*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Sweet
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&s); err != nil {
		return nil, notFound(err, op)
	}
	return &s, nil
}

func buildSearchFilter(f ports.SearchFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Name), "$options": "i"}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

func buildSetDocument(p ports.UpdateSweetInput, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Quantity != nil {
		set["quantity"] = *p.Quantity
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.ImageURL != nil {
		set["image_url"] = *p.ImageURL
	}
	return set
}

func notFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
