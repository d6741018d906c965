package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"adriarent/internal/catalog"
	"adriarent/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoListingRepo struct {
	collection *mongo.Collection
}

func NewMongoListingRepo(db *mongo.Database) *MongoListingRepo {
	return &MongoListingRepo{collection: db.Collection("listings")}
}

// EnsureIndexes creates the unique slug index and the free-text index the
// predicate translation relies on.
func (r *MongoListingRepo) EnsureIndexes(ctx context.Context) error {
	const op = "repository.MongoListingRepo.EnsureIndexes"

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *MongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	const op = "repository.MongoListingRepo.Create"

	listing.ID = primitive.NewObjectID().Hex()
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *MongoListingRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	const op = "repository.MongoListingRepo.Update"

	updates["updatedAt"] = time.Now()

	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

func (r *MongoListingRepo) Delete(ctx context.Context, id string) error {
	const op = "repository.MongoListingRepo.Delete"

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

func (r *MongoListingRepo) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoListingRepo) FindBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoListingRepo) findOne(ctx context.Context, filter bson.M) (*models.Listing, error) {
	const op = "repository.MongoListingRepo.findOne"

	var listing models.Listing
	err := r.collection.FindOne(ctx, filter).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &listing, nil
}

func (r *MongoListingRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "repository.MongoListingRepo.SlugExists"

	n, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// List runs the predicate as a filtered, sorted, paginated find plus a count
// of the full match set.
func (r *MongoListingRepo) List(ctx context.Context, p catalog.Predicate, sort []catalog.SortKey, page catalog.Pagination) ([]models.Listing, int64, error) {
	const op = "repository.MongoListingRepo.List"

	filter := buildListingFilter(p)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	opts := options.Find().
		SetSort(buildSort(sort)).
		SetSkip(int64(page.Skip)).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	listings := make([]models.Listing, 0, page.Limit)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return listings, total, nil
}

// StatusStats groups listings by status, summing the view and favorite
// counters per group. An empty ownerID computes the global stats.
func (r *MongoListingRepo) StatusStats(ctx context.Context, ownerID string) ([]catalog.StatusBucket, error) {
	const op = "repository.MongoListingRepo.StatusStats"

	match := bson.M{}
	if ownerID != "" {
		match["ownerId"] = ownerID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$status",
			"count":     bson.M{"$sum": 1},
			"views":     bson.M{"$sum": "$views"},
			"favorites": bson.M{"$sum": "$favorites"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var buckets []catalog.StatusBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buckets, nil
}

func (r *MongoListingRepo) CountByStatus(ctx context.Context, status models.ListingStatus) (int64, error) {
	const op = "repository.MongoListingRepo.CountByStatus"

	n, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r *MongoListingRepo) IncrementViews(ctx context.Context, id string) error {
	const op = "repository.MongoListingRepo.IncrementViews"

	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *MongoListingRepo) IncrementFavorites(ctx context.Context, id string, delta int) error {
	const op = "repository.MongoListingRepo.IncrementFavorites"

	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"favorites": delta}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// buildListingFilter translates the storage-agnostic predicate into a Mongo
// filter document. A MatchNone predicate produces a filter no document can
// satisfy, so an unknown category slug returns an empty page instead of
// quietly dropping the facet.
func buildListingFilter(p catalog.Predicate) bson.M {
	if p.MatchNone {
		return bson.M{"_id": bson.M{"$in": bson.A{}}}
	}

	filter := bson.M{}

	if p.FreeText != "" {
		filter["$text"] = bson.M{"$search": p.FreeText}
	}
	if p.CategoryID != "" {
		filter["categoryId"] = p.CategoryID
	}
	if p.City != "" {
		filter["location.city"] = primitive.Regex{Pattern: regexp.QuoteMeta(p.City), Options: "i"}
	}
	if p.PriceMin != nil || p.PriceMax != nil {
		price := bson.M{}
		if p.PriceMin != nil {
			price["$gte"] = *p.PriceMin
		}
		if p.PriceMax != nil {
			price["$lte"] = *p.PriceMax
		}
		filter["price"] = price
	}
	if len(p.OptionsAll) > 0 {
		filter["options"] = bson.M{"$all": p.OptionsAll}
	}
	switch len(p.StatusSet) {
	case 0:
	case 1:
		filter["status"] = p.StatusSet[0]
	default:
		filter["status"] = bson.M{"$in": p.StatusSet}
	}
	if p.OwnerID != "" {
		filter["ownerId"] = p.OwnerID
	}
	if p.Featured != nil {
		filter["isFeatured"] = *p.Featured
	}

	return filter
}

func buildSort(keys []catalog.SortKey) bson.D {
	sort := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: k.Field, Value: dir})
	}
	return sort
}
