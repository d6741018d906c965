package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adriarent/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCategoryRepo struct {
	collection *mongo.Collection
}

func NewMongoCategoryRepo(db *mongo.Database) *MongoCategoryRepo {
	return &MongoCategoryRepo{collection: db.Collection("categories")}
}

func (r *MongoCategoryRepo) EnsureIndexes(ctx context.Context) error {
	const op = "repository.MongoCategoryRepo.EnsureIndexes"

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *MongoCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	const op = "repository.MongoCategoryRepo.Create"

	category.ID = primitive.NewObjectID().Hex()
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *MongoCategoryRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	const op = "repository.MongoCategoryRepo.Update"

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

func (r *MongoCategoryRepo) Delete(ctx context.Context, id string) error {
	const op = "repository.MongoCategoryRepo.Delete"

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

func (r *MongoCategoryRepo) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoCategoryRepo) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	const op = "repository.MongoCategoryRepo.findOne"

	var category models.Category
	err := r.collection.FindOne(ctx, filter).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &category, nil
}

func (r *MongoCategoryRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "repository.MongoCategoryRepo.SlugExists"

	n, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

func (r *MongoCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	const op = "repository.MongoCategoryRepo.List"

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}
