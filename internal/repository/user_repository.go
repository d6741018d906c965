package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adriarent/internal/domain/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepo struct {
	collection *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{collection: db.Collection("users")}
}

func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	const op = "repository.MongoUserRepo.EnsureIndexes"

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *MongoUserRepo) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	const op = "repository.MongoUserRepo.SaveUser"

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.RegisteredAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, models.ErrUserExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.ID, nil
}

func (r *MongoUserRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	const op = "repository.MongoUserRepo.findOne"

	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// AddFavorite records the listing in the user's favorite set. Reports whether
// the set actually changed so callers only bump the listing counter once per
// user.
func (r *MongoUserRepo) AddFavorite(ctx context.Context, userID uuid.UUID, listingID string) (bool, error) {
	const op = "repository.MongoUserRepo.AddFavorite"

	res, err := r.collection.UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"favoriteIds": listingID}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return false, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoUserRepo) RemoveFavorite(ctx context.Context, userID uuid.UUID, listingID string) (bool, error) {
	const op = "repository.MongoUserRepo.RemoveFavorite"

	res, err := r.collection.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"favoriteIds": listingID}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return false, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return res.ModifiedCount > 0, nil
}
