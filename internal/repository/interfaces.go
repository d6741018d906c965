package repository

import (
	"context"
	"time"

	"adriarent/internal/catalog"
	"adriarent/internal/domain/models"

	"github.com/google/uuid"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	FindBySlug(ctx context.Context, slug string) (*models.Listing, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, p catalog.Predicate, sort []catalog.SortKey, page catalog.Pagination) ([]models.Listing, int64, error)
	StatusStats(ctx context.Context, ownerID string) ([]catalog.StatusBucket, error)
	CountByStatus(ctx context.Context, status models.ListingStatus) (int64, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementFavorites(ctx context.Context, id string, delta int) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]models.Category, error)
}

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, listingID string) (bool, error)
	RemoveFavorite(ctx context.Context, userID uuid.UUID, listingID string) (bool, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}
