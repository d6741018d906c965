package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"adriarent/internal/domain/models"
	"adriarent/internal/lib/logger/sl"
	"adriarent/internal/lib/slugs"
	"adriarent/internal/repository"

	gocache "github.com/patrickmn/go-cache"
)

// Categories are near-static reference data, so resolved slugs are cached
// long and the whole cache is dropped on any category mutation.
const (
	resolverTTL     = 1 * time.Hour
	resolverCleanup = 10 * time.Minute
)

type CategoryService struct {
	log      *slog.Logger
	repo     repository.CategoryRepository
	resolved *gocache.Cache
}

func NewCategoryService(log *slog.Logger, repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		log:      log,
		repo:     repo,
		resolved: gocache.New(resolverTTL, resolverCleanup),
	}
}

// ResolveSlug maps a category slug to its id, satisfying the catalog
// predicate builder's CategoryResolver contract. Lookups are served from the
// in-memory cache; a miss falls through to the repository and a repository
// failure is treated as unresolved rather than fatal.
func (s *CategoryService) ResolveSlug(ctx context.Context, categorySlug string) (string, bool) {
	if id, found := s.resolved.Get(categorySlug); found {
		return id.(string), true
	}

	category, err := s.repo.FindBySlug(ctx, categorySlug)
	if err != nil {
		return "", false
	}

	s.resolved.SetDefault(categorySlug, category.ID)
	return category.ID, true
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	const op = "category_service.List"

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, name, icon string, order int) (*models.Category, error) {
	const op = "category_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("name", name))

	if name == "" {
		return nil, fmt.Errorf("%s: category name is required: %w", op, models.ErrBadInput)
	}

	categorySlug, err := slugs.Unique(ctx, name, s.repo.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	category := models.Category{
		Name:  name,
		Slug:  categorySlug,
		Icon:  icon,
		Order: order,
	}

	if err := s.repo.Create(ctx, &category); err != nil {
		log.Error("failed to create category", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.resolved.Flush()

	log.Info("category created", slog.String("slug", category.Slug))
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, updates map[string]any) (*models.Category, error) {
	const op = "category_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("category_id", id))

	if name, ok := updates["name"].(string); ok && name != "" {
		newSlug, err := slugs.Unique(ctx, name, s.repo.SlugExists)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		updates["slug"] = newSlug
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		log.Error("failed to update category", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.resolved.Flush()

	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	const op = "category_service.Delete"
	log := s.log.With(slog.String("op", op), slog.String("category_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("failed to delete category", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.resolved.Flush()

	log.Info("category deleted")
	return nil
}
