package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "adriarent/internal/app/http"
	"adriarent/internal/config"
	"adriarent/internal/repository"
	authsvc "adriarent/internal/services/auth_service"
	catalogsvc "adriarent/internal/services/catalog_service"
	categorysvc "adriarent/internal/services/category_service"
	listingsvc "adriarent/internal/services/listing_service"
	mongoapp "adriarent/internal/storage/mongo"
	redisapp "adriarent/internal/storage/redis"
	httprouters "adriarent/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	mongo *mongoapp.Client
	redis *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	mongoClient, err := mongoapp.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db := mongoClient.Database()

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	listingRepo := repository.NewMongoListingRepo(db)
	categoryRepo := repository.NewMongoCategoryRepo(db)
	userRepo := repository.NewMongoUserRepo(db)
	tokenRepo := repository.NewRedisTokenRepo(redisClient)

	if err := listingRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := categoryRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categoryService := categorysvc.NewCategoryService(log, categoryRepo)
	catalogService := catalogsvc.NewCatalogService(log, listingRepo, categoryService)
	listingService := listingsvc.NewListingService(log, listingRepo, userRepo)
	authService := authsvc.NewAuthService(log, userRepo, tokenRepo, cfg.TokenSecret, cfg.AccessTTL, cfg.RefreshTTL)

	routers := httprouters.NewRouter(log, catalogService, listingService, categoryService, authService)
	server := httpapp.New(log, cfg.TokenSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
		mongo:      mongoClient,
		redis:      redisClient,
	}, nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "app.Stop"

	if err := a.HTTPServer.Stop(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := a.redis.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := a.mongo.Close(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
