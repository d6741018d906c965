package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"adriarent/internal/domain/models"
	"adriarent/internal/lib/logger/sl"
	"adriarent/internal/metrics"
	"adriarent/internal/middleware"
	catalogsvc "adriarent/internal/services/catalog_service"
	"adriarent/internal/transport/http/dto"
	"adriarent/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	PublicCatalog(ctx context.Context, q url.Values) (*catalogsvc.Page, error)
	MyListings(ctx context.Context, caller models.Identity, q url.Values) (*catalogsvc.Page, error)
	AdminCatalog(ctx context.Context, q url.Values) (*catalogsvc.Page, error)
	ListingBySlug(ctx context.Context, slug string) (*models.Listing, error)
}

type ListingService interface {
	Create(ctx context.Context, caller models.Identity, req dto.CreateListingRequest) (*models.Listing, error)
	Update(ctx context.Context, caller models.Identity, id string, req dto.UpdateListingRequest) (*models.Listing, error)
	Delete(ctx context.Context, caller models.Identity, id string) error
	UpdateStatus(ctx context.Context, caller models.Identity, id string, req dto.UpdateStatusRequest) (*models.Listing, error)
	Favorite(ctx context.Context, caller models.Identity, listingID string) error
	Unfavorite(ctx context.Context, caller models.Identity, listingID string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name, icon string, order int) (*models.Category, error)
	Update(ctx context.Context, id string, updates map[string]any) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (models.User, error)
}

type Routers struct {
	log             *slog.Logger
	CatalogService  CatalogService
	ListingService  ListingService
	CategoryService CategoryService
	AuthService     AuthService
}

func NewRouter(log *slog.Logger, catalogService CatalogService, listingService ListingService, categoryService CategoryService, authService AuthService) *Routers {
	return &Routers{
		log:             log,
		CatalogService:  catalogService,
		ListingService:  listingService,
		CategoryService: categoryService,
		AuthService:     authService,
	}
}

// ListListings serves the public catalog.
func (r *Routers) ListListings(c echo.Context) error {
	metrics.CatalogQueriesTotal.WithLabelValues("public").Inc()

	page, err := r.CatalogService.PublicCatalog(c.Request().Context(), c.QueryParams())
	if err != nil {
		return r.fail(c, "http.routers.ListListings", err)
	}

	return c.JSON(http.StatusOK, pageResponse(page))
}

// MyListings serves the caller's own listings with aggregate stats.
func (r *Routers) MyListings(c echo.Context) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	metrics.CatalogQueriesTotal.WithLabelValues("my").Inc()

	page, err := r.CatalogService.MyListings(c.Request().Context(), caller, c.QueryParams())
	if err != nil {
		return r.fail(c, "http.routers.MyListings", err)
	}

	return c.JSON(http.StatusOK, pageResponse(page))
}

// AdminListings serves the unscoped moderation catalog with global totals.
func (r *Routers) AdminListings(c echo.Context) error {
	metrics.CatalogQueriesTotal.WithLabelValues("admin").Inc()

	page, err := r.CatalogService.AdminCatalog(c.Request().Context(), c.QueryParams())
	if err != nil {
		return r.fail(c, "http.routers.AdminListings", err)
	}

	resp := pageResponse(page)
	if page.Totals != nil {
		resp.Totals = page.Totals
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *Routers) GetListing(c echo.Context) error {
	listing, err := r.CatalogService.ListingBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, "http.routers.GetListing", err)
	}

	return c.JSON(http.StatusOK, response.Success(listing))
}

func (r *Routers) CreateListing(c echo.Context) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var req dto.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("invalid_request", err.Error()))
	}

	listing, err := r.ListingService.Create(c.Request().Context(), caller, req)
	if err != nil {
		return r.fail(c, "http.routers.CreateListing", err)
	}

	return c.JSON(http.StatusCreated, response.Success(listing))
}

func (r *Routers) UpdateListing(c echo.Context) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var req dto.UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("invalid_request", err.Error()))
	}

	listing, err := r.ListingService.Update(c.Request().Context(), caller, c.Param("id"), req)
	if err != nil {
		return r.fail(c, "http.routers.UpdateListing", err)
	}

	return c.JSON(http.StatusOK, response.Success(listing))
}

func (r *Routers) DeleteListing(c echo.Context) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if err := r.ListingService.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return r.fail(c, "http.routers.DeleteListing", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (r *Routers) UpdateListingStatus(c echo.Context) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("invalid_request", err.Error()))
	}

	listing, err := r.ListingService.UpdateStatus(c.Request().Context(), caller, c.Param("id"), req)
	if err != nil {
		return r.fail(c, "http.routers.UpdateListingStatus", err)
	}

	return c.JSON(http.StatusOK, response.Success(listing))
}

func (r *Routers) FavoriteListing(c echo.Context) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if err := r.ListingService.Favorite(c.Request().Context(), caller, c.Param("id")); err != nil {
		return r.fail(c, "http.routers.FavoriteListing", err)
	}

	return c.JSON(http.StatusOK, response.Success(nil))
}

func (r *Routers) UnfavoriteListing(c echo.Context) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if err := r.ListingService.Unfavorite(c.Request().Context(), caller, c.Param("id")); err != nil {
		return r.fail(c, "http.routers.UnfavoriteListing", err)
	}

	return c.JSON(http.StatusOK, response.Success(nil))
}

func (r *Routers) ListCategories(c echo.Context) error {
	categories, err := r.CategoryService.List(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.ListCategories", err)
	}

	return c.JSON(http.StatusOK, response.Success(categories))
}

func (r *Routers) CreateCategory(c echo.Context) error {
	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("invalid_request", err.Error()))
	}

	category, err := r.CategoryService.Create(c.Request().Context(), req.Name, req.Icon, req.Order)
	if err != nil {
		return r.fail(c, "http.routers.CreateCategory", err)
	}

	return c.JSON(http.StatusCreated, response.Success(category))
}

func (r *Routers) UpdateCategory(c echo.Context) error {
	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("invalid_request", err.Error()))
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.Order != nil {
		updates["order"] = *req.Order
	}

	category, err := r.CategoryService.Update(c.Request().Context(), c.Param("id"), updates)
	if err != nil {
		return r.fail(c, "http.routers.UpdateCategory", err)
	}

	return c.JSON(http.StatusOK, response.Success(category))
}

func (r *Routers) DeleteCategory(c echo.Context) error {
	if err := r.CategoryService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return r.fail(c, "http.routers.DeleteCategory", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"
	log := r.log.With(slog.String("op", op))

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		log.Warn("invalid register request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Error("invalid_request", err.Error()))
	}

	userID, err := r.AuthService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUserExists) {
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}
		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.Success(map[string]string{"userId": userID.String()}))
}

func (r *Routers) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("invalid_request", err.Error()))
	}

	pair, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.Success(pair))
}

func (r *Routers) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, err := r.AuthService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.Success(pair))
}

// Me returns the caller's profile, the snapshot clients cache durably.
func (r *Routers) Me(c echo.Context) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	user, err := r.AuthService.CurrentUser(c.Request().Context(), caller.ID)
	if err != nil {
		return r.fail(c, "http.routers.Me", err)
	}

	return c.JSON(http.StatusOK, response.Success(user))
}

func pageResponse(page *catalogsvc.Page) response.Response {
	resp := response.Page(page.Listings, page.Meta)
	resp.Stats = page.Stats
	return resp
}

// fail maps domain errors to HTTP statuses; anything unrecognized is logged
// and reported as a 500.
func (r *Routers) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, models.ErrBadInput):
		return c.JSON(http.StatusBadRequest, response.Error("invalid_request", err.Error()))
	case errors.Is(err, models.ErrForbidden):
		return c.JSON(http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, models.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	default:
		r.log.Error("request failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
}
