package services

import (
	"context"
	"fmt"
	"log/slog"

	"adriarent/internal/domain/models"
	"adriarent/internal/lib/logger/sl"
	"adriarent/internal/lib/slugs"
	"adriarent/internal/repository"
	"adriarent/internal/transport/http/dto"
)

// ownerStatuses are the statuses a non-admin owner may set. Moderation
// states (pending, rented) stay admin-gated.
var ownerStatuses = map[models.ListingStatus]bool{
	models.StatusActive:   true,
	models.StatusInactive: true,
	models.StatusExchange: true,
	models.StatusGift:     true,
	models.StatusDraft:    true,
}

type ListingService struct {
	log      *slog.Logger
	listings repository.ListingRepository
	users    repository.UserRepository
}

func NewListingService(log *slog.Logger, listings repository.ListingRepository, users repository.UserRepository) *ListingService {
	return &ListingService{
		log:      log,
		listings: listings,
		users:    users,
	}
}

// Create saves a new listing for the caller. The slug is derived from the
// title; collisions get a numeric suffix. New listings land in pending until
// a moderator activates them, unless the owner saves a draft.
func (s *ListingService) Create(ctx context.Context, caller models.Identity, req dto.CreateListingRequest) (*models.Listing, error) {
	const op = "listing_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("owner_id", caller.ID.String()))

	status := models.StatusPending
	if req.Status != "" {
		status = models.ListingStatus(req.Status)
		if !caller.IsAdmin() && status != models.StatusDraft && status != models.StatusPending {
			return nil, fmt.Errorf("%s: status %q is moderation-gated: %w", op, status, models.ErrForbidden)
		}
	}

	listingSlug, err := slugs.Unique(ctx, req.Title, s.listings.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	currency := models.Currency(req.Currency)
	if currency == "" {
		currency = models.CurrencyEUR
	}

	listing := models.Listing{
		Title:       req.Title,
		Slug:        listingSlug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Currency:    currency,
		Status:      status,
		Images:      req.Images,
		Options:     req.Options,
		OwnerID:     caller.ID.String(),
		Location:    req.Location,
	}

	if err := s.listings.Create(ctx, &listing); err != nil {
		log.Error("failed to create listing", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("listing created", slog.String("listing_id", listing.ID), slog.String("slug", listing.Slug))
	return &listing, nil
}

// Update applies a partial update. Only the owner or an admin may mutate a
// listing; owners cannot move a listing into a moderation state.
func (s *ListingService) Update(ctx context.Context, caller models.Identity, id string, req dto.UpdateListingRequest) (*models.Listing, error) {
	const op = "listing_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("listing_id", id))

	existing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := authorize(caller, existing); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		updates["categoryId"] = *req.CategoryID
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Status != nil {
		status := models.ListingStatus(*req.Status)
		if !caller.IsAdmin() && !ownerStatuses[status] {
			return nil, fmt.Errorf("%s: status %q is moderation-gated: %w", op, status, models.ErrForbidden)
		}
		updates["status"] = status
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.Options != nil {
		updates["options"] = req.Options
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.IsFeatured != nil {
		if !caller.IsAdmin() {
			return nil, fmt.Errorf("%s: featuring is admin-only: %w", op, models.ErrForbidden)
		}
		updates["isFeatured"] = *req.IsFeatured
	}

	if err := s.listings.Update(ctx, id, updates); err != nil {
		log.Error("failed to update listing", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.listings.FindByID(ctx, id)
}

// Delete removes a listing permanently. There is no tombstone.
func (s *ListingService) Delete(ctx context.Context, caller models.Identity, id string) error {
	const op = "listing_service.Delete"
	log := s.log.With(slog.String("op", op), slog.String("listing_id", id))

	existing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := authorize(caller, existing); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.listings.Delete(ctx, id); err != nil {
		log.Error("failed to delete listing", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("listing deleted")
	return nil
}

// UpdateStatus is the moderation transition, admin-only. The optional reason
// is recorded in the log stream.
func (s *ListingService) UpdateStatus(ctx context.Context, caller models.Identity, id string, req dto.UpdateStatusRequest) (*models.Listing, error) {
	const op = "listing_service.UpdateStatus"
	log := s.log.With(slog.String("op", op), slog.String("listing_id", id))

	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if !models.ValidStatus(req.Status) {
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, req.Status, models.ErrBadInput)
	}

	updates := map[string]any{"status": models.ListingStatus(req.Status)}
	if err := s.listings.Update(ctx, id, updates); err != nil {
		log.Error("failed to update status", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("listing status changed",
		slog.String("status", req.Status),
		slog.String("reason", req.Reason),
		slog.String("admin_id", caller.ID.String()),
	)

	return s.listings.FindByID(ctx, id)
}

// Favorite adds the listing to the caller's favorite set and bumps the
// listing's favorite counter. The counter is the canonical favorite count
// and is only incremented when the set actually changed, so favoriting twice
// is a no-op.
func (s *ListingService) Favorite(ctx context.Context, caller models.Identity, listingID string) error {
	const op = "listing_service.Favorite"
	log := s.log.With(slog.String("op", op), slog.String("listing_id", listingID))

	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	added, err := s.users.AddFavorite(ctx, caller.ID, listingID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !added {
		return nil
	}

	if err := s.listings.IncrementFavorites(ctx, listingID, 1); err != nil {
		log.Error("failed to increment favorites", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *ListingService) Unfavorite(ctx context.Context, caller models.Identity, listingID string) error {
	const op = "listing_service.Unfavorite"
	log := s.log.With(slog.String("op", op), slog.String("listing_id", listingID))

	removed, err := s.users.RemoveFavorite(ctx, caller.ID, listingID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !removed {
		return nil
	}

	if err := s.listings.IncrementFavorites(ctx, listingID, -1); err != nil {
		log.Error("failed to decrement favorites", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func authorize(caller models.Identity, listing *models.Listing) error {
	if caller.IsAdmin() || listing.OwnerID == caller.ID.String() {
		return nil
	}
	return models.ErrForbidden
}
