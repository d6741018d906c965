package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"adriarent/internal/catalog"
	"adriarent/internal/domain/models"
	"adriarent/internal/lib/logger/sl"
	"adriarent/internal/repository"
)

// CatalogService runs the three read orchestrations that share the predicate
// builder, sort resolver and stats computer but differ in scoping.
type CatalogService struct {
	log        *slog.Logger
	listings   repository.ListingRepository
	categories catalog.CategoryResolver
}

func NewCatalogService(log *slog.Logger, listings repository.ListingRepository, categories catalog.CategoryResolver) *CatalogService {
	return &CatalogService{
		log:        log,
		listings:   listings,
		categories: categories,
	}
}

// Page is the shaped result of a catalog read: one page of listings, the
// pagination meta, and whatever extra stats the endpoint variant adds.
type Page struct {
	Listings []models.Listing
	Meta     catalog.Meta
	Stats    *catalog.Stats
	Totals   *AdminTotals
}

// AdminTotals are the global active/inactive counts for the admin stat
// cards, computed independently of the current filter.
type AdminTotals struct {
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// PublicCatalog serves the anonymous catalog: no identity, active-only
// default.
func (s *CatalogService) PublicCatalog(ctx context.Context, q url.Values) (*Page, error) {
	const op = "catalog_service.PublicCatalog"

	return s.list(ctx, op, q, catalog.Scope{})
}

// MyListings forces the caller as owner and adds aggregate stats over the
// caller's full listing set, not just the current page.
func (s *CatalogService) MyListings(ctx context.Context, caller models.Identity, q url.Values) (*Page, error) {
	const op = "catalog_service.MyListings"

	page, err := s.list(ctx, op, q, catalog.Scope{OwnerID: caller.ID.String()})
	if err != nil {
		return nil, err
	}

	buckets, err := s.listings.StatusStats(ctx, caller.ID.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats := catalog.ComputeStats(buckets)
	page.Stats = &stats

	return page, nil
}

// AdminCatalog applies no implicit owner scoping and attaches the global
// active/inactive totals as a separate unfiltered count.
func (s *CatalogService) AdminCatalog(ctx context.Context, q url.Values) (*Page, error) {
	const op = "catalog_service.AdminCatalog"

	page, err := s.list(ctx, op, q, catalog.Scope{Admin: true})
	if err != nil {
		return nil, err
	}

	active, err := s.listings.CountByStatus(ctx, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inactive, err := s.listings.CountByStatus(ctx, models.StatusInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	page.Totals = &AdminTotals{Active: active, Inactive: inactive}

	return page, nil
}

func (s *CatalogService) list(ctx context.Context, op string, q url.Values, scope catalog.Scope) (*Page, error) {
	log := s.log.With(slog.String("op", op))

	predicate, err := catalog.BuildPredicate(ctx, q, scope, s.categories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort := catalog.ResolveSort(q.Get("sort"))
	page := catalog.ResolvePagination(q.Get("page"), q.Get("limit"))

	listings, total, err := s.listings.List(ctx, predicate, sort, page)
	if err != nil {
		log.Error("failed to list listings", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Page{
		Listings: listings,
		Meta:     page.Meta(total),
	}, nil
}

// ListingBySlug fetches a single listing and bumps its view counter.
// The increment is fire-and-forget: a failed write is logged, never surfaced
// to the viewer.
func (s *CatalogService) ListingBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	const op = "catalog_service.ListingBySlug"
	log := s.log.With(slog.String("op", op), slog.String("slug", slug))

	listing, err := s.listings.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.listings.IncrementViews(ctx, listing.ID); err != nil {
			log.Warn("failed to increment views", sl.Err(err))
		}
	}()

	return listing, nil
}
