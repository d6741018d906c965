package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"adriarent/internal/domain/models"
)

// CategoryResolver maps a public category slug to its identifier.
type CategoryResolver interface {
	ResolveSlug(ctx context.Context, slug string) (string, bool)
}

// Scope carries the authorization context a predicate is built under. An
// owner scope forces OwnerID equality and enables owner status groups; an
// admin scope disables the public active-only default.
type Scope struct {
	OwnerID string
	Admin   bool
}

// Predicate is the normalized, storage-agnostic representation of which
// listings match a query. It is built fresh per request and never cached.
type Predicate struct {
	FreeText   string
	CategoryID string
	MatchNone  bool
	City       string
	PriceMin   *float64
	PriceMax   *float64
	OptionsAll []string
	StatusSet  []models.ListingStatus
	OwnerID    string
	Featured   *bool
}

// BuildPredicate translates raw query parameters into a Predicate, applying
// the facet rules in a fixed order. Malformed numeric bounds are treated as
// absent rather than rejected; an unknown category slug yields a predicate
// that matches nothing (MatchNone) instead of silently dropping the facet.
// An unrecognized type facet is the one value that is rejected as bad input.
func BuildPredicate(ctx context.Context, q url.Values, scope Scope, categories CategoryResolver) (Predicate, error) {
	var p Predicate

	if text := firstOf(q, "q", "search"); text != "" {
		p.FreeText = text
	}

	if slug := q.Get("category"); slug != "" {
		id, ok := categories.ResolveSlug(ctx, slug)
		if !ok {
			p.MatchNone = true
		}
		p.CategoryID = id
	}

	if city := q.Get("city"); city != "" {
		p.City = city
	}

	p.PriceMin = parsePrice(q.Get("minPrice"))
	p.PriceMax = parsePrice(q.Get("maxPrice"))

	p.OptionsAll = parseOptions(q["options"])

	ownerID := scope.OwnerID
	if ownerID == "" {
		ownerID = q.Get("ownerId")
	}

	p.StatusSet = resolveStatusSet(q.Get("status"), ownerID != "", scope.Admin)

	// type-overrides-status: the type facet wins over whatever the status
	// facet resolved to, last writer wins.
	if typ := q.Get("type"); typ != "" {
		set, err := statusForType(typ)
		if err != nil {
			return Predicate{}, err
		}
		p.StatusSet = set
	}

	p.OwnerID = ownerID

	if raw := q.Get("isFeatured"); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			p.Featured = &featured
		}
	}

	return p, nil
}

// resolveStatusSet applies the status defaulting rules: no status and no
// owner filter defaults the public catalog to active-only; "active" in an
// owner-scoped context expands to the live status group; "inactive" stays
// the single literal.
func resolveStatusSet(status string, ownerScoped, admin bool) []models.ListingStatus {
	if status == "" {
		if ownerScoped || admin {
			return nil
		}
		return []models.ListingStatus{models.StatusActive}
	}

	if status == string(models.StatusActive) && ownerScoped {
		return models.LiveStatuses
	}

	return []models.ListingStatus{models.ListingStatus(status)}
}

func statusForType(typ string) ([]models.ListingStatus, error) {
	switch typ {
	case "rent":
		return []models.ListingStatus{models.StatusActive}, nil
	case "exchange":
		return []models.ListingStatus{models.StatusExchange}, nil
	case "gift":
		return []models.ListingStatus{models.StatusGift}, nil
	}
	return nil, fmt.Errorf("unknown listing type %q: %w", typ, models.ErrBadInput)
}

func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

func parseOptions(values []string) []string {
	var opts []string
	for _, v := range values {
		for _, opt := range strings.Split(v, ",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				opts = append(opts, opt)
			}
		}
	}
	return opts
}

func firstOf(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}
