package client

import "adriarent/internal/lib/logger/sl"

// Action names a mutation the SDK performed. Every mutating call dispatches
// exactly one action through invalidate, so the cache keys a mutation stales
// live in one declared table instead of ad-hoc removes at each call site.
type Action string

const (
	ActionListingCreated   Action = "listing_created"
	ActionListingUpdated   Action = "listing_updated"
	ActionListingDeleted   Action = "listing_deleted"
	ActionListingModerated Action = "listing_moderated"
	ActionFavoriteChanged  Action = "favorite_changed"
	ActionCategoryChanged  Action = "category_changed"
	ActionLoggedOut        Action = "logged_out"
)

// invalidationTable maps each action to the cache-key prefixes it stales.
// Register new mutating endpoints here.
var invalidationTable = map[Action][]string{
	ActionListingCreated:   {"/api/v1/listings"},
	ActionListingUpdated:   {"/api/v1/listings"},
	ActionListingDeleted:   {"/api/v1/listings"},
	ActionListingModerated: {"/api/v1/listings"},
	ActionFavoriteChanged:  {"/api/v1/listings", "/api/v1/me"},
	ActionCategoryChanged:  {"/api/v1/categories", "/api/v1/listings"},
	ActionLoggedOut:        {"/api/v1"},
}

// invalidate clears the staled prefixes from both tiers: listing and
// category reads live in the ephemeral store, but the current-user snapshot
// sits in the durable one, so favorite mutations must reach it too.
func (c *Client) invalidate(action Action) {
	for _, prefix := range invalidationTable[action] {
		c.mem.RemovePrefix(prefix)
		if err := c.durable.RemovePrefix(prefix); err != nil {
			c.log.Warn("failed to persist durable cache", sl.Err(err))
		}
	}
}
