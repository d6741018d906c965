// Package client is the Go SDK for the catalog API. Reads go through a
// two-tier cache: an ephemeral in-memory TTL store fronting every GET, and a
// durable file-backed store for the identity token and current-user snapshot.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"adriarent/internal/catalog"
	"adriarent/internal/domain/models"
	"adriarent/internal/lib/logger/sl"
	"adriarent/internal/transport/http/dto"

	"golang.org/x/sync/singleflight"
)

const (
	tokenKey        = "identity_token"
	refreshKey      = "refresh_token"
	userSnapshotKey = "/api/v1/me"

	tokenTTL = 7 * 24 * time.Hour
)

// CachePolicy directs a single read. A nil policy means uncached.
type CachePolicy struct {
	Key          string
	TTL          time.Duration
	ForceRefresh bool
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Details string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s %s", e.Status, e.Code, e.Details)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *catalog.Meta   `json:"meta"`
	Stats   *catalog.Stats  `json:"stats"`
	Error   string          `json:"error"`
	Details string          `json:"details"`
}

// ListingsPage is one page of catalog results plus whatever extras the
// endpoint variant returned.
type ListingsPage struct {
	Listings []models.Listing
	Meta     catalog.Meta
	Stats    *catalog.Stats
}

// Client talks to the catalog API. Both cache tiers are injected so tests
// and embedders control their lifetime; there is no package-level state.
type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
	mem     *MemCache
	durable *DurableStore
	group   singleflight.Group
}

func New(log *slog.Logger, baseURL string, mem *MemCache, durable *DurableStore) *Client {
	return &Client{
		log:     log,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		mem:     mem,
		durable: durable,
	}
}

// Token returns the stored identity token, if a valid one survives in the
// durable tier.
func (c *Client) Token() (string, bool) {
	raw, found := c.durable.Get(tokenKey)
	if !found {
		return "", false
	}
	return string(raw), true
}

// Logout drops the identity entries and every cached read.
func (c *Client) Logout() {
	if err := c.durable.Remove(tokenKey); err != nil {
		c.log.Warn("failed to persist durable cache", sl.Err(err))
	}
	if err := c.durable.Remove(refreshKey); err != nil {
		c.log.Warn("failed to persist durable cache", sl.Err(err))
	}
	if err := c.durable.Remove(userSnapshotKey); err != nil {
		c.log.Warn("failed to persist durable cache", sl.Err(err))
	}
	c.invalidate(ActionLoggedOut)
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/register", req)
	return err
}

// Login authenticates and stores the token pair in the durable tier so the
// session survives a restart.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/login", dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("decode token pair: %w", err)
	}
	c.storeTokens(pair)

	return &pair, nil
}

// Refresh rotates the stored refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) (*models.TokenPair, error) {
	refresh, found := c.durable.Get(refreshKey)
	if !found {
		return nil, &APIError{Status: http.StatusUnauthorized, Code: "no_refresh_token"}
	}

	data, err := c.do(ctx, http.MethodPost, "/api/v1/refresh", dto.RefreshRequest{RefreshToken: string(refresh)})
	if err != nil {
		return nil, err
	}

	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("decode token pair: %w", err)
	}
	c.storeTokens(pair)

	return &pair, nil
}

// Me returns the current user. The snapshot lives in the durable tier and is
// only re-fetched on forceRefresh or after it expires.
func (c *Client) Me(ctx context.Context, forceRefresh bool) (models.User, error) {
	var user models.User

	if !forceRefresh {
		if raw, found := c.durable.Get(userSnapshotKey); found {
			if err := json.Unmarshal(raw, &user); err == nil {
				return user, nil
			}
		}
	}

	data, err := c.do(ctx, http.MethodGet, "/api/v1/me", nil)
	if err != nil {
		return models.User{}, err
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return models.User{}, fmt.Errorf("decode user: %w", err)
	}

	if err := c.durable.Set(userSnapshotKey, data, TTLLong); err != nil {
		c.log.Warn("failed to persist durable cache", sl.Err(err))
	}
	return user, nil
}

// Listings lists the public catalog. Short TTL, lists go stale fast.
func (c *Client) Listings(ctx context.Context, q url.Values, forceRefresh bool) (*ListingsPage, error) {
	return c.listingsPage(ctx, "/api/v1/listings", q, forceRefresh)
}

// MyListings lists the caller's own listings with aggregate stats.
func (c *Client) MyListings(ctx context.Context, q url.Values, forceRefresh bool) (*ListingsPage, error) {
	return c.listingsPage(ctx, "/api/v1/listings/my", q, forceRefresh)
}

func (c *Client) listingsPage(ctx context.Context, path string, q url.Values, forceRefresh bool) (*ListingsPage, error) {
	env, err := c.get(ctx, path, q, &CachePolicy{TTL: TTLShort, ForceRefresh: forceRefresh})
	if err != nil {
		return nil, err
	}

	page := &ListingsPage{Stats: env.Stats}
	if env.Meta != nil {
		page.Meta = *env.Meta
	}
	if err := json.Unmarshal(env.Data, &page.Listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return page, nil
}

// Listing fetches one listing by slug. Medium TTL.
func (c *Client) Listing(ctx context.Context, slug string, forceRefresh bool) (*models.Listing, error) {
	env, err := c.get(ctx, "/api/v1/listings/"+slug, nil, &CachePolicy{TTL: TTLMedium, ForceRefresh: forceRefresh})
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return &listing, nil
}

// Categories fetches the category reference data. Long TTL, near-static.
func (c *Client) Categories(ctx context.Context, forceRefresh bool) ([]models.Category, error) {
	env, err := c.get(ctx, "/api/v1/categories", nil, &CachePolicy{TTL: TTLLong, ForceRefresh: forceRefresh})
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := json.Unmarshal(env.Data, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

func (c *Client) CreateListing(ctx context.Context, req dto.CreateListingRequest) (*models.Listing, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/listings", req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ActionListingCreated)

	var listing models.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return &listing, nil
}

func (c *Client) UpdateListing(ctx context.Context, id string, req dto.UpdateListingRequest) (*models.Listing, error) {
	data, err := c.do(ctx, http.MethodPut, "/api/v1/listings/"+id, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ActionListingUpdated)

	var listing models.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return &listing, nil
}

func (c *Client) DeleteListing(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/v1/listings/"+id, nil); err != nil {
		return err
	}
	c.invalidate(ActionListingDeleted)
	return nil
}

func (c *Client) SetListingStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error {
	if _, err := c.do(ctx, http.MethodPatch, "/api/v1/listings/"+id+"/status", req); err != nil {
		return err
	}
	c.invalidate(ActionListingModerated)
	return nil
}

func (c *Client) Favorite(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/listings/"+id+"/favorite", nil); err != nil {
		return err
	}
	c.invalidate(ActionFavoriteChanged)
	return nil
}

func (c *Client) Unfavorite(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/v1/listings/"+id+"/favorite", nil); err != nil {
		return err
	}
	c.invalidate(ActionFavoriteChanged)
	return nil
}

func (c *Client) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*models.Category, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/categories", req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ActionCategoryChanged)

	var category models.Category
	if err := json.Unmarshal(data, &category); err != nil {
		return nil, fmt.Errorf("decode category: %w", err)
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/v1/categories/"+id, nil); err != nil {
		return err
	}
	c.invalidate(ActionCategoryChanged)
	return nil
}

// cacheKey is the endpoint plus the serialized query. url.Values.Encode
// sorts parameters, so equivalent queries share a key.
func cacheKey(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// get is the read-through path: cache hit returns stored bytes without any
// network access; concurrent misses for the same key are coalesced into one
// upstream call.
func (c *Client) get(ctx context.Context, path string, q url.Values, policy *CachePolicy) (*envelope, error) {
	key := cacheKey(path, q)
	if policy != nil && policy.Key != "" {
		key = policy.Key
	}

	if policy != nil && !policy.ForceRefresh {
		if raw, found := c.mem.Get(key); found {
			return decodeEnvelope(raw)
		}
	}

	raw, err, _ := c.group.Do(key, func() (any, error) {
		return c.request(ctx, http.MethodGet, path, q, nil)
	})
	if err != nil {
		return nil, err
	}

	body := raw.([]byte)
	if policy != nil {
		c.mem.Set(key, body, policy.TTL)
	}
	return decodeEnvelope(body)
}

// do performs a mutation (or an uncached read) and returns the envelope's
// data payload.
func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	body, err := c.request(ctx, method, path, nil, payload)
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) request(ctx context.Context, method, path string, q url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token, found := c.Token(); found {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil {
			apiErr.Code = env.Error
			apiErr.Details = env.Details
		}
		return nil, apiErr
	}

	return body, nil
}

func decodeEnvelope(body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &env, nil
}

func (c *Client) storeTokens(pair models.TokenPair) {
	// Cache write failures downgrade to uncached behavior, never fail the
	// login itself.
	if err := c.durable.Set(tokenKey, []byte(pair.AccessToken), tokenTTL); err != nil {
		c.log.Warn("failed to persist durable cache", sl.Err(err))
	}
	if err := c.durable.Set(refreshKey, []byte(pair.RefreshToken), tokenTTL); err != nil {
		c.log.Warn("failed to persist durable cache", sl.Err(err))
	}
}
