package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"adriarent/internal/catalog"
	"adriarent/internal/domain/models"
	"adriarent/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testLog = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	testCtx = context.Background()
)

type upstream struct {
	server *httptest.Server
	hits   atomic.Int64
	auth   atomic.Value // last Authorization header
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.auth.Store(r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func listingsHandler(w http.ResponseWriter, _ *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    []models.Listing{{Title: "Apartman Budva", Slug: "apartman-budva"}},
		"meta":    catalog.Meta{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
	})
}

func newTestClient(u *upstream) *Client {
	return New(testLog, u.server.URL, NewMemCache(), NewDurableStore(""))
}

func TestListings_SecondReadServedFromCache(t *testing.T) {
	u := newUpstream(t, listingsHandler)
	c := newTestClient(u)

	first, err := c.Listings(testCtx, url.Values{"city": {"Budva"}}, false)
	require.NoError(t, err)
	second, err := c.Listings(testCtx, url.Values{"city": {"Budva"}}, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), u.hits.Load(), "cached read must not hit the network")
}

func TestListings_DistinctQueriesGetDistinctKeys(t *testing.T) {
	u := newUpstream(t, listingsHandler)
	c := newTestClient(u)

	_, err := c.Listings(testCtx, url.Values{"city": {"Budva"}}, false)
	require.NoError(t, err)
	_, err = c.Listings(testCtx, url.Values{"city": {"Kotor"}}, false)
	require.NoError(t, err)

	assert.Equal(t, int64(2), u.hits.Load())
}

func TestListings_ForceRefreshBypassesCache(t *testing.T) {
	u := newUpstream(t, listingsHandler)
	c := newTestClient(u)

	_, err := c.Listings(testCtx, nil, false)
	require.NoError(t, err)
	_, err = c.Listings(testCtx, nil, true)
	require.NoError(t, err)

	assert.Equal(t, int64(2), u.hits.Load())
}

func TestGet_ExpiredEntryRefetchesOnce(t *testing.T) {
	u := newUpstream(t, listingsHandler)
	c := newTestClient(u)

	_, err := c.get(testCtx, "/api/v1/listings", nil, &CachePolicy{TTL: 10 * time.Millisecond})
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = c.get(testCtx, "/api/v1/listings", nil, &CachePolicy{TTL: 10 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, int64(2), u.hits.Load())
}

func TestCreateListing_InvalidatesListCache(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    models.Listing{Title: "Novi stan", Slug: "novi-stan"},
			})
			return
		}
		listingsHandler(w, r)
	})
	c := newTestClient(u)

	_, err := c.Listings(testCtx, nil, false)
	require.NoError(t, err)

	_, err = c.CreateListing(testCtx, dto.CreateListingRequest{Title: "Novi stan", CategoryID: "cat-1"})
	require.NoError(t, err)

	// The list key must miss now; a third network call happens.
	_, err = c.Listings(testCtx, nil, false)
	require.NoError(t, err)

	assert.Equal(t, int64(3), u.hits.Load())
}

func TestFavorite_InvalidatesUserSnapshot(t *testing.T) {
	var meHits atomic.Int64
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/me":
			var favorites []string
			if meHits.Add(1) > 1 {
				favorites = []string{"l-1"}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    models.User{Name: "Marko", FavoriteIDs: favorites},
			})
		default:
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}
	})
	c := newTestClient(u)

	before, err := c.Me(testCtx, false)
	require.NoError(t, err)
	assert.Empty(t, before.FavoriteIDs)

	require.NoError(t, c.Favorite(testCtx, "l-1"))

	// The durable snapshot is stale now; the next Me must re-fetch.
	after, err := c.Me(testCtx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"l-1"}, after.FavoriteIDs)
	assert.Equal(t, int64(2), meHits.Load())
}

func TestGet_ConcurrentMissesCoalesce(t *testing.T) {
	release := make(chan struct{})
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		listingsHandler(w, r)
	})
	c := newTestClient(u)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Listings(testCtx, nil, false)
			assert.NoError(t, err)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), u.hits.Load(), "concurrent identical misses must share one upstream call")
}

func TestLogin_AttachesBearerToLaterRequests(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/login" {
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    models.TokenPair{AccessToken: "access-abc", RefreshToken: "refresh-abc"},
			})
			return
		}
		listingsHandler(w, r)
	})
	c := newTestClient(u)

	_, err := c.Login(testCtx, "marko@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = c.Listings(testCtx, nil, false)
	require.NoError(t, err)

	assert.Equal(t, "Bearer access-abc", u.auth.Load())
}

func TestDurableStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")

	first := NewDurableStore(path)
	require.NoError(t, first.Set(tokenKey, []byte("access-abc"), time.Hour))

	reopened := NewDurableStore(path)
	raw, found := reopened.Get(tokenKey)
	require.True(t, found)
	assert.Equal(t, "access-abc", string(raw))
}

func TestDurableStore_ExpiredEntryIsAbsentAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")

	first := NewDurableStore(path)
	require.NoError(t, first.Set(tokenKey, []byte("access-abc"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	reopened := NewDurableStore(path)
	_, found := reopened.Get(tokenKey)
	assert.False(t, found)
}

func TestLogout_DropsIdentityAndCaches(t *testing.T) {
	u := newUpstream(t, listingsHandler)
	c := newTestClient(u)

	require.NoError(t, c.durable.Set(tokenKey, []byte("access-abc"), time.Hour))
	_, err := c.Listings(testCtx, nil, false)
	require.NoError(t, err)

	c.Logout()

	_, found := c.Token()
	assert.False(t, found)

	_, err = c.Listings(testCtx, nil, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.hits.Load(), "logout must clear cached reads")
}

func TestRequest_ErrorEnvelopeBecomesAPIError(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "not_found"})
	})
	c := newTestClient(u)

	_, err := c.Listing(testCtx, "nope", false)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
}
