package client

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTL classes for the ephemeral tier. Lists change often, detail pages less
// so, reference data almost never.
const (
	TTLShort  = 30 * time.Second
	TTLMedium = 5 * time.Minute
	TTLLong   = 1 * time.Hour

	cleanupInterval = 10 * time.Minute
)

// MemCache is the ephemeral read-through tier: a passive in-memory store with
// per-entry expiry. It never fetches on its own behalf.
type MemCache struct {
	store *gocache.Cache
}

func NewMemCache() *MemCache {
	return &MemCache{store: gocache.New(TTLMedium, cleanupInterval)}
}

func (m *MemCache) Get(key string) ([]byte, bool) {
	v, found := m.store.Get(key)
	if !found {
		return nil, false
	}
	return v.([]byte), true
}

func (m *MemCache) Set(key string, value []byte, ttl time.Duration) {
	m.store.Set(key, value, ttl)
}

func (m *MemCache) Remove(key string) {
	m.store.Delete(key)
}

// RemovePrefix drops every entry whose key starts with prefix. Expired
// entries are skipped, they are already as good as gone.
func (m *MemCache) RemovePrefix(prefix string) {
	for key, item := range m.store.Items() {
		if item.Expired() {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			m.store.Delete(key)
		}
	}
}

func (m *MemCache) Flush() {
	m.store.Flush()
}

// DurableStore is the persistent tier holding the identity token and the
// current-user snapshot. Entries survive a restart via a snapshot file;
// everything else about it is a plain TTL store.
type DurableStore struct {
	store *gocache.Cache
	path  string
}

// NewDurableStore loads the previous snapshot from path if one exists. A
// missing or unreadable snapshot just means an empty store.
func NewDurableStore(path string) *DurableStore {
	store := gocache.New(gocache.NoExpiration, cleanupInterval)
	if path != "" {
		_ = store.LoadFile(path)
	}
	return &DurableStore{store: store, path: path}
}

func (d *DurableStore) Get(key string) ([]byte, bool) {
	v, found := d.store.Get(key)
	if !found {
		return nil, false
	}
	return v.([]byte), true
}

func (d *DurableStore) Set(key string, value []byte, ttl time.Duration) error {
	d.store.Set(key, value, ttl)
	return d.save()
}

func (d *DurableStore) Remove(key string) error {
	d.store.Delete(key)
	return d.save()
}

// RemovePrefix drops every entry whose key starts with prefix and persists
// the snapshot.
func (d *DurableStore) RemovePrefix(prefix string) error {
	for key, item := range d.store.Items() {
		if item.Expired() {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			d.store.Delete(key)
		}
	}
	return d.save()
}

func (d *DurableStore) save() error {
	if d.path == "" {
		return nil
	}
	return d.store.SaveFile(d.path)
}
