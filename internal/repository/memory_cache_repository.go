package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
)

type memoryEntry struct {
	payload    []byte
	computedAt time.Time
	ttl        time.Duration
}

// MemoryCacheRepository is an in-process cache store.
// An entry is stale once now - computedAt >= ttl; stale entries are dropped lazily on read.
type MemoryCacheRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCacheRepository builds a store. A nil clock defaults to time.Now.
func NewMemoryCacheRepository(now func() time.Time) *MemoryCacheRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryCacheRepository{entries: make(map[string]memoryEntry), now: now}
}

// Get decodes a fresh entry into dest or returns ErrCacheMiss.
func (r *MemoryCacheRepository) Get(_ context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	entry, ok := r.entries[key]
	if ok && r.now().Sub(entry.computedAt) >= entry.ttl {
		delete(r.entries, key)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set replaces the entry for key wholesale.
func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	r.mu.Lock()
	r.entries[key] = memoryEntry{payload: payload, computedAt: r.now(), ttl: ttl}
	r.mu.Unlock()
	return nil
}

// DeleteByPattern removes every key matching the glob pattern.
func (r *MemoryCacheRepository) DeleteByPattern(_ context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid cache pattern %s: %w", pattern, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.entries {
		if matched, _ := path.Match(pattern, key); matched {
			delete(r.entries, key)
		}
	}
	return nil
}

// Len returns the number of stored entries, fresh or not.
func (r *MemoryCacheRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
