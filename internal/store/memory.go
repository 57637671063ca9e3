package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/snaplink-io/snaplink/internal/shortener"
)

// Memory is an in-memory implementation of shortener.Repository. It backs
// the unit tests and mirrors the Postgres contracts, including alias
// uniqueness on create and the atomic read-modify-write of RecordClick.
type Memory struct {
	mu   sync.RWMutex
	urls map[string]*shortener.URL // alias -> record
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{urls: make(map[string]*shortener.URL)}
}

func (m *Memory) Create(_ context.Context, u *shortener.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[u.Alias]; ok {
		return shortener.ErrAliasTaken
	}

	m.urls[u.Alias] = cloneURL(u)

	return nil
}

func (m *Memory) FindByAlias(_ context.Context, alias string) (*shortener.URL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.urls[alias]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return cloneURL(u), nil
}

func (m *Memory) FindActiveByAlias(_ context.Context, alias string) (*shortener.URL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.urls[alias]
	if !ok || u.Status != shortener.StatusActive {
		return nil, shortener.ErrNotFound
	}

	return cloneURL(u), nil
}

func (m *Memory) Update(_ context.Context, u *shortener.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for alias, existing := range m.urls {
		if existing.ID == u.ID {
			m.urls[alias] = cloneURL(u)

			return nil
		}
	}

	return shortener.ErrNotFound
}

func (m *Memory) Search(_ context.Context, q shortener.SearchQuery) ([]*shortener.URL, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []*shortener.URL

	for _, u := range m.urls {
		if u.Status != q.Status {
			continue
		}

		if q.UserID != nil && u.UserID != *q.UserID {
			continue
		}

		if q.Search != "" && !matchesSearch(u, q.Search) {
			continue
		}

		matches = append(matches, cloneURL(u))
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := int64(len(matches))

	if q.Offset >= len(matches) {
		return nil, total, nil
	}

	matches = matches[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matches) {
		matches = matches[:q.Limit]
	}

	return matches, total, nil
}

func (m *Memory) RecordClick(_ context.Context, alias string, apply func(*shortener.URL)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.urls[alias]
	if !ok {
		return shortener.ErrNotFound
	}

	apply(u)

	return nil
}

func matchesSearch(u *shortener.URL, search string) bool {
	needle := strings.ToLower(search)

	return strings.Contains(strings.ToLower(u.OriginalURL), needle) ||
		strings.Contains(strings.ToLower(u.Alias), needle) ||
		strings.Contains(strings.ToLower(u.Title), needle)
}

func cloneURL(u *shortener.URL) *shortener.URL {
	clone := *u

	clone.DeviceInfo.Browsers = cloneMap(u.DeviceInfo.Browsers)
	clone.DeviceInfo.Devices = cloneMap(u.DeviceInfo.Devices)
	clone.DeviceInfo.Timeline = cloneMap(u.DeviceInfo.Timeline)
	clone.Referrers = cloneMap(u.Referrers)

	if u.DeviceInfo.Visitors != nil {
		clone.DeviceInfo.Visitors = append([]string(nil), u.DeviceInfo.Visitors...)
	}

	return &clone
}

func cloneMap(m map[string]int64) map[string]int64 {
	if m == nil {
		return nil
	}

	clone := make(map[string]int64, len(m))
	for k, v := range m {
		clone[k] = v
	}

	return clone
}

// Compile-time check.
var _ shortener.Repository = (*Memory)(nil)
