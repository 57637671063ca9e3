package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/snaplink-io/snaplink/internal/clientinfo"
)

// Status is the lifecycle state of a short URL.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusDisabled Status = "disabled"
	StatusDeleted  Status = "deleted"
)

// DeviceInfo aggregates per-click visitor metadata for a URL.
// It is serialized to a single JSON column at the storage boundary.
type DeviceInfo struct {
	Browsers       map[string]int64 `json:"browsers,omitempty"`
	Devices        map[string]int64 `json:"devices,omitempty"`
	Visitors       []string         `json:"visitors,omitempty"`
	UniqueVisitors int64            `json:"uniqueVisitors,omitempty"`
	Timeline       map[string]int64 `json:"timeline,omitempty"`
}

// URL is a shortened URL record.
type URL struct {
	ID                  uuid.UUID
	OriginalURL         string
	Alias               string
	Title               string
	Status              Status
	ExpiresAt           *time.Time
	Clicks              int64
	LastClickedAt       *time.Time
	IsPasswordProtected bool
	PasswordHash        string // never exposed in views
	CustomDomain        string
	Category            string
	UserID              uuid.UUID
	DeviceInfo          DeviceInfo
	Referrers           map[string]int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ExpiredAt reports whether the URL's expiry has passed at the given time.
func (u *URL) ExpiredAt(now time.Time) bool {
	return u.ExpiresAt != nil && now.After(*u.ExpiresAt)
}

// ShortURL computes the public short URL using the record's custom domain
// when present, otherwise the configured application URL.
func (u *URL) ShortURL(appURL string) string {
	base := u.CustomDomain
	if base == "" {
		base = appURL
	}

	return base + "/" + u.Alias
}

// ApplyClick folds a single resolved visit into the record's aggregates:
// click counter, last-clicked timestamp, browser/device buckets, the
// visitor set (uniqueVisitors is its cardinality), normalized referrer
// counts, and the day-bucketed timeline.
func (u *URL) ApplyClick(info clientinfo.ClientInfo, now time.Time) {
	u.Clicks++
	u.LastClickedAt = &now

	if u.DeviceInfo.Browsers == nil {
		u.DeviceInfo.Browsers = make(map[string]int64)
	}

	u.DeviceInfo.Browsers[info.Browser]++

	if u.DeviceInfo.Devices == nil {
		u.DeviceInfo.Devices = make(map[string]int64)
	}

	u.DeviceInfo.Devices[info.DeviceType]++

	if info.VisitorID != "" && !u.hasVisitor(info.VisitorID) {
		u.DeviceInfo.Visitors = append(u.DeviceInfo.Visitors, info.VisitorID)
		u.DeviceInfo.UniqueVisitors = int64(len(u.DeviceInfo.Visitors))
	}

	if u.Referrers == nil {
		u.Referrers = make(map[string]int64)
	}

	u.Referrers[clientinfo.NormalizeReferrer(info.Referrer)]++

	if u.DeviceInfo.Timeline == nil {
		u.DeviceInfo.Timeline = make(map[string]int64)
	}

	u.DeviceInfo.Timeline[now.UTC().Format(time.DateOnly)]++
}

func (u *URL) hasVisitor(visitorID string) bool {
	for _, v := range u.DeviceInfo.Visitors {
		if v == visitorID {
			return true
		}
	}

	return false
}

// SearchQuery filters and paginates a URL search.
type SearchQuery struct {
	UserID *uuid.UUID // nil means unscoped (admin)
	Status Status
	Search string // case-insensitive substring over original URL, alias, title
	Offset int
	Limit  int
}

// Repository defines the persistence contract for URL records.
type Repository interface {
	// Create persists a new record. Returns ErrAliasTaken when the alias
	// collides with an existing row (unique index on alias).
	Create(ctx context.Context, u *URL) error

	// FindByAlias returns the record for an alias regardless of status.
	FindByAlias(ctx context.Context, alias string) (*URL, error)

	// FindActiveByAlias returns the active record for an alias, including
	// the stored password hash.
	FindActiveByAlias(ctx context.Context, alias string) (*URL, error)

	// Update persists changes to an existing record.
	Update(ctx context.Context, u *URL) error

	// Search returns a page of records plus the total match count.
	Search(ctx context.Context, q SearchQuery) ([]*URL, int64, error)

	// RecordClick atomically applies a mutation to the record with the
	// given alias. Implementations must guarantee the read-modify-write
	// cannot lose concurrent updates.
	RecordClick(ctx context.Context, alias string, apply func(*URL)) error
}

// RedirectEntry is the cached alias lookup tuple.
type RedirectEntry struct {
	OriginalURL         string `json:"originalUrl"`
	IsPasswordProtected bool   `json:"isPasswordProtected"`
	IsExpired           bool   `json:"isExpired"`
}

// Cache fronts the alias lookup with a TTL-bounded key/value store.
// Entries are best effort: a miss always falls back to the Repository and
// staleness is bounded by the TTL supplied on write.
type Cache interface {
	// GetRedirect returns the cached tuple for an alias, or ErrCacheMiss.
	GetRedirect(ctx context.Context, alias string) (*RedirectEntry, error)

	// SetRedirect stores the tuple for an alias with the given TTL.
	SetRedirect(ctx context.Context, alias string, entry *RedirectEntry, ttl time.Duration) error
}

// ClickRecorder records a resolved visit. Implementations are best effort:
// failures are logged and never propagated to the caller.
type ClickRecorder interface {
	Record(ctx context.Context, alias string, info clientinfo.ClientInfo)
}

// PasswordHasher hashes and verifies link passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare reports whether plaintext matches the stored hash. An empty
	// or malformed hash compares false, never panics.
	Compare(plaintext, hash string) bool
}
