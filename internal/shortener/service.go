package shortener

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snaplink-io/snaplink/internal/auth"
	"github.com/snaplink-io/snaplink/internal/clientinfo"
)

// Config carries the service-level settings, constructed once at startup.
type Config struct {
	// AppURL is the base used to build short URLs when a record has no
	// custom domain.
	AppURL string

	// URLCacheTTL bounds staleness of cached live lookups.
	URLCacheTTL time.Duration

	// ExpiredURLCacheTTL is the longer TTL for confirmed-expired markers,
	// keeping dead links from hitting the database repeatedly.
	ExpiredURLCacheTTL time.Duration
}

// Service orchestrates URL creation, redirect resolution, password-gated
// access and analytics reads.
type Service struct {
	repo     Repository
	cache    Cache
	aliases  *AliasGenerator
	hasher   PasswordHasher
	recorder ClickRecorder
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the URL service.
func NewService(
	repo Repository,
	cache Cache,
	aliases *AliasGenerator,
	hasher PasswordHasher,
	recorder ClickRecorder,
	cfg Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		aliases:  aliases,
		hasher:   hasher,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now

	return s
}

// CreateInput is the input for CreateURL.
type CreateInput struct {
	OriginalURL         string
	Alias               string
	Title               string
	Category            string
	CustomDomain        string
	ExpiresAt           *time.Time
	IsPasswordProtected bool
	Password            string
}

// View is the caller-facing representation of a URL record. It never
// carries the password or its hash.
type View struct {
	ID                  uuid.UUID  `json:"id"`
	OriginalURL         string     `json:"originalUrl"`
	Alias               string     `json:"alias"`
	ShortURL            string     `json:"shortUrl"`
	Title               string     `json:"title,omitempty"`
	Category            string     `json:"category,omitempty"`
	Status              Status     `json:"status"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
	Clicks              int64      `json:"clicks"`
	LastClickedAt       *time.Time `json:"lastClickedAt,omitempty"`
	IsPasswordProtected bool       `json:"isPasswordProtected"`
	UserID              uuid.UUID  `json:"userId"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// SearchFilters narrow a URL search.
type SearchFilters struct {
	Status Status
	Search string
}

// SearchResult is one page of URL views plus the total match count.
type SearchResult struct {
	URLs  []*View `json:"urls"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// RedirectResult resolves an alias to its target, or signals that a
// password must be supplied first.
type RedirectResult struct {
	OriginalURL         string
	IsPasswordProtected bool
}

// CreateURL validates and persists a new short URL owned by the caller.
func (s *Service) CreateURL(ctx context.Context, caller auth.Caller, in CreateInput) (*View, error) {
	if !isValidURL(in.OriginalURL) {
		return nil, ErrInvalidURL
	}

	alias := in.Alias
	if alias == "" {
		generated, err := s.aliases.EnsureUnique(ctx)
		if err != nil {
			return nil, err
		}

		alias = generated
	} else {
		_, err := s.repo.FindByAlias(ctx, alias)
		if err == nil {
			return nil, ErrAliasTaken
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	var passwordHash string

	if in.IsPasswordProtected {
		if in.Password == "" {
			return nil, ErrPasswordRequired
		}

		hashed, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}

		passwordHash = hashed
	}

	now := s.now()
	record := &URL{
		ID:                  uuid.New(),
		OriginalURL:         in.OriginalURL,
		Alias:               alias,
		Title:               in.Title,
		Category:            in.Category,
		CustomDomain:        in.CustomDomain,
		Status:              StatusActive,
		ExpiresAt:           in.ExpiresAt,
		IsPasswordProtected: in.IsPasswordProtected,
		PasswordHash:        passwordHash,
		UserID:              caller.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	// The alias pre-check above is advisory; the unique index on alias is
	// the real guard, surfaced by Create as ErrAliasTaken.
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	return s.view(record), nil
}

// SearchURLs returns a page of the caller's URLs. Admins see all users'
// records; everyone else is scoped to their own.
func (s *Service) SearchURLs(ctx context.Context, caller auth.Caller, filters SearchFilters, page, limit int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = 20
	}

	status := filters.Status
	if status == "" {
		status = StatusActive
	}

	q := SearchQuery{
		Status: status,
		Search: filters.Search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	}

	if !caller.IsAdmin() {
		userID := caller.ID
		q.UserID = &userID
	}

	records, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(records))
	for _, record := range records {
		views = append(views, s.view(record))
	}

	return &SearchResult{URLs: views, Total: total, Page: page, Limit: limit}, nil
}

// GetRedirectURL resolves an alias for redirection, cache first. Clicks
// are recorded for non-protected links only; protected links record the
// click after successful password submission.
func (s *Service) GetRedirectURL(ctx context.Context, alias string, info clientinfo.ClientInfo) (*RedirectResult, error) {
	if entry, err := s.cache.GetRedirect(ctx, alias); err == nil {
		if entry.IsExpired {
			return nil, ErrExpired
		}

		if entry.IsPasswordProtected {
			return &RedirectResult{IsPasswordProtected: true}, nil
		}

		s.recorder.Record(ctx, alias, info)

		return &RedirectResult{OriginalURL: entry.OriginalURL}, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("redirect cache read failed", zap.String("alias", alias), zap.Error(err))
	}

	record, err := s.repo.FindActiveByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}

	if record.ExpiredAt(s.now()) {
		if err := s.expire(ctx, record); err != nil {
			return nil, err
		}

		s.setCache(ctx, alias, &RedirectEntry{IsExpired: true}, s.cfg.ExpiredURLCacheTTL)

		return nil, ErrExpired
	}

	s.setCache(ctx, alias, &RedirectEntry{
		OriginalURL:         record.OriginalURL,
		IsPasswordProtected: record.IsPasswordProtected,
	}, s.cfg.URLCacheTTL)

	if record.IsPasswordProtected {
		return &RedirectResult{IsPasswordProtected: true}, nil
	}

	s.recorder.Record(ctx, alias, info)

	return &RedirectResult{OriginalURL: record.OriginalURL}, nil
}

// AccessProtectedURL verifies the supplied password for a protected link
// and, on success, records the click and returns the original URL.
func (s *Service) AccessProtectedURL(ctx context.Context, alias, password string, info clientinfo.ClientInfo) (string, error) {
	record, err := s.repo.FindActiveByAlias(ctx, alias)
	if err != nil {
		return "", err
	}

	if record.ExpiredAt(s.now()) {
		if err := s.expire(ctx, record); err != nil {
			return "", err
		}

		return "", ErrExpired
	}

	if !s.hasher.Compare(password, record.PasswordHash) {
		return "", ErrIncorrectPassword
	}

	s.recorder.Record(ctx, alias, info)

	return record.OriginalURL, nil
}

// GetURLAnalytics returns the derived analytics view for a URL the caller
// owns (or any URL, for admins). The startDate/endDate parameters are
// accepted for forward compatibility; the timeline is always the trailing
// 30-day window.
func (s *Service) GetURLAnalytics(ctx context.Context, alias string, caller auth.Caller, startDate, endDate *time.Time) (*Analytics, error) {
	record, err := s.repo.FindByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}

	if record.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	referrers := record.Referrers
	if referrers == nil {
		referrers = map[string]int64{}
	}

	return &Analytics{
		TotalClicks:    record.Clicks,
		UniqueVisitors: record.DeviceInfo.UniqueVisitors,
		Referrers:      referrers,
		Browsers:       CalculatePercentages(record.DeviceInfo.Browsers),
		Devices:        CalculatePercentages(record.DeviceInfo.Devices),
		Timeline:       BuildTimeline(record.DeviceInfo.Timeline, s.now()),
	}, nil
}

// expire flips a record to expired and persists it. The transition is
// one-way and idempotent.
func (s *Service) expire(ctx context.Context, record *URL) error {
	record.Status = StatusExpired
	record.UpdatedAt = s.now()

	return s.repo.Update(ctx, record)
}

func (s *Service) setCache(ctx context.Context, alias string, entry *RedirectEntry, ttl time.Duration) {
	if err := s.cache.SetRedirect(ctx, alias, entry, ttl); err != nil {
		s.logger.Warn("redirect cache write failed", zap.String("alias", alias), zap.Error(err))
	}
}

func (s *Service) view(record *URL) *View {
	return &View{
		ID:                  record.ID,
		OriginalURL:         record.OriginalURL,
		Alias:               record.Alias,
		ShortURL:            record.ShortURL(s.cfg.AppURL),
		Title:               record.Title,
		Category:            record.Category,
		Status:              record.Status,
		ExpiresAt:           record.ExpiresAt,
		Clicks:              record.Clicks,
		LastClickedAt:       record.LastClickedAt,
		IsPasswordProtected: record.IsPasswordProtected,
		UserID:              record.UserID,
		CreatedAt:           record.CreatedAt,
	}
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
