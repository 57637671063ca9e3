package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/snaplink-io/snaplink/internal/shortener"
)

// pgUniqueViolation is the Postgres error code for unique index conflicts.
const pgUniqueViolation = "23505"

const urlColumns = `
	id, original_url, alias, title, status, expires_at, clicks,
	last_clicked_at, is_password_protected, password_hash, custom_domain,
	category, user_id, device_info, referrers, created_at, updated_at
`

// Postgres is the PostgreSQL implementation of shortener.Repository.
//
// The unique index on alias is the authoritative uniqueness guard: a
// conflicting insert surfaces as shortener.ErrAliasTaken rather than a
// silent duplicate, which resolves the check-then-act race on custom
// aliases.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed URL repository.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Create(ctx context.Context, u *shortener.URL) error {
	deviceInfo, referrers, err := marshalAggregates(u)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO urls (` + urlColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = p.pool.Exec(ctx, query,
		u.ID,
		u.OriginalURL,
		u.Alias,
		nullable(u.Title),
		string(u.Status),
		u.ExpiresAt,
		u.Clicks,
		u.LastClickedAt,
		u.IsPasswordProtected,
		nullable(u.PasswordHash),
		nullable(u.CustomDomain),
		nullable(u.Category),
		u.UserID,
		deviceInfo,
		referrers,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return shortener.ErrAliasTaken
		}

		return err
	}

	return nil
}

func (p *Postgres) FindByAlias(ctx context.Context, alias string) (*shortener.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE alias = $1`

	return scanURL(p.pool.QueryRow(ctx, query, alias))
}

func (p *Postgres) FindActiveByAlias(ctx context.Context, alias string) (*shortener.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE alias = $1 AND status = $2`

	return scanURL(p.pool.QueryRow(ctx, query, alias, string(shortener.StatusActive)))
}

func (p *Postgres) Update(ctx context.Context, u *shortener.URL) error {
	deviceInfo, referrers, err := marshalAggregates(u)
	if err != nil {
		return err
	}

	query := `
		UPDATE urls SET
			original_url = $2, title = $3, status = $4, expires_at = $5,
			clicks = $6, last_clicked_at = $7, is_password_protected = $8,
			password_hash = $9, custom_domain = $10, category = $11,
			device_info = $12, referrers = $13, updated_at = $14
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		u.ID,
		u.OriginalURL,
		nullable(u.Title),
		string(u.Status),
		u.ExpiresAt,
		u.Clicks,
		u.LastClickedAt,
		u.IsPasswordProtected,
		nullable(u.PasswordHash),
		nullable(u.CustomDomain),
		nullable(u.Category),
		deviceInfo,
		referrers,
		u.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *Postgres) Search(ctx context.Context, q shortener.SearchQuery) ([]*shortener.URL, int64, error) {
	clauses := []string{"status = $1"}
	args := []any{string(q.Status)}

	if q.UserID != nil {
		args = append(args, *q.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(original_url ILIKE $%d OR alias ILIKE $%d OR title ILIKE $%d)", n, n, n))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	if err := p.pool.QueryRow(ctx, "SELECT count(*) FROM urls WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM urls WHERE %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d",
		urlColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Offset, q.Limit)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var urls []*shortener.URL

	for rows.Next() {
		u, err := scanURL(rows)
		if err != nil {
			return nil, 0, err
		}

		urls = append(urls, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return urls, total, nil
}

// RecordClick applies a click mutation inside one transaction, locking the
// row for the duration so concurrent clicks on the same alias cannot lose
// updates.
func (p *Postgres) RecordClick(ctx context.Context, alias string, apply func(*shortener.URL)) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + urlColumns + ` FROM urls WHERE alias = $1 FOR UPDATE`

	u, err := scanURL(tx.QueryRow(ctx, query, alias))
	if err != nil {
		return err
	}

	apply(u)

	deviceInfo, referrers, err := marshalAggregates(u)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE urls SET
			clicks = $2, last_clicked_at = $3, device_info = $4, referrers = $5
		WHERE id = $1
	`, u.ID, u.Clicks, u.LastClickedAt, deviceInfo, referrers)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanURL(row rowScanner) (*shortener.URL, error) {
	var (
		u            shortener.URL
		status       string
		title        *string
		passwordHash *string
		customDomain *string
		category     *string
		deviceInfo   []byte
		referrers    []byte
	)

	err := row.Scan(
		&u.ID,
		&u.OriginalURL,
		&u.Alias,
		&title,
		&status,
		&u.ExpiresAt,
		&u.Clicks,
		&u.LastClickedAt,
		&u.IsPasswordProtected,
		&passwordHash,
		&customDomain,
		&category,
		&u.UserID,
		&deviceInfo,
		&referrers,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	u.Status = shortener.Status(status)
	u.Title = deref(title)
	u.PasswordHash = deref(passwordHash)
	u.CustomDomain = deref(customDomain)
	u.Category = deref(category)

	if len(deviceInfo) > 0 {
		if err := json.Unmarshal(deviceInfo, &u.DeviceInfo); err != nil {
			return nil, err
		}
	}

	if len(referrers) > 0 {
		if err := json.Unmarshal(referrers, &u.Referrers); err != nil {
			return nil, err
		}
	}

	return &u, nil
}

func marshalAggregates(u *shortener.URL) (deviceInfo, referrers []byte, err error) {
	deviceInfo, err = json.Marshal(u.DeviceInfo)
	if err != nil {
		return nil, nil, err
	}

	if u.Referrers == nil {
		referrers = []byte("{}")
	} else if referrers, err = json.Marshal(u.Referrers); err != nil {
		return nil, nil, err
	}

	return deviceInfo, referrers, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Compile-time check.
var _ shortener.Repository = (*Postgres)(nil)
