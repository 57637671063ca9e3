package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/snaplink-io/snaplink/internal/analytics"
)

// ClickLog persists raw click events to the append-only click_events
// table. One row per resolved visit; aggregate counters on the URL record
// stay authoritative, the log enables richer queries later.
type ClickLog struct {
	pool *pgxpool.Pool
}

// NewClickLog creates a PostgreSQL-backed click event store.
func NewClickLog(pool *pgxpool.Pool) *ClickLog {
	return &ClickLog{pool: pool}
}

func (c *ClickLog) SaveClick(ctx context.Context, event *analytics.ClickEvent) error {
	query := `
		INSERT INTO click_events (
			id, alias, occurred_at, ip_address, user_agent, referrer,
			browser, device_type, visitor_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := c.pool.Exec(ctx, query,
		uuid.New(),
		event.Alias,
		event.OccurredAt,
		event.IPAddress,
		event.UserAgent,
		event.Referrer,
		event.Browser,
		event.DeviceType,
		event.VisitorID,
	)

	return err
}

// Compile-time check.
var _ analytics.Store = (*ClickLog)(nil)
