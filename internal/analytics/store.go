package analytics

import (
	"context"

	"go.uber.org/zap"

	"github.com/snaplink-io/snaplink/internal/messaging"
)

// Store persists raw click events.
type Store interface {
	SaveClick(ctx context.Context, event *ClickEvent) error
}

// NewClickHandler builds the consumer handler that persists click events.
func NewClickHandler(store Store) messaging.Handler[ClickEvent] {
	return func(ctx context.Context, event *ClickEvent) error {
		return store.SaveClick(ctx, event)
	}
}

// NoopStore is a Store that only logs events. Used when the consumer runs
// without a database.
type NoopStore struct {
	logger *zap.Logger
}

// NewNoopStore creates a logging-only click store.
func NewNoopStore(logger *zap.Logger) *NoopStore {
	return &NoopStore{logger: logger}
}

func (n *NoopStore) SaveClick(_ context.Context, event *ClickEvent) error {
	n.logger.Info("click event received",
		zap.String("alias", event.Alias),
		zap.Time("occurredAt", event.OccurredAt),
		zap.String("browser", event.Browser),
		zap.String("deviceType", event.DeviceType),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
