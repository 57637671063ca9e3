package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/snaplink-io/snaplink/internal/clientinfo"
	"github.com/snaplink-io/snaplink/internal/messaging"
	"github.com/snaplink-io/snaplink/internal/shortener"
)

// Recorder folds resolved visits into a URL record's aggregate counters
// and emits a ClickEvent for the raw event stream.
//
// Recording is best effort: failures are logged and never surface to the
// redirect path. The aggregate update runs through Repository.RecordClick,
// which guarantees the read-modify-write cannot lose concurrent clicks.
type Recorder struct {
	repo    shortener.Repository
	publish messaging.Publish[ClickEvent]
	logger  *zap.Logger
	now     func() time.Time
}

// NewRecorder creates a click recorder.
func NewRecorder(repo shortener.Repository, publish messaging.Publish[ClickEvent], logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:    repo,
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the recorder clock. Intended for tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now

	return r
}

// Record applies one click to the record with the given alias.
func (r *Recorder) Record(ctx context.Context, alias string, info clientinfo.ClientInfo) {
	now := r.now()

	err := r.repo.RecordClick(ctx, alias, func(u *shortener.URL) {
		u.ApplyClick(info, now)
	})
	if err != nil {
		r.logger.Error("failed to record click",
			zap.String("alias", alias),
			zap.Error(err),
		)

		return
	}

	event := &ClickEvent{
		Alias:      alias,
		OccurredAt: now,
		IPAddress:  info.IPAddress,
		UserAgent:  info.UserAgent,
		Referrer:   info.Referrer,
		Browser:    info.Browser,
		DeviceType: info.DeviceType,
		VisitorID:  info.VisitorID,
	}

	if err := r.publish(event); err != nil {
		r.logger.Error("failed to publish click event",
			zap.String("alias", alias),
			zap.Error(err),
		)
	}
}

// Compile-time check.
var _ shortener.ClickRecorder = (*Recorder)(nil)
