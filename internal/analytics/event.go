package analytics

import "time"

// TopicClick is the watermill topic carrying one event per resolved visit.
const TopicClick = "url.clicked"

// ClickEvent is the append-only record of a single resolved visit. The
// consumer persists these raw events alongside the aggregate counters kept
// on the URL record.
type ClickEvent struct {
	Alias      string    `json:"alias"`
	OccurredAt time.Time `json:"occurredAt"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
	Browser    string    `json:"browser"`
	DeviceType string    `json:"deviceType"`
	VisitorID  string    `json:"visitorId"`
}
