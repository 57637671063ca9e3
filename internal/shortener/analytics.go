package shortener

import (
	"math"
	"time"
)

// timelineDays is the size of the trailing daily-click window returned by
// analytics reads.
const timelineDays = 30

// TimelinePoint is one day of the click timeline.
type TimelinePoint struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// Analytics is the derived analytics view for a URL.
type Analytics struct {
	TotalClicks    int64            `json:"totalClicks"`
	UniqueVisitors int64            `json:"uniqueVisitors"`
	Referrers      map[string]int64 `json:"referrers"`
	Browsers       map[string]int64 `json:"browsers"`
	Devices        map[string]int64 `json:"devices"`
	Timeline       []TimelinePoint  `json:"timeline"`
}

// CalculatePercentages converts raw category counts into integer
// percentages of the category total. An empty map yields an empty map; the
// total defaults to 1 so the division is always defined.
func CalculatePercentages(counts map[string]int64) map[string]int64 {
	var total int64
	for _, c := range counts {
		total += c
	}

	if total == 0 {
		total = 1
	}

	percentages := make(map[string]int64, len(counts))
	for key, count := range counts {
		percentages[key] = int64(math.Round(float64(count) / float64(total) * 100))
	}

	return percentages
}

// BuildTimeline produces the zero-filled daily timeline for the trailing
// window ending at now: one point for every calendar day from timelineDays
// days ago through today.
func BuildTimeline(clicksByDay map[string]int64, now time.Time) []TimelinePoint {
	end := now.UTC()
	start := end.AddDate(0, 0, -timelineDays)

	timeline := make([]TimelinePoint, 0, timelineDays+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(time.DateOnly)
		timeline = append(timeline, TimelinePoint{
			Date:   date,
			Clicks: clicksByDay[date],
		})
	}

	return timeline
}
