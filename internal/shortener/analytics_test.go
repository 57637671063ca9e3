package shortener_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaplink-io/snaplink/internal/shortener"
)

func TestCalculatePercentages(t *testing.T) {
	t.Run("converts counts to integer percentages", func(t *testing.T) {
		result := shortener.CalculatePercentages(map[string]int64{
			"Chrome":  3,
			"Firefox": 1,
		})

		assert.Equal(t, int64(75), result["Chrome"])
		assert.Equal(t, int64(25), result["Firefox"])
	})

	t.Run("rounds to the nearest percent", func(t *testing.T) {
		result := shortener.CalculatePercentages(map[string]int64{
			"Chrome":  1,
			"Firefox": 1,
			"Safari":  1,
		})

		assert.Equal(t, int64(33), result["Chrome"])
		assert.Equal(t, int64(33), result["Firefox"])
		assert.Equal(t, int64(33), result["Safari"])
	})

	t.Run("returns an empty map for no data", func(t *testing.T) {
		result := shortener.CalculatePercentages(nil)

		assert.Empty(t, result)
	})

	t.Run("handles zero-count entries", func(t *testing.T) {
		result := shortener.CalculatePercentages(map[string]int64{"Chrome": 0})

		assert.Equal(t, int64(0), result["Chrome"])
	})
}

func TestBuildTimeline(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("spans the trailing thirty days plus today", func(t *testing.T) {
		timeline := shortener.BuildTimeline(nil, now)

		require.Len(t, timeline, 31)
		assert.Equal(t, "2026-07-30", timeline[0].Date)
		assert.Equal(t, "2026-08-29", timeline[30].Date)
	})

	t.Run("zero-fills days without clicks", func(t *testing.T) {
		timeline := shortener.BuildTimeline(map[string]int64{"2026-08-15": 4}, now)

		for _, point := range timeline {
			if point.Date == "2026-08-15" {
				assert.Equal(t, int64(4), point.Clicks)
			} else {
				assert.Equal(t, int64(0), point.Clicks, "day %s", point.Date)
			}
		}
	})

	t.Run("drops clicks outside the window", func(t *testing.T) {
		timeline := shortener.BuildTimeline(map[string]int64{"2026-06-01": 9}, now)

		var total int64
		for _, point := range timeline {
			total += point.Clicks
		}

		assert.Equal(t, int64(0), total)
	})
}
