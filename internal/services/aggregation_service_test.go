// internal/services/aggregation_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danalakshmi/freshtrack-backend/internal/alert"
)

func TestMergeTrendZeroFills(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	created := []trendDay{
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Count: 3, Quantity: 120},
		{Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Count: 1, Quantity: 40},
	}
	sold := []trendDay{
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Count: 2, Quantity: 60},
		{Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), Count: 1, Quantity: 25},
	}

	points := mergeTrend(created, sold, start, 7)
	require.Len(t, points, 7)

	assert.Equal(t, "2026-03-01", points[0].Date)
	assert.Equal(t, "2026-03-07", points[6].Date)

	// Day with both intake and sales.
	assert.Equal(t, "2026-03-02", points[1].Date)
	assert.Equal(t, int64(3), points[1].LotsCreated)
	assert.Equal(t, 120.0, points[1].QuantityReceived)
	assert.Equal(t, int64(2), points[1].LotsSold)
	assert.Equal(t, 60.0, points[1].QuantitySold)

	// Sales only.
	assert.Equal(t, int64(0), points[3].LotsCreated)
	assert.Equal(t, int64(1), points[3].LotsSold)
	assert.Equal(t, 25.0, points[3].QuantitySold)

	// Intake only.
	assert.Equal(t, int64(1), points[4].LotsCreated)
	assert.Equal(t, int64(0), points[4].LotsSold)

	// Untouched days are fully zeroed.
	assert.Equal(t, TrendPoint{Date: "2026-03-01"}, points[0])
	assert.Equal(t, TrendPoint{Date: "2026-03-03"}, points[2])
	assert.Equal(t, TrendPoint{Date: "2026-03-06"}, points[5])
	assert.Equal(t, TrendPoint{Date: "2026-03-07"}, points[6])
}

func TestMergeTrendEmptyInput(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	points := mergeTrend(nil, nil, start, 30)
	require.Len(t, points, 30)
	for _, point := range points {
		assert.Zero(t, point.LotsCreated)
		assert.Zero(t, point.LotsSold)
	}
}

func TestTopLotsWindowExcludesExpired(t *testing.T) {
	cfg := alert.DefaultConfig()
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	from, to := topLotsWindow(cfg, now)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), to)

	// A lot that expired yesterday falls below the window and must not
	// displace sellable stock from the dashboard listing.
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.True(t, yesterday.Before(from))
	assert.Equal(t, alert.LevelExpired, cfg.Classify(yesterday, now).Level)

	// Both window endpoints stay inside the urgent/important bands.
	assert.Equal(t, alert.LevelUrgent, cfg.Classify(from, now).Level)
	assert.Equal(t, alert.LevelImportant, cfg.Classify(to, now).Level)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(33.333333))
	assert.Equal(t, 66.67, round2(66.666666))
	assert.Equal(t, 0.0, round2(0))
	assert.Equal(t, 100.0, round2(100))
}
