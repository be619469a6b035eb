// internal/alert/classifier_test.go
package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danalakshmi/freshtrack-backend/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRemainingDays(t *testing.T) {
	reference := date("2026-03-10")

	assert.Equal(t, 0, RemainingDays(date("2026-03-10"), reference))
	assert.Equal(t, 1, RemainingDays(date("2026-03-11"), reference))
	assert.Equal(t, -1, RemainingDays(date("2026-03-09"), reference))
	assert.Equal(t, 30, RemainingDays(date("2026-04-09"), reference))

	// Time of day must not shift the day count.
	lateReference := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 1, RemainingDays(date("2026-03-11"), lateReference))
}

func TestClassifyBands(t *testing.T) {
	cfg := DefaultConfig()
	reference := date("2026-03-10")

	tests := []struct {
		name       string
		expiration string
		level      Level
		days       int
	}{
		{"already expired", "2026-03-09", LevelExpired, -1},
		{"expires today", "2026-03-10", LevelUrgent, 0},
		{"one day left", "2026-03-11", LevelUrgent, 1},
		{"two days left", "2026-03-12", LevelImportant, 2},
		{"seven days left", "2026-03-17", LevelImportant, 7},
		{"eight days left", "2026-03-18", LevelMedium, 8},
		{"thirty days left", "2026-04-09", LevelMedium, 30},
		{"thirty one days left", "2026-04-10", LevelLow, 31},
		{"sixty days left", "2026-05-09", LevelLow, 60},
		{"sixty one days left", "2026-05-10", LevelNone, 61},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cfg.Classify(date(tt.expiration), reference)
			assert.Equal(t, tt.level, result.Level)
			assert.Equal(t, tt.days, result.RemainingDays)
			expectedColor, ok := cfg.Colors[tt.level]
			if !ok {
				expectedColor = "#FFFFFF"
			}
			assert.Equal(t, expectedColor, result.Color)
		})
	}
}

func TestClassifyColors(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "#8B0000", cfg.Colors[LevelExpired])
	assert.Equal(t, "#FF0000", cfg.Colors[LevelUrgent])
	assert.Equal(t, "#FF8C00", cfg.Colors[LevelImportant])
	assert.Equal(t, "#FFD700", cfg.Colors[LevelMedium])
	assert.Equal(t, "#90EE90", cfg.Colors[LevelLow])

	// No palette entry for none; Classify falls back to white.
	reference := date("2026-03-10")
	assert.Equal(t, "#FFFFFF", cfg.Classify(date("2026-09-01"), reference).Color)
}

func TestLevelKnown(t *testing.T) {
	for _, level := range []Level{LevelExpired, LevelUrgent, LevelImportant, LevelMedium, LevelLow, LevelNone} {
		assert.True(t, level.Known(), string(level))
	}

	// Filter values off the wire are arbitrary strings.
	assert.False(t, Level("").Known())
	assert.False(t, Level("critical").Known())
	assert.False(t, Level("URGENT").Known())
}

func TestFlagsAreCumulative(t *testing.T) {
	cfg := DefaultConfig()
	reference := date("2026-03-10")

	j1, j7, j30, j60 := cfg.Flags(date("2026-03-11"), reference)
	assert.True(t, j1)
	assert.True(t, j7)
	assert.True(t, j30)
	assert.True(t, j60)

	j1, j7, j30, j60 = cfg.Flags(date("2026-03-17"), reference)
	assert.False(t, j1)
	assert.True(t, j7)
	assert.True(t, j30)
	assert.True(t, j60)

	j1, j7, j30, j60 = cfg.Flags(date("2026-04-09"), reference)
	assert.False(t, j1)
	assert.False(t, j7)
	assert.True(t, j30)
	assert.True(t, j60)

	j1, j7, j30, j60 = cfg.Flags(date("2026-05-09"), reference)
	assert.False(t, j1)
	assert.False(t, j7)
	assert.False(t, j30)
	assert.True(t, j60)

	j1, j7, j30, j60 = cfg.Flags(date("2026-06-01"), reference)
	assert.False(t, j1)
	assert.False(t, j7)
	assert.False(t, j30)
	assert.False(t, j60)
}

func TestUrgencyScore(t *testing.T) {
	// Base score from remaining days, bonus from quantity at stake.
	assert.Equal(t, 120, UrgencyScore(-3, 150))
	assert.Equal(t, 105, UrgencyScore(-1, 0))
	assert.Equal(t, 95, UrgencyScore(1, 51))
	assert.Equal(t, 85, UrgencyScore(0, 0))
	assert.Equal(t, 70, UrgencyScore(5, 11))
	assert.Equal(t, 45, UrgencyScore(20, 5))
	assert.Equal(t, 25, UrgencyScore(45, 2))
	assert.Equal(t, 25, UrgencyScore(90, 0))
}

func TestConfigFromParameters(t *testing.T) {
	params := []models.Parameter{
		{Name: models.ParamAlertUrgent, Value: "2"},
		{Name: models.ParamAlertImportant, Value: "10"},
		{Name: models.ParamAlertMedium, Value: "45"},
		{Name: models.ParamAlertLow, Value: "90"},
		{Name: models.ParamColorUrgent, Value: "#CC0000"},
	}

	cfg := ConfigFromParameters(params)
	assert.Equal(t, 2, cfg.UrgentDays)
	assert.Equal(t, 10, cfg.ImportantDays)
	assert.Equal(t, 45, cfg.MediumDays)
	assert.Equal(t, 90, cfg.LowDays)
	assert.Equal(t, "#CC0000", cfg.Colors[LevelUrgent])
	// Untouched entries keep their defaults.
	assert.Equal(t, "#FF8C00", cfg.Colors[LevelImportant])

	reference := date("2026-03-10")
	assert.Equal(t, LevelUrgent, cfg.Classify(date("2026-03-12"), reference).Level)
	assert.Equal(t, LevelLow, cfg.Classify(date("2026-05-20"), reference).Level)
}

func TestConfigFromParametersIgnoresGarbage(t *testing.T) {
	params := []models.Parameter{
		{Name: models.ParamAlertUrgent, Value: "not-a-number"},
		{Name: models.ParamAlertImportant, Value: "-5"},
	}

	cfg := ConfigFromParameters(params)
	assert.Equal(t, DefaultConfig().UrgentDays, cfg.UrgentDays)
	assert.Equal(t, DefaultConfig().ImportantDays, cfg.ImportantDays)
}
