// internal/alert/classifier.go

// Package alert holds the single source of truth for expiration alert
// classification. Levels, thresholds and colors are defined here and
// nowhere else; services either call Classify directly or feed this
// config's thresholds into their SQL so the banding cannot diverge.
package alert

import (
	"strconv"
	"time"

	"github.com/danalakshmi/freshtrack-backend/internal/models"
)

type Level string

const (
	LevelExpired   Level = "expired"
	LevelUrgent    Level = "urgent"
	LevelImportant Level = "important"
	LevelMedium    Level = "medium"
	LevelLow       Level = "low"
	LevelNone      Level = "none"
)

// Rank orders levels by severity for sorting, most severe first.
func (l Level) Rank() int {
	switch l {
	case LevelExpired:
		return 0
	case LevelUrgent:
		return 1
	case LevelImportant:
		return 2
	case LevelMedium:
		return 3
	case LevelLow:
		return 4
	default:
		return 5
	}
}

// Known reports whether l is one of the defined levels. Filter inputs
// coming off the wire are checked with this before querying.
func (l Level) Known() bool {
	switch l {
	case LevelExpired, LevelUrgent, LevelImportant, LevelMedium, LevelLow, LevelNone:
		return true
	default:
		return false
	}
}

// Config carries the day thresholds for each band and the display
// palette. Zero values are never used; call DefaultConfig and override.
type Config struct {
	UrgentDays    int
	ImportantDays int
	MediumDays    int
	LowDays       int
	Colors        map[Level]string
}

const noAlertColor = "#FFFFFF"

func DefaultConfig() Config {
	return Config{
		UrgentDays:    1,
		ImportantDays: 7,
		MediumDays:    30,
		LowDays:       60,
		Colors: map[Level]string{
			LevelExpired:   "#8B0000",
			LevelUrgent:    "#FF0000",
			LevelImportant: "#FF8C00",
			LevelMedium:    "#FFD700",
			LevelLow:       "#90EE90",
		},
	}
}

// ConfigFromParameters applies threshold and color overrides from
// parameter rows on top of the defaults. Unknown names and unparsable
// values are ignored.
func ConfigFromParameters(params []models.Parameter) Config {
	cfg := DefaultConfig()
	for _, p := range params {
		switch p.Name {
		case models.ParamAlertUrgent:
			if v, err := strconv.Atoi(p.Value); err == nil && v >= 0 {
				cfg.UrgentDays = v
			}
		case models.ParamAlertImportant:
			if v, err := strconv.Atoi(p.Value); err == nil && v >= 0 {
				cfg.ImportantDays = v
			}
		case models.ParamAlertMedium:
			if v, err := strconv.Atoi(p.Value); err == nil && v >= 0 {
				cfg.MediumDays = v
			}
		case models.ParamAlertLow:
			if v, err := strconv.Atoi(p.Value); err == nil && v >= 0 {
				cfg.LowDays = v
			}
		case models.ParamColorExpired:
			cfg.Colors[LevelExpired] = p.Value
		case models.ParamColorUrgent:
			cfg.Colors[LevelUrgent] = p.Value
		case models.ParamColorImportant:
			cfg.Colors[LevelImportant] = p.Value
		case models.ParamColorMedium:
			cfg.Colors[LevelMedium] = p.Value
		case models.ParamColorLow:
			cfg.Colors[LevelLow] = p.Value
		}
	}
	return cfg
}

type Classification struct {
	Level         Level  `json:"level"`
	RemainingDays int    `json:"remaining_days"`
	Color         string `json:"color"`
}

// RemainingDays returns the calendar-day difference between the
// expiration date and the reference date. Negative once expired.
func RemainingDays(expiration, reference time.Time) int {
	exp := truncateToDay(expiration)
	ref := truncateToDay(reference)
	return int(exp.Sub(ref).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Classify maps an expiration date onto an alert level and display
// color. Band upper bounds are inclusive, first match wins.
func (c Config) Classify(expiration, reference time.Time) Classification {
	days := RemainingDays(expiration, reference)
	level := c.levelFor(days)
	color, ok := c.Colors[level]
	if !ok {
		color = noAlertColor
	}
	return Classification{Level: level, RemainingDays: days, Color: color}
}

func (c Config) levelFor(days int) Level {
	switch {
	case days < 0:
		return LevelExpired
	case days <= c.UrgentDays:
		return LevelUrgent
	case days <= c.ImportantDays:
		return LevelImportant
	case days <= c.MediumDays:
		return LevelMedium
	case days <= c.LowDays:
		return LevelLow
	default:
		return LevelNone
	}
}

// Flags reports the four cached alert booleans for a lot, one per band
// threshold. A lot inside a tighter band also sets the wider flags, so
// j60 is true for anything within 60 days of expiring.
func (c Config) Flags(expiration, reference time.Time) (j1, j7, j30, j60 bool) {
	days := RemainingDays(expiration, reference)
	j1 = days <= c.UrgentDays
	j7 = days <= c.ImportantDays
	j30 = days <= c.MediumDays
	j60 = days <= c.LowDays
	return
}

// UrgencyScore combines level severity with a quantity bonus. Used only
// to order alert listings, never to drive state transitions.
func UrgencyScore(remainingDays int, quantity float64) int {
	var score int
	switch {
	case remainingDays < 0:
		score = 100
	case remainingDays <= 1:
		score = 80
	case remainingDays <= 7:
		score = 60
	case remainingDays <= 30:
		score = 40
	default:
		score = 20
	}

	switch {
	case quantity > 100:
		score += 20
	case quantity > 50:
		score += 15
	case quantity > 10:
		score += 10
	default:
		score += 5
	}
	return score
}
