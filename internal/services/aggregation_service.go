// internal/services/aggregation_service.go
package services

import (
	"context"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/danalakshmi/freshtrack-backend/internal/alert"
	"github.com/danalakshmi/freshtrack-backend/internal/apperrors"
	"github.com/danalakshmi/freshtrack-backend/internal/cache"
	"github.com/danalakshmi/freshtrack-backend/internal/models"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

// AggregationService builds the read-only dashboard and alert
// summaries. Banding thresholds are taken from the classifier config so
// SQL and in-process classification can never disagree. Results are
// cached for a few minutes; parameter changes clear the cache.
type AggregationService struct {
	db         *gorm.DB
	parameters *ParameterService
	lots       *LotService
	cache      *cache.Store
	clock      utils.Clock
}

type LevelSummaryRow struct {
	Level         alert.Level    `json:"level"`
	Count         int64          `json:"count"`
	TotalQuantity float64        `json:"total_quantity"`
	AvgDays       float64        `json:"avg_remaining_days"`
	MinDays       int            `json:"min_remaining_days"`
	MaxDays       int            `json:"max_remaining_days"`
	Categories    pq.StringArray `json:"categories" gorm:"type:text[]"`
	Color         string         `json:"color"`
}

type CategorySummaryRow struct {
	Category      string  `json:"category"`
	Count         int64   `json:"count"`
	TotalQuantity float64 `json:"total_quantity"`
}

type DashboardCounters struct {
	Urgent    int64 `json:"urgent"`
	Important int64 `json:"important"`
	Medium    int64 `json:"medium"`
	Low       int64 `json:"low"`
	Expired   int64 `json:"expired"`
}

type DashboardSnapshot struct {
	TopLots         []LotView         `json:"top_lots"`
	Counters        DashboardCounters `json:"counters"`
	TotalActiveLots int64             `json:"total_active_lots"`
	ActiveQuantity  float64           `json:"active_quantity"`
	SoldLots        int64             `json:"sold_lots"`
	AlertPercentage float64           `json:"alert_percentage"`
	RotationRate    float64           `json:"rotation_rate"`
	Timestamp       time.Time         `json:"timestamp"`
}

type TrendPoint struct {
	Date             string  `json:"date"`
	LotsCreated      int64   `json:"lots_created"`
	QuantityReceived float64 `json:"quantity_received"`
	LotsSold         int64   `json:"lots_sold"`
	QuantitySold     float64 `json:"quantity_sold"`
}

type ProductStatsRow struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Category      string  `json:"category"`
	ActiveLots    int64   `json:"active_lots"`
	TotalQuantity float64 `json:"total_quantity"`
	MinDays       int     `json:"min_remaining_days"`
	UrgentAlerts  int64   `json:"urgent_alerts"`
}

type SupplierStatsRow struct {
	Supplier      string  `json:"supplier"`
	LotCount      int64   `json:"lot_count"`
	ActiveLots    int64   `json:"active_lots"`
	AlertingLots  int64   `json:"alerting_lots"`
	TotalQuantity float64 `json:"total_quantity"`
}

const (
	defaultTopLots       = 10
	maxUpcomingLimit     = 100
	defaultUpcomingLimit = 20
	trendWindowDays      = 30
	upcomingWindowDays   = 7
)

func NewAggregationService(db *gorm.DB, parameters *ParameterService, lots *LotService, cacheStore *cache.Store, clock utils.Clock) *AggregationService {
	return &AggregationService{
		db:         db,
		parameters: parameters,
		lots:       lots,
		cache:      cacheStore,
		clock:      clock,
	}
}

// LevelSummary groups active alerting lots by alert level with
// quantity totals, day spreads and the impacted categories.
func (s *AggregationService) LevelSummary(ctx context.Context) ([]LevelSummaryRow, error) {
	today := s.today()
	key := cache.Key("alerts", "summary", today)

	var cached []LevelSummaryRow
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	cfg := s.parameters.AlertConfig()

	// Band in SQL with thresholds fed from the classifier config, so
	// the grouping matches Classify exactly.
	query := `
		SELECT
			CASE
				WHEN (l.expiration_date - ?::date) < 0 THEN 'expired'
				WHEN (l.expiration_date - ?::date) <= ? THEN 'urgent'
				WHEN (l.expiration_date - ?::date) <= ? THEN 'important'
				WHEN (l.expiration_date - ?::date) <= ? THEN 'medium'
				ELSE 'low'
			END AS level,
			COUNT(*) AS count,
			COALESCE(SUM(l.current_quantity), 0) AS total_quantity,
			AVG(l.expiration_date - ?::date) AS avg_days,
			MIN(l.expiration_date - ?::date) AS min_days,
			MAX(l.expiration_date - ?::date) AS max_days,
			array_agg(DISTINCT p.category) AS categories
		FROM lots l
		JOIN products p ON p.id = l.product_id
		WHERE l.status = ? AND (l.expiration_date - ?::date) <= ?
		GROUP BY 1`

	var rows []LevelSummaryRow
	err := s.db.Raw(query,
		today,
		today, cfg.UrgentDays,
		today, cfg.ImportantDays,
		today, cfg.MediumDays,
		today, today, today,
		models.LotStatusActive, today, cfg.LowDays,
	).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage("failed to compute level summary", err)
	}

	// Order urgent -> low with expired first, and attach palette colors
	ordered := make([]LevelSummaryRow, 0, len(rows))
	for _, level := range []alert.Level{alert.LevelExpired, alert.LevelUrgent, alert.LevelImportant, alert.LevelMedium, alert.LevelLow} {
		for _, row := range rows {
			if row.Level == level {
				row.Color = cfg.Colors[level]
				ordered = append(ordered, row)
			}
		}
	}

	s.cache.Put(ctx, key, ordered)
	return ordered, nil
}

// CategorySummary counts alerting lots and their quantity per product
// category.
func (s *AggregationService) CategorySummary(ctx context.Context) ([]CategorySummaryRow, error) {
	today := s.today()
	key := cache.Key("alerts", "categories", today)

	var cached []CategorySummaryRow
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	cfg := s.parameters.AlertConfig()

	var rows []CategorySummaryRow
	err := s.db.Raw(`
		SELECT
			p.category AS category,
			COUNT(*) AS count,
			COALESCE(SUM(l.current_quantity), 0) AS total_quantity
		FROM lots l
		JOIN products p ON p.id = l.product_id
		WHERE l.status = ? AND (l.expiration_date - ?::date) <= ?
		GROUP BY p.category
		ORDER BY count DESC`,
		models.LotStatusActive, today, cfg.LowDays,
	).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage("failed to compute category summary", err)
	}

	s.cache.Put(ctx, key, rows)
	return rows, nil
}

// Dashboard assembles the landing-page snapshot: the most urgent lots
// and fixed counters plus derived ratios.
func (s *AggregationService) Dashboard(ctx context.Context, topN int) (*DashboardSnapshot, error) {
	if topN < 1 {
		topN = defaultTopLots
	}

	key := cache.Key("dashboard", "snapshot", s.today(), topN)
	var cached DashboardSnapshot
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	cfg := s.parameters.AlertConfig()
	now := s.clock.Now()

	// Most urgent lots: the urgent and important bands only, closest
	// expiration first. Already-expired lots are counted separately and
	// must not displace sellable stock from the list.
	from, to := topLotsWindow(cfg, now)
	var lots []models.Lot
	err := s.db.Preload("Product").
		Where("status = ?", models.LotStatusActive).
		Where("expiration_date BETWEEN ? AND ?", from, to).
		Order("expiration_date ASC").
		Limit(topN).
		Find(&lots).Error
	if err != nil {
		return nil, apperrors.Storage("failed to fetch urgent lots", err)
	}

	topLots := make([]LotView, 0, len(lots))
	for _, lot := range lots {
		topLots = append(topLots, s.lots.toView(lot, cfg))
	}

	counters, err := s.counters(cfg)
	if err != nil {
		return nil, err
	}

	var totalActive int64
	var activeQuantity float64
	if err := s.db.Model(&models.Lot{}).Where("status = ?", models.LotStatusActive).Count(&totalActive).Error; err != nil {
		return nil, apperrors.Storage("failed to count active lots", err)
	}
	if err := s.db.Model(&models.Lot{}).Where("status = ?", models.LotStatusActive).
		Select("COALESCE(SUM(current_quantity), 0)").Scan(&activeQuantity).Error; err != nil {
		return nil, apperrors.Storage("failed to sum active quantity", err)
	}

	var soldLots int64
	if err := s.db.Model(&models.Lot{}).Where("status = ?", models.LotStatusSold).Count(&soldLots).Error; err != nil {
		return nil, apperrors.Storage("failed to count sold lots", err)
	}

	snapshot := &DashboardSnapshot{
		TopLots:         topLots,
		Counters:        counters,
		TotalActiveLots: totalActive,
		ActiveQuantity:  activeQuantity,
		SoldLots:        soldLots,
		Timestamp:       now,
	}

	if totalActive > 0 {
		snapshot.AlertPercentage = round2(float64(counters.Urgent+counters.Important) / float64(totalActive) * 100)
	}
	if soldLots+counters.Expired > 0 {
		snapshot.RotationRate = round2(float64(soldLots) / float64(soldLots+counters.Expired) * 100)
	}

	s.cache.Put(ctx, key, snapshot)
	return snapshot, nil
}

// Trend reports per-day lot intake and sales over the trailing 30
// days, with missing days zero-filled on both sides.
func (s *AggregationService) Trend(ctx context.Context) ([]TrendPoint, error) {
	key := cache.Key("dashboard", "trend", s.today())
	var cached []TrendPoint
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	now := s.clock.Now()
	start := now.AddDate(0, 0, -trendWindowDays+1)

	var created []trendDay
	err := s.db.Raw(`
		SELECT DATE(created_at) AS date,
		       COUNT(*) AS count,
		       COALESCE(SUM(initial_quantity), 0) AS quantity
		FROM lots
		WHERE created_at >= ?
		GROUP BY DATE(created_at)`,
		startOfDay(start),
	).Scan(&created).Error
	if err != nil {
		return nil, apperrors.Storage("failed to compute intake trend", err)
	}

	var sold []trendDay
	err = s.db.Raw(`
		SELECT DATE(sold_date) AS date,
		       COUNT(*) AS count,
		       COALESCE(SUM(initial_quantity), 0) AS quantity
		FROM lots
		WHERE sold_date >= ? AND status = ?
		GROUP BY DATE(sold_date)`,
		startOfDay(start), models.LotStatusSold,
	).Scan(&sold).Error
	if err != nil {
		return nil, apperrors.Storage("failed to compute sales trend", err)
	}

	points := mergeTrend(created, sold, start, trendWindowDays)

	s.cache.Put(ctx, key, points)
	return points, nil
}

type trendDay struct {
	Date     time.Time
	Count    int64
	Quantity float64
}

// mergeTrend joins per-day intake and sales rows onto a contiguous
// window, zero-filling days that appear in neither set.
func mergeTrend(created, sold []trendDay, start time.Time, days int) []TrendPoint {
	createdByDay := make(map[string]trendDay, len(created))
	for _, row := range created {
		createdByDay[row.Date.Format(dateLayout)] = row
	}
	soldByDay := make(map[string]trendDay, len(sold))
	for _, row := range sold {
		soldByDay[row.Date.Format(dateLayout)] = row
	}

	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format(dateLayout)
		point := TrendPoint{Date: day}
		if row, ok := createdByDay[day]; ok {
			point.LotsCreated = row.Count
			point.QuantityReceived = row.Quantity
		}
		if row, ok := soldByDay[day]; ok {
			point.LotsSold = row.Count
			point.QuantitySold = row.Quantity
		}
		points = append(points, point)
	}
	return points
}

// UpcomingExpirations lists active lots expiring within the next seven
// days, soonest first then by product name.
func (s *AggregationService) UpcomingExpirations(ctx context.Context, limit int) ([]LotView, error) {
	if limit < 1 {
		limit = defaultUpcomingLimit
	}
	if limit > maxUpcomingLimit {
		limit = maxUpcomingLimit
	}

	now := s.clock.Now()
	cfg := s.parameters.AlertConfig()

	var lots []models.Lot
	err := s.db.Preload("Product").
		Joins("JOIN products ON products.id = lots.product_id").
		Where("lots.status = ?", models.LotStatusActive).
		Where("lots.expiration_date BETWEEN ? AND ?", startOfDay(now), startOfDay(now).AddDate(0, 0, upcomingWindowDays)).
		Order("lots.expiration_date ASC, products.name ASC").
		Limit(limit).
		Find(&lots).Error
	if err != nil {
		return nil, apperrors.Storage("failed to fetch upcoming expirations", err)
	}

	views := make([]LotView, 0, len(lots))
	for _, lot := range lots {
		views = append(views, s.lots.toView(lot, cfg))
	}
	return views, nil
}

// ProductStatistics ranks products by lot urgency.
func (s *AggregationService) ProductStatistics(limit int) ([]ProductStatsRow, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	today := s.today()
	cfg := s.parameters.AlertConfig()

	var rows []ProductStatsRow
	err := s.db.Raw(`
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.category AS category,
			COUNT(l.id) AS active_lots,
			COALESCE(SUM(l.current_quantity), 0) AS total_quantity,
			MIN(l.expiration_date - ?::date) AS min_days,
			COUNT(*) FILTER (WHERE (l.expiration_date - ?::date) <= ?) AS urgent_alerts
		FROM products p
		JOIN lots l ON l.product_id = p.id AND l.status = ?
		WHERE p.active = true
		GROUP BY p.id, p.name, p.category
		ORDER BY urgent_alerts DESC, min_days ASC, p.name ASC
		LIMIT ?`,
		today, today, cfg.UrgentDays, models.LotStatusActive, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage("failed to compute product statistics", err)
	}
	return rows, nil
}

// SupplierStatistics summarizes lots per supplier, most alerting first.
func (s *AggregationService) SupplierStatistics() ([]SupplierStatsRow, error) {
	today := s.today()
	cfg := s.parameters.AlertConfig()

	var rows []SupplierStatsRow
	err := s.db.Raw(`
		SELECT
			l.supplier AS supplier,
			COUNT(*) AS lot_count,
			COUNT(*) FILTER (WHERE l.status = ?) AS active_lots,
			COUNT(*) FILTER (WHERE l.status = ? AND (l.expiration_date - ?::date) <= ?) AS alerting_lots,
			COALESCE(SUM(l.current_quantity), 0) AS total_quantity
		FROM lots l
		WHERE l.supplier <> ''
		GROUP BY l.supplier
		ORDER BY alerting_lots DESC, lot_count DESC
		LIMIT 20`,
		models.LotStatusActive, models.LotStatusActive, today, cfg.LowDays,
	).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage("failed to compute supplier statistics", err)
	}
	return rows, nil
}

func (s *AggregationService) counters(cfg alert.Config) (DashboardCounters, error) {
	today := s.today()

	var row struct {
		Urgent    int64
		Important int64
		Medium    int64
		Low       int64
		Expired   int64
	}
	err := s.db.Raw(`
		SELECT
			COUNT(*) FILTER (WHERE (expiration_date - ?::date) >= 0 AND (expiration_date - ?::date) <= ?) AS urgent,
			COUNT(*) FILTER (WHERE (expiration_date - ?::date) > ? AND (expiration_date - ?::date) <= ?) AS important,
			COUNT(*) FILTER (WHERE (expiration_date - ?::date) > ? AND (expiration_date - ?::date) <= ?) AS medium,
			COUNT(*) FILTER (WHERE (expiration_date - ?::date) > ? AND (expiration_date - ?::date) <= ?) AS low,
			COUNT(*) FILTER (WHERE (expiration_date - ?::date) < 0) AS expired
		FROM lots
		WHERE status = ?`,
		today, today, cfg.UrgentDays,
		today, cfg.UrgentDays, today, cfg.ImportantDays,
		today, cfg.ImportantDays, today, cfg.MediumDays,
		today, cfg.MediumDays, today, cfg.LowDays,
		today,
		models.LotStatusActive,
	).Scan(&row).Error
	if err != nil {
		return DashboardCounters{}, apperrors.Storage("failed to compute counters", err)
	}

	return DashboardCounters{
		Urgent:    row.Urgent,
		Important: row.Important,
		Medium:    row.Medium,
		Low:       row.Low,
		Expired:   row.Expired,
	}, nil
}

func (s *AggregationService) today() string {
	return s.clock.Now().Format(dateLayout)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// topLotsWindow bounds the dashboard's most-urgent listing to the urgent
// and important bands: today through the important threshold, inclusive.
func topLotsWindow(cfg alert.Config, now time.Time) (time.Time, time.Time) {
	from := startOfDay(now)
	return from, from.AddDate(0, 0, cfg.ImportantDays)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
