// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/danalakshmi/freshtrack-backend/internal/config"
	"github.com/danalakshmi/freshtrack-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.Product{},
		&models.Lot{},
		&models.Parameter{},
		&models.User{},
		&models.Session{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, active)",
		"CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products(LOWER(name))",

		// Lot indexes
		"CREATE INDEX IF NOT EXISTS idx_lots_product_status ON lots(product_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_lots_expiration_status ON lots(expiration_date, status)",
		"CREATE INDEX IF NOT EXISTS idx_lots_sold_date ON lots(sold_date) WHERE sold_date IS NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_lots_created_at ON lots(created_at DESC)",

		// Session indexes
		"CREATE INDEX IF NOT EXISTS idx_sessions_user_expires ON sessions(user_id, expires_at)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the default admin account and the protected
// alert parameters when they are missing.
func SeedInitialData(db *gorm.DB) error {
	logrus.Info("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Role:     models.UserRoleAdmin,
			Active:   true,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logrus.Info("Default admin user created successfully")
	}

	defaultParameters := []models.Parameter{
		{Name: models.ParamAlertUrgent, Value: "1", Type: models.ParameterTypeInt, Description: "Days before expiration for the urgent alert band"},
		{Name: models.ParamAlertImportant, Value: "7", Type: models.ParameterTypeInt, Description: "Days before expiration for the important alert band"},
		{Name: models.ParamAlertMedium, Value: "30", Type: models.ParameterTypeInt, Description: "Days before expiration for the medium alert band"},
		{Name: models.ParamAlertLow, Value: "60", Type: models.ParameterTypeInt, Description: "Days before expiration for the low alert band"},
		{Name: models.ParamColorExpired, Value: "#8B0000", Type: models.ParameterTypeColor, Description: "Display color for expired lots"},
		{Name: models.ParamColorUrgent, Value: "#FF0000", Type: models.ParameterTypeColor, Description: "Display color for urgent alerts"},
		{Name: models.ParamColorImportant, Value: "#FF8C00", Type: models.ParameterTypeColor, Description: "Display color for important alerts"},
		{Name: models.ParamColorMedium, Value: "#FFD700", Type: models.ParameterTypeColor, Description: "Display color for medium alerts"},
		{Name: models.ParamColorLow, Value: "#90EE90", Type: models.ParameterTypeColor, Description: "Display color for low alerts"},
	}

	for _, param := range defaultParameters {
		var count int64
		db.Model(&models.Parameter{}).Where("name = ?", param.Name).Count(&count)

		if count == 0 {
			if err := db.Create(&param).Error; err != nil {
				logrus.WithError(err).Warnf("Failed to create parameter %s", param.Name)
			}
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
