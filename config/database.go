package config

import (
	"fmt"
	"time"

	"github.com/RamaAlqdri/sehatin/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" database/sql driver
)

// OpenDB connects to the configured database. Timestamps are written in UTC.
func OpenDB(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = SQLiteDialector(cfg.Path)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// SQLiteDialector runs gorm's sqlite dialect on top of modernc.org/sqlite.
func SQLiteDialector(path string) gorm.Dialector {
	return sqlite.Dialector{DriverName: "sqlite", DSN: path}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Otp{},
		&models.Food{},
		&models.FoodHistory{},
		&models.Schedule{},
		&models.WaterHistory{},
		&models.WeightHistory{},
		&models.Message{},
		&models.UserDevice{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
