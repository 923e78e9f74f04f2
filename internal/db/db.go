package db

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wnzid/posterscoop-backend/internal/catalog"
	"github.com/wnzid/posterscoop-backend/internal/custom"
	"github.com/wnzid/posterscoop-backend/internal/discounts"
	"github.com/wnzid/posterscoop-backend/internal/orders"
	"github.com/wnzid/posterscoop-backend/internal/performance"
	"github.com/wnzid/posterscoop-backend/internal/users"
)

// Config captures the connection parameters for a MySQL instance.
type Config struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
	Params   string
}

// FromEnv populates a Config with defaults overridable via environment
// variables.
func FromEnv() Config {
	return Config{
		User:     getEnv("MYSQL_USER", "posterscoop"),
		Password: getEnv("MYSQL_PASSWORD", "posterscoop"),
		Host:     getEnv("MYSQL_HOST", "127.0.0.1"),
		Port:     getEnv("MYSQL_PORT", "3306"),
		Database: getEnv("MYSQL_DATABASE", "posterscoop"),
		Params:   getEnv("MYSQL_PARAMS", "charset=utf8mb4&parseTime=True&loc=UTC"),
	}
}

// Open returns a gorm DB using the provided configuration. TranslateError
// is on so unique-key violations surface as gorm.ErrDuplicatedKey across
// drivers.
func Open(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.Params,
	)

	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return gdb, nil
}

// Migrate applies the schema, seeds allocation counters from any
// pre-existing orders and ensures the admin account exists.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&users.User{},
		&catalog.Category{},
		&catalog.Design{},
		&performance.ProductPerformance{},
		&custom.CustomOrder{},
		&orders.Order{},
		&orders.OrderCounter{},
		&orders.OrderCustomRef{},
		&discounts.PosterDiscount{},
		&discounts.PromoCode{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := orders.SeedCounters(gdb); err != nil {
		return fmt.Errorf("seed order counters: %w", err)
	}

	adminEmail := getEnv("ADMIN_EMAIL", "admin@example.com")
	adminPassword := getEnv("ADMIN_PASSWORD", "adminpass")
	if err := users.SeedAdmin(gdb, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
