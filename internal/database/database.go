package database

import (
	"fmt"
	"os"
	"path/filepath"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bytservice/repair-service-api/internal/config"
	"github.com/bytservice/repair-service-api/internal/models"
)

var DB *gorm.DB

// Connect opens the configured database. The default is a local sqlite
// file; postgres is selected with DB_DRIVER=postgres.
func Connect(cfg *config.Config) error {
	var (
		dialector gorm.Dialector
		err       error
	)

	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		dialector = postgres.Open(dsn)
	default:
		if err = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		dialector = sqlite.Open(cfg.DBPath)
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logrus.WithField("driver", cfg.DBDriver).Info("database connection established")
	return nil
}

func Migrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Request{},
		&models.Comment{},
		&models.Feedback{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := addIndexes(DB); err != nil {
		return err
	}

	logrus.Info("database migrations completed")
	return nil
}

// addIndexes creates the lookup indexes the list and scoping queries rely on.
func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"requests", "idx_requests_status", "status"},
		{"requests", "idx_requests_technician_id", "technician_id"},
		{"requests", "idx_requests_customer_id", "customer_id"},
		{"requests", "idx_requests_created_at", "created_at"},
		{"comments", "idx_comments_request_id", "request_id"},
	}

	for _, idx := range indexes {
		sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
