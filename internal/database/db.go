package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"gusto/internal/models"
)

// Open connects to the configured database and runs migrations.
// Supported dialects are "sqlite3" and "postgres".
func Open(dialect, dsn string) (*gorm.DB, error) {
	switch dialect {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}

	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if err := db.AutoMigrate(
		&models.Restaurant{},
		&models.MenuItemRecord{},
		&models.User{},
	).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
