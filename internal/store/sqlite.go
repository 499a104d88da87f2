package store

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/czaloom/mental-health-iot-example/internal/config"
)

// SQLiteStore implements Interface on a local SQLite file.
type SQLiteStore struct {
	DataStore
	Config config.SQLiteConfig
}

// Open sets up the SQLite connection and runs the schema migration.
func (s *SQLiteStore) Open() error {
	db, err := gorm.Open(sqlite.Open(s.Config.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("store: open sqlite %q: %w", s.Config.Path, err)
	}

	if err := migrate(db); err != nil {
		return err
	}
	s.DB = db
	return nil
}
