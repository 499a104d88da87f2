package store

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/czaloom/mental-health-iot-example/internal/config"
)

// MySQLStore implements Interface on a MySQL server.
type MySQLStore struct {
	DataStore
	Config config.MySQLConfig
}

// Open sets up the MySQL connection and runs the schema migration.
func (s *MySQLStore) Open() error {
	db, err := gorm.Open(mysql.Open(s.Config.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("store: open mysql %s/%s: %w",
			s.Config.Host, s.Config.Database, err)
	}

	if err := migrate(db); err != nil {
		return err
	}
	s.DB = db
	return nil
}
