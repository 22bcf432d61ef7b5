// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/config"
)

const (
	defaultPostgresPort = 5432
	defaultMySQLPort    = 3306
)

// Create builds the Data Source Name from the configuration.
// An explicit DB.DSN always wins.
func Create(cfg *config.Config) string {
	db := cfg.DB
	if db.DSN != "" {
		return db.DSN
	}

	switch strings.ToLower(db.GormEngine) {
	case config.EnginePostgres:
		port := db.Port
		if port == 0 {
			port = defaultPostgresPort
		}

		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			db.Host, port, db.User, db.Password, db.Name)
		if db.Extras != "" {
			out += " " + db.Extras
		}

		return out
	case config.EngineMySQL:
		port := db.Port
		if port == 0 {
			port = defaultMySQLPort
		}

		extras := db.Extras
		if extras == "" {
			extras = "charset=utf8mb4&parseTime=True&loc=UTC"
		}

		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User, db.Password, db.Host, port, db.Name, extras)
	default:
		if db.Extras != "" {
			return db.Path + "?" + db.Extras
		}

		return db.Path
	}
}

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	dsn := Create(cfg)

	switch strings.ToLower(cfg.DB.GormEngine) {
	case config.EnginePostgres:
		return postgres.Open(dsn), nil
	case config.EngineMySQL:
		return mysql.Open(dsn), nil
	case config.EngineSQLite, "":
		return sqlite.Open(dsn), nil
	default:
		return nil, config.ErrUnknownGormEngine
	}
}
