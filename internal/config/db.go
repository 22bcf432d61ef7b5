package config

// DB holds the database configuration settings.
type DB struct {
	DSN        string // full connection string, overrides the single fields
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	Path       string // sqlite database file
	GormEngine string // postgres, mysql or sqlite
}

const (
	// EnginePostgres selects gorm.io/driver/postgres.
	EnginePostgres = "postgres"
	// EngineMySQL selects gorm.io/driver/mysql.
	EngineMySQL = "mysql"
	// EngineSQLite selects the pure go sqlite driver.
	EngineSQLite = "sqlite"
)
