// Package daemon assembles the service from its configuration.
package daemon

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/auth"
	"github.com/castboard/castboard/internal/config"
	"github.com/castboard/castboard/internal/db/dsn"
	"github.com/castboard/castboard/internal/db/models"
	gormlogger "github.com/castboard/castboard/internal/logger/adapter/gorm"
	"github.com/castboard/castboard/internal/upload"
	"github.com/castboard/castboard/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// OpenDB connects to the configured database and migrates all models.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.New(cfg.Log.SlowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = seed(cfg, db); err != nil {
		return nil, err
	}

	authService, err := auth.NewService(cfg.Auth)
	if err != nil {
		return nil, err
	}

	uploads, err := upload.New(ctx, cfg.Upload)
	if err != nil {
		return nil, fmt.Errorf("failed to init %s upload backend: %w", cfg.Upload.Backend, err)
	}

	log.Info().
		Str("db", cfg.DB.GormEngine).
		Str("uploads", uploads.Name()).
		Msg("daemon initialised")

	return &Daemon{
		cfg:        cfg,
		db:         db,
		webService: web.New(cfg, db, authService, uploads),
	}, nil
}

// Start serves until SIGINT or SIGTERM, then shuts down and closes the database.
func (d *Daemon) Start() error {
	addr := ":" + strconv.Itoa(d.cfg.Webserver.Port)

	go func() {
		log.Info().Str("addr", addr).Msg("starting http server")

		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	d.webService.WaitShutdown()

	return d.Close()
}

// Close releases the database pool.
func (d *Daemon) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
