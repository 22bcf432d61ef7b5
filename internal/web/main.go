// Package web wires the fiber app, its middleware and the route handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/auth"
	"github.com/castboard/castboard/internal/config"
	fiberlogger "github.com/castboard/castboard/internal/logger/adapter/fiber"
	"github.com/castboard/castboard/internal/upload"
	"github.com/castboard/castboard/internal/upload/disk"
	"github.com/castboard/castboard/internal/web/handler"
	"github.com/castboard/castboard/internal/web/handler/account"
	"github.com/castboard/castboard/internal/web/handler/podcast"
	"github.com/castboard/castboard/internal/web/handler/post"
	"github.com/castboard/castboard/internal/web/handler/settings"
)

const (
	// HealthPath answers 200 while the service accepts traffic.
	HealthPath = "/healthz"
	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	deps         *handler.Deps
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the health check for the configured grace time, then stops the server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the health check passes.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, authService *auth.Service, uploads upload.Materializer) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
	}))

	corsConfig := cors.ConfigDefault
	if len(cfg.Webserver.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = strings.Join(cfg.Webserver.CORSOrigins, ",")
	}

	corsConfig.AllowHeaders = "Origin, Content-Type, Accept, Authorization, " + cfg.Auth.Header
	app.Use(cors.New(corsConfig))

	service := &Service{
		cfg: cfg,
		App: app,
		deps: &handler.Deps{
			Cfg:     cfg,
			DB:      db,
			Auth:    authService,
			Uploads: uploads,
		},
		fastShutDown: cfg.DevMode,
	}

	app.Get(HealthPath, service.health)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// uploaded files are served back only by the disk backend
	if store, ok := uploads.(*disk.Store); ok {
		app.Static(store.URLPrefix(), store.Dir(), fiber.Static{ByteRange: true})
	}

	// init handlers (they register their own routes with role checks)
	for _, h := range []handler.Service{
		&account.Handler,
		&podcast.Handler,
		&post.Handler,
		&settings.Handler,
	} {
		if err := h.Init(app, service.deps); err != nil {
			log.Fatal().Err(err).Msg("failed to init handler")
		}
	}

	return service
}
