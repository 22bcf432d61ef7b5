// Package logger configures the global zerolog logger for castboard.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDirPerm = 0o750

// LevelWriter splits log output by level.
// Warn goes to WarnWriter, error and above to ErrorWriter, the rest to InfoWriter.
type LevelWriter struct {
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel && l != zerolog.NoLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	return w.Write(p) //nolint:wrapcheck
}

// Write sends level-less output to the info writer.
func (lw *LevelWriter) Write(p []byte) (n int, err error) {
	return lw.InfoWriter.Write(p) //nolint:wrapcheck
}

// Init the zerolog logger.
// Depending on the config it enables console, file, both or no output at all.
func Init(cfg Log) error {
	var (
		logLevel, err = zerolog.ParseLevel(cfg.LogLevel)
		writers       []io.Writer
		stack         bool
	)

	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	// stack traces for errors wrapped with pkg/errors on trace level
	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	ph := NewPrometheusHook(cfg.ServiceName)

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if fw := newRollingFiles(cfg); fw != nil {
			writers = append(writers, fw)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(ph).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	switch {
	case cfg.ReportCaller && stack:
		ctx = ctx.Stack().Caller()
	case cfg.ReportCaller:
		ctx = ctx.Caller()
	case stack:
		ctx = ctx.Stack()
	}

	log.Logger = ctx.Logger()

	return nil
}

// newRollingFiles uses LevelWriter and lumberjack to create file based logs.
func newRollingFiles(cfg Log) io.Writer {
	if err := os.MkdirAll(cfg.File.Path, logDirPerm); err != nil {
		log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

		return nil
	}

	rolling := func(name string, size, age, backups int) io.Writer {
		return &lumberjack.Logger{
			Filename:   path.Join(cfg.File.Path, name),
			MaxSize:    size,
			MaxAge:     age,
			MaxBackups: backups,
		}
	}

	return &LevelWriter{
		ErrorWriter: rolling(orDefault(cfg.File.ErrorLog, "error.log"),
			cfg.File.ErrorMaxSize, cfg.File.ErrorMaxAge, cfg.File.ErrorMaxBackups),
		InfoWriter: rolling(orDefault(cfg.File.InfoLog, "info.log"),
			cfg.File.InfoMaxSize, cfg.File.InfoMaxAge, cfg.File.InfoMaxBackups),
		WarnWriter: rolling(orDefault(cfg.File.WarnLog, "warn.log"),
			cfg.File.WarnMaxSize, cfg.File.WarnMaxAge, cfg.File.WarnMaxBackups),
	}
}

// NewConsoleWriter creates the console output, JSON or human readable.
func NewConsoleWriter(cfg Log) io.Writer {
	lw := LevelWriter{
		ErrorWriter: os.Stderr,
		InfoWriter:  os.Stdout,
		WarnWriter:  os.Stderr,
	}

	if cfg.Console.UseConsoleWriter {
		pretty := func(out io.Writer) io.Writer {
			return zerolog.ConsoleWriter{
				Out:        out,
				TimeFormat: zerolog.TimeFieldFormat,
			}
		}

		lw.ErrorWriter = pretty(os.Stderr)
		lw.InfoWriter = pretty(os.Stdout)
		lw.WarnWriter = pretty(os.Stderr)
	}

	return &lw
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
