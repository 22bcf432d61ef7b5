// Package gorm routes gorm's sql logging into zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of a zerolog.Logger.
type Logger struct {
	zl            *zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// New returns a gorm logger writing to the global zerolog logger.
// Statements slower than slowThreshold are logged as warnings, 0 disables that.
func New(slowThreshold time.Duration) *Logger {
	return &Logger{level: gormlogger.Warn, slowThreshold: slowThreshold}
}

// WithLogger returns a copy writing to zl instead of the global logger.
func (l *Logger) WithLogger(zl zerolog.Logger) *Logger {
	out := *l
	out.zl = &zl

	return &out
}

func (l *Logger) logger() *zerolog.Logger {
	if l.zl != nil {
		return l.zl
	}

	return &log.Logger
}

// LogMode implements gormlogger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *l
	out.level = level

	return &out
}

// Info implements gormlogger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger().Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn implements gormlogger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger().Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Error implements gormlogger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger().Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// ParamsFilter implements gorm.ParamsFilter. Bound values are dropped so
// password hashes and personal data never reach the log, only placeholders do.
func (l *Logger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

// Trace implements gormlogger.Interface.
// Not found errors are expected in this service and are never logged as errors.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.logger().Error().Err(err).Str("component", "gorm").
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger().Warn().Str("component", "gorm").
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger().Debug().Str("component", "gorm").
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
