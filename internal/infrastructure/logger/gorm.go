package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm output into zap. Each entry picks up the trace,
// request and owner fields bound to the query's context.
type GormLogger struct {
	base         *zap.Logger
	level        gormlogger.LogLevel
	slow         time.Duration
	skipNotFound bool
}

// GormLoggerOption tweaks a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets when a query counts as slow; zero turns the
// warning off
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slow = threshold }
}

// WithIgnoreRecordNotFoundError drops ErrRecordNotFound from the error log
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) { l.skipNotFound = ignore }
}

func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		base:         base.Named("gorm"),
		level:        level,
		slow:         200 * time.Millisecond,
		skipNotFound: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) sugar(ctx context.Context) *zap.SugaredLogger {
	return WithLogger(ctx, l.base).Zap().Sugar()
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.sugar(ctx).Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.sugar(ctx).Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.sugar(ctx).Errorf(msg, data...)
	}
}

// Trace logs a finished statement. The SQL is only rendered once the
// entry is known to be written.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	failed := err != nil && !(l.skipNotFound && errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slow > 0 && elapsed > l.slow

	var emit func(string, ...zap.Field)
	var msg string
	log := WithLogger(ctx, l.base).Zap()
	switch {
	case l.level <= gormlogger.Silent:
		return
	case err != nil && l.level >= gormlogger.Error:
		if !failed {
			return
		}
		emit, msg = log.Error, "SQL Error"
	case slow && l.level >= gormlogger.Warn:
		emit, msg = log.Warn, "Slow SQL"
	case l.level >= gormlogger.Info:
		emit, msg = log.Debug, "SQL Query"
	default:
		return
	}

	sql, rows := fc()
	fields := []zap.Field{zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql)}
	if failed {
		fields = append(fields, zap.Error(err))
	} else if slow {
		fields = append(fields, zap.Duration("threshold", l.slow))
	}
	emit(msg, fields...)
}

// MapGormLogLevel translates the application log level for gorm. Debug
// shows every statement; unknown values fall back to warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}
