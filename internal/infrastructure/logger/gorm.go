package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger routes gorm's statement log into zap. Statements carry the
// identifiers of the request that issued them.
type GormLogger struct {
	log           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	logNotFound   bool
}

var _ gormlogger.Interface = (*GormLogger)(nil)

type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the elapsed time above which statements log at
// warn. Zero disables slow statement logging.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowThreshold = d }
}

// WithNotFoundErrors logs gorm.ErrRecordNotFound as a statement error
func WithNotFoundErrors() GormLoggerOption {
	return func(l *GormLogger) { l.logNotFound = true }
}

func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{log: log.Named("gorm"), level: level, slowThreshold: defaultSlowThreshold}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Info, msg, args)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Warn, msg, args)
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Error, msg, args)
}

func (l *GormLogger) printf(ctx context.Context, level gormlogger.LogLevel, msg string, args []any) {
	if l.level < level {
		return
	}
	s := l.log.With(ScopeFields(ctx)...).Sugar()
	switch level {
	case gormlogger.Error:
		s.Errorf(msg, args...)
	case gormlogger.Warn:
		s.Warnf(msg, args...)
	default:
		s.Infof(msg, args...)
	}
}

// Trace logs a finished statement: errors at error, slow statements at
// warn and everything else at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	var msg string
	var write func(string, ...zap.Field)
	switch {
	case err != nil && l.level >= gormlogger.Error && (l.logNotFound || !errors.Is(err, gorm.ErrRecordNotFound)):
		msg, write = "Statement failed", l.log.Error
	case slow && l.level >= gormlogger.Warn:
		msg, write = "Slow statement", l.log.Warn
	case l.level >= gormlogger.Info:
		msg, write = "Statement", l.log.Debug
	default:
		return
	}

	sql, rows := fc()
	fields := append(ScopeFields(ctx),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
	if slow {
		fields = append(fields, zap.Duration("slow_threshold", l.slowThreshold))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	write(msg, fields...)
}

// MapGormLogLevel maps the service log level onto gorm's. Debug and info
// log every statement; unknown levels log warnings and errors only.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
