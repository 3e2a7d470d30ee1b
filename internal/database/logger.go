package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// gormLogger encaminha os logs do gorm para o zerolog do contexto da requisição.
type gormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func parseLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func NewLogger(level string, slowThreshold time.Duration) gormlogger.Interface {
	return &gormLogger{
		level:         parseLevel(level),
		slowThreshold: slowThreshold,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	nl := *l
	nl.level = level
	return &nl
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		log.Ctx(ctx).Info().Str("caller", utils.FileWithLineNum()).Msgf(msg, data...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		log.Ctx(ctx).Warn().Str("caller", utils.FileWithLineNum()).Msgf(msg, data...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		log.Ctx(ctx).Error().Str("caller", utils.FileWithLineNum()).Msgf(msg, data...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		sql, rows := fc()
		log.Ctx(ctx).Error().Err(err).
			Str("caller", utils.FileWithLineNum()).
			Dur("elapsed", elapsed).
			Str("rows", rowsString(rows)).
			Msg(sql)
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Ctx(ctx).Warn().
			Str("caller", utils.FileWithLineNum()).
			Dur("elapsed", elapsed).
			Str("rows", rowsString(rows)).
			Msgf("SLOW SQL >= %v: %s", l.slowThreshold, sql)
	case l.level == gormlogger.Info:
		sql, rows := fc()
		log.Ctx(ctx).Debug().
			Str("caller", utils.FileWithLineNum()).
			Dur("elapsed", elapsed).
			Str("rows", rowsString(rows)).
			Msg(sql)
	}
}

func rowsString(rows int64) string {
	if rows == -1 {
		return "-"
	}
	return fmt.Sprint(rows)
}
