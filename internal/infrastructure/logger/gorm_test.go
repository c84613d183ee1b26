package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func traceFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) {
		return sql, rows
	}
}

func TestGormLoggerTrace(t *testing.T) {
	t.Run("query is logged with sql and row count", func(t *testing.T) {
		log, logs := observedLogger()
		gl := NewGormLogger(log, gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), traceFn(`SELECT * FROM "sites"`, 3), nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "sql query", entries[0].Message)
		fields := entries[0].ContextMap()
		assert.Equal(t, `SELECT * FROM "sites"`, fields["sql"])
		assert.EqualValues(t, 3, fields["rows"])
	})

	t.Run("failed query logs the error", func(t *testing.T) {
		log, logs := observedLogger()
		gl := NewGormLogger(log, gormlogger.Error)

		gl.Trace(context.Background(), time.Now(), traceFn("UPDATE pages", 0), errors.New("constraint violated"))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "sql error", entries[0].Message)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		log, logs := observedLogger()
		gl := NewGormLogger(log, gormlogger.Error)

		gl.Trace(context.Background(), time.Now(), traceFn("SELECT 1", 0), gormlogger.ErrRecordNotFound)

		assert.Empty(t, logs.All())
	})

	t.Run("slow query is warned", func(t *testing.T) {
		log, logs := observedLogger()
		gl := NewGormLogger(log, gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

		gl.Trace(context.Background(), time.Now().Add(-time.Millisecond), traceFn("SELECT pg_sleep(1)", 1), nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "slow sql", entries[0].Message)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
	})

	t.Run("site id from context is attached", func(t *testing.T) {
		log, logs := observedLogger()
		gl := NewGormLogger(log, gormlogger.Info)
		ctx, _ := WithSiteID(context.Background(), zap.NewNop(), 100)

		gl.Trace(ctx, time.Now(), traceFn("SELECT 1", 1), nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.EqualValues(t, 100, entries[0].ContextMap()["site_id"])
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		log, logs := observedLogger()
		gl := NewGormLogger(log, gormlogger.Silent)

		gl.Trace(context.Background(), time.Now(), traceFn("SELECT 1", 1), errors.New("ignored"))

		assert.Empty(t, logs.All())
	})
}

func TestGormLoggerLogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn)
	quiet := gl.LogMode(gormlogger.Silent)

	assert.NotSame(t, gl, quiet)
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"", gormlogger.Warn},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapGormLogLevel(tc.in), "level %q", tc.in)
	}
}
