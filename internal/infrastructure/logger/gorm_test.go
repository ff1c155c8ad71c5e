package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(l *GormLogger, ctx context.Context, begin time.Time, err error) {
	l.Trace(ctx, begin, func() (string, int64) {
		return "SELECT * FROM transactions", 3
	}, err)
}

func TestGormLogger_Options(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(time.Second),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, time.Second, l.slowThreshold)
	assert.False(t, l.ignoreRecordNotFoundError)

	quiet, ok := l.LogMode(gormlogger.Silent).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Silent, quiet.logLevel)
	assert.Equal(t, gormlogger.Info, l.logLevel)
}

func TestGormLogger_Messages(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Warn)
	ctx := context.Background()

	l.Info(ctx, "suppressed %d", 1)
	l.Warn(ctx, "slow %s", "pool")
	l.Error(ctx, "broken %s", "conn")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "slow pool", entries[0].Message)
	assert.Equal(t, "broken conn", entries[1].Message)
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("silent logs nothing", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Silent)
		traceQuery(l, context.Background(), time.Now(), errors.New("x"))
		assert.Zero(t, recorded.Len())
	})

	t.Run("errors carry the request id", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Error)
		traceQuery(l, WithRequestID(context.Background(), "req-9"), time.Now(), errors.New("connection refused"))

		entries := recorded.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-9", fields["request_id"])
		assert.EqualValues(t, 3, fields["rows"])
	})

	t.Run("record not found is ignored by default", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Error)
		traceQuery(l, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())
	})

	t.Run("slow queries warn", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))
		traceQuery(l, context.Background(), time.Now().Add(-time.Second), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Contains(t, entries[0].Message, "SLOW SQL")
	})

	t.Run("info level logs every query at debug", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Info)
		traceQuery(l, context.Background(), time.Now(), nil)
		assert.Equal(t, 1, recorded.FilterMessage("SQL Query").Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("other"))
}
