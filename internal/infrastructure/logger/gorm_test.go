package logger

import (
	"context"
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
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func traceQuery(l *GormLogger, elapsed time.Duration, err error) {
	l.Trace(context.Background(), time.Now().Add(-elapsed), func() (string, int64) {
		return "SELECT 1", 1
	}, err)
}

func TestGormLogger_TraceQueryAtDebug(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Info)

	traceQuery(l, time.Millisecond, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "query", entries[0].Message)
	assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
}

func TestGormLogger_TraceFailedQueryAtError(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Error)

	traceQuery(l, time.Millisecond, assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "query failed", entries[0].Message)
}

func TestGormLogger_RecordNotFoundSkipped(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Error)

	traceQuery(l, time.Millisecond, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_RecordNotFoundLoggedWhenOptedIn(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Error, WithNotFoundLogging())

	traceQuery(l, time.Millisecond, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_SlowQueryWarns(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	traceQuery(l, 50*time.Millisecond, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "slow query", entries[0].Message)
}

func TestGormLogger_SilentLogsNothing(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Silent)

	traceQuery(l, time.Millisecond, assert.AnError)

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_LogModeReturnsCopy(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Silent)

	raised := l.LogMode(gormlogger.Error)
	raised.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, assert.AnError)

	assert.Equal(t, 1, logs.Len(), "raised copy logs")

	traceQuery(l, time.Millisecond, assert.AnError)
	assert.Equal(t, 1, logs.Len(), "original stays silent")
}
