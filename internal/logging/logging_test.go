package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/morocclubs/clubs-api/internal/logging"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/morocclubs/clubs-api/internal/testutil"
)

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := testutil.NewDB(t)

	h := logging.NewPGHandler(db, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Error("login lookup failed",
		"user_id", "u-1",
		"action", "login",
		"error", "connection reset",
		"latency_ms", 12.6,
		"email_domain", "example.com",
	)
	h.Stop()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "login lookup failed", row.Message)
	assert.Equal(t, "req-1", row.RequestID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)
	assert.Equal(t, "login", row.Action)
	assert.Equal(t, "connection reset", row.Error)
	assert.Equal(t, 13, row.LatencyMs)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.Equal(t, "example.com", extra["email_domain"])
}

func TestPGHandlerStopLeavesNoGoroutines(t *testing.T) {
	db := testutil.NewDB(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := logging.NewPGHandler(db, 10*time.Millisecond)
	for i := 0; i < 120; i++ {
		_ = h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "boom", 0))
	}
	h.Stop()

	var n int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&n).Error)
	assert.Equal(t, int64(120), n)
}

func TestPGHandlerWritesRecordsAfterStop(t *testing.T) {
	db := testutil.NewDB(t)

	h := logging.NewPGHandler(db, time.Hour)
	h.Stop()

	logger := slog.New(h)
	logger.Error("late failure", "request_id", "req-late")

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "late failure", rows[0].Message)
	assert.Equal(t, "req-late", rows[0].RequestID)
}

func TestPGHandlerBatchFlushRacingStop(t *testing.T) {
	db := testutil.NewDB(t)

	for round := 0; round < 5; round++ {
		h := logging.NewPGHandler(db, time.Hour)
		var wg sync.WaitGroup
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 30; i++ {
					_ = h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "burst", 0))
				}
			}()
		}
		h.Stop()
		wg.Wait()
	}

	var n int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&n).Error)
	assert.Equal(t, int64(5*4*30), n)
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	infoH := slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo})
	errH := slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError})

	logger := slog.New(logging.NewMultiHandler(infoH, errH)).With("component", "test")
	logger.Info("hello")
	logger.Error("failed")

	assert.Contains(t, info.String(), `"msg":"hello"`)
	assert.Contains(t, info.String(), `"msg":"failed"`)
	assert.NotContains(t, errs.String(), `"msg":"hello"`)
	assert.Contains(t, errs.String(), `"component":"test"`)
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink unavailable")
}

func TestMultiHandlerKeepsGoingWhenASinkFails(t *testing.T) {
	var out bytes.Buffer
	ok := slog.NewJSONHandler(&out, nil)
	broken := failingHandler{slog.NewJSONHandler(io.Discard, nil)}

	h := logging.NewMultiHandler(broken, ok)
	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelWarn, "still logged", 0))

	require.Error(t, err)
	assert.Contains(t, out.String(), `"msg":"still logged"`)
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"},
		{Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "new"},
	}).Error)

	deleted := logging.PurgeOlderThan(db, now.Add(-30*24*time.Hour))
	assert.Equal(t, int64(1), deleted)

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "new", left[0].Message)
}
