package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLogWriter struct {
	mu   sync.Mutex
	logs []models.SystemLog
}

func (w *memoryLogWriter) WriteLogs(batch []models.SystemLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logs = append(w.logs, batch...)
	return nil
}

func (w *memoryLogWriter) all() []models.SystemLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.SystemLog(nil), w.logs...)
}

func TestPGHandler_PersistsOnlyErrors(t *testing.T) {
	w := &memoryLogWriter{}
	h := NewPGHandlerWithWriter(w, time.Hour)
	logger := slog.New(h)

	logger.Info("ignored")
	logger.Error("order placement failed",
		"request_id", "req-1",
		"user_id", "u-1",
		"component", "orders",
		"error", errors.New("boom"),
		"order_total", 42,
	)
	h.Stop()

	logs := w.all()
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "order placement failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Equal(t, "orders", entry.Component)
	assert.Equal(t, "boom", entry.Error)
	assert.EqualValues(t, 42, entry.Extra["order_total"])
}

func TestPGHandler_WithAttrsAndGroup(t *testing.T) {
	w := &memoryLogWriter{}
	h := NewPGHandlerWithWriter(w, time.Hour)
	logger := slog.New(h).With("component", "notify").WithGroup("email")

	logger.Error("send failed", "kind", "otp")
	h.Stop()

	logs := w.all()
	require.Len(t, logs, 1)
	assert.Equal(t, "notify", logs[0].Component)
	assert.Equal(t, "otp", logs[0].Extra["email.kind"])
}

func TestMultiHandler_FansOut(t *testing.T) {
	w := &memoryLogWriter{}
	pg := NewPGHandlerWithWriter(w, time.Hour)
	multi := NewMultiHandler(NewStdoutHandler("production"), pg)

	assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, multi.Enabled(context.Background(), slog.LevelDebug))

	slog.New(multi).Error("fan out")
	pg.Stop()
	assert.Len(t, w.all(), 1)
}
