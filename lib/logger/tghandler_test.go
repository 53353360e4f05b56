package logger

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	log      *slog.Logger
}

func (r *recordingNotifier) NotifyAdmins(msg string) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	if r.log != nil {
		r.log.Error("failed to notify admin chat")
	}
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func newTestLogger(minLevel slog.Level) (*slog.Logger, *TelegramHandler) {
	handler := NewTelegramHandler(slog.NewTextHandler(io.Discard, nil), minLevel)
	return slog.New(handler), handler
}

func TestTelegramHandlerMirrorsErrors(t *testing.T) {
	log, handler := newTestLogger(slog.LevelError)
	notifier := &recordingNotifier{}
	handler.SetNotifier(notifier)

	log.Info("routine record")
	assert.Equal(t, 0, notifier.count())

	log.Error("database unreachable")
	require.Equal(t, 1, notifier.count())
	assert.Contains(t, notifier.messages[0], "database unreachable")
}

func TestTelegramHandlerNotifierAttachedAfterDerive(t *testing.T) {
	log, handler := newTestLogger(slog.LevelError)
	derived := log.With(slog.String("mod", "bot")).WithGroup("review")

	derived.Error("before attach")

	notifier := &recordingNotifier{}
	handler.SetNotifier(notifier)

	derived.Error("after attach")
	require.Equal(t, 1, notifier.count())
	assert.Contains(t, notifier.messages[0], "mod: bot")
	assert.Contains(t, notifier.messages[0], "review.after attach")
}

// A delivery failure inside the notifier logs through the same handler;
// that record must not deadlock or fan out into a second notification.
func TestTelegramHandlerNotifierMayLog(t *testing.T) {
	log, handler := newTestLogger(slog.LevelError)
	notifier := &recordingNotifier{}
	notifier.log = log
	handler.SetNotifier(notifier)

	done := make(chan struct{})
	go func() {
		log.Error("boom")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return")
	}
	assert.Equal(t, 1, notifier.count())
}
