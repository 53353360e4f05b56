package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// AdminNotifier delivers a text message to every configured admin chat.
// Implemented by bot.TgBot; the indirection avoids an import cycle.
type AdminNotifier interface {
	NotifyAdmins(msg string)
}

// hub holds the notifier behind a pointer shared by every handler derived
// with WithAttrs or WithGroup, so the bot can be attached after the logger
// tree is already built.
type hub struct {
	mu        sync.RWMutex
	n         AdminNotifier
	notifying atomic.Bool
}

func (h *hub) get() AdminNotifier {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.n
}

func (h *hub) set(n AdminNotifier) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.n = n
}

// TelegramHandler is a slog.Handler that mirrors records at or above
// minLevel to the bot admins, after letting the wrapped handler run.
type TelegramHandler struct {
	handler  slog.Handler
	notifier *hub
	minLevel slog.Level
	mu       sync.Mutex
	attrs    []slog.Attr
	group    string
}

func NewTelegramHandler(handler slog.Handler, minLevel slog.Level) *TelegramHandler {
	return &TelegramHandler{
		handler:  handler,
		notifier: &hub{},
		minLevel: minLevel,
		attrs:    make([]slog.Attr, 0),
	}
}

// SetNotifier connects the admin notifier; records logged before this call
// are written to the wrapped handler only.
func (h *TelegramHandler) SetNotifier(n AdminNotifier) {
	h.notifier.set(n)
}

func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *TelegramHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.handler.Handle(ctx, record)
	if err != nil {
		return err
	}

	notifier := h.notifier.get()
	if record.Level < h.minLevel || notifier == nil {
		return nil
	}
	// A failed delivery inside the notifier may log through this same
	// handler; the in-flight flag keeps that from recursing back here.
	if !h.notifier.notifying.CompareAndSwap(false, true) {
		return nil
	}
	defer h.notifier.notifying.Store(false)

	h.mu.Lock()
	var msg string
	if h.group != "" {
		msg = fmt.Sprintf("%s %s.%s", record.Level.String(), h.group, record.Message)
	} else {
		msg = fmt.Sprintf("%s %s", record.Level.String(), record.Message)
	}

	for _, attr := range h.attrs {
		msg += fmt.Sprintf("\n%s: %v", attr.Key, attr.Value)
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg += fmt.Sprintf("\n%s: %v", attr.Key, attr.Value)
		return true
	})
	h.mu.Unlock()

	notifier.NotifyAdmins(msg)
	return nil
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &TelegramHandler{
		handler:  h.handler.WithAttrs(attrs),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    newAttrs,
		group:    h.group,
	}
}

func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}

	return &TelegramHandler{
		handler:  h.handler.WithGroup(name),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    h.attrs,
		group:    group,
	}
}
