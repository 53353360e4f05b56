// Package bot implements the Telegram front end of the tutorial
// registration service.
//
// Architecture overview:
//   - tgbot.go        — TgBot struct, lifecycle (Start/Stop), dispatcher wiring
//   - commands.go     — /start, /help, /rules, /admin and the text message router
//   - registration.go — the five-step registration wizard
//   - referral.go     — invite & earn, leaderboard, my referrals
//   - profile.go      — profile view, payout account wizard, withdrawal requests
//   - admin.go        — student management, payment/withdrawal review, broadcast
//   - settings.go     — live configuration editor for admins
//   - notify.go       — admin notifications for registrations, payments, withdrawals
//   - menus.go        — reply/inline keyboard builders, per-role command menus
//   - helpers.go      — plainResponse, sendWithKeyboard, reportError
//
// Free-form text is routed in two stages: a pending session state (payout
// wizard, settings editor, broadcast, date filter) consumes the message
// first; otherwise the text is matched against the configured reply
// keyboard labels, and finally against the registration step.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"tutorbot/entity"
	"tutorbot/impl/core"
	"tutorbot/internal/session"
	"tutorbot/internal/settings"
	"tutorbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

// PayAccount is a destination account rendered in the payment
// instructions, one per payment method.
type PayAccount struct {
	Number string
	Name   string
}

// BotConfig holds Telegram-specific configuration from the YAML config.
type BotConfig struct {
	Username string
	AdminIds []int64
	Accounts map[entity.PaymentMethod]PayAccount
}

// TgBot is the Telegram bot instance. All domain decisions live in the
// core; this layer translates updates into core calls and renders replies
// from the live settings store.
type TgBot struct {
	log      *slog.Logger
	api      *tgbotapi.Bot
	core     *core.Core
	sessions *session.Store
	settings *settings.Store
	updater  *ext.Updater
	config   BotConfig
}

func NewTgBot(apiKey string, c *core.Core, sessions *session.Store, log *slog.Logger, cfg BotConfig) (*TgBot, error) {
	tgBot := &TgBot{
		log:      log.With(sl.Module("tgbot")),
		core:     c,
		sessions: sessions,
		settings: c.Settings(),
		config:   cfg,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update:", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	t.updater = ext.NewUpdater(dispatcher, nil)

	// Commands
	dispatcher.AddHandler(handlers.NewCommand("start", t.start))
	dispatcher.AddHandler(handlers.NewCommand("help", t.help))
	dispatcher.AddHandler(handlers.NewCommand("rules", t.rules))
	dispatcher.AddHandler(handlers.NewCommand("cancel", t.cancelCmd))
	dispatcher.AddHandler(handlers.NewCommand("admin", t.adminCmd))

	// Registration wizard callbacks
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbStream), t.onStreamCallback))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbPaymentMethod), t.onPaymentMethodCallback))

	// Payout account wizard
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbPayout), t.onPayoutCallback))

	// Review callbacks
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbPayment), t.onPaymentReviewCallback))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbWithdrawal), t.onWithdrawalReviewCallback))

	// Admin panel callbacks
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbStudents), t.onStudentsCallback))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbSettings), t.onSettingsCallback))

	// Messages: contact and screenshot uploads feed the wizard, any other
	// non-command text goes through the router.
	dispatcher.AddHandler(handlers.NewMessage(message.Contact, t.onContact))
	dispatcher.AddHandler(handlers.NewMessage(message.Photo, t.onPhoto))
	dispatcher.AddHandler(handlers.NewMessage(message.Document, t.onDocument))
	dispatcher.AddHandler(handlers.NewMessage(plainText, t.onText))

	t.setDefaultCommands()

	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	t.log.Info("telegram bot started", slog.String("username", t.config.Username))

	t.updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.updater != nil {
		t.log.Info("stopping telegram bot")
		t.updater.Stop()
	}
}

func (t *TgBot) isAdmin(id int64) bool {
	for _, adminId := range t.config.AdminIds {
		if adminId == id {
			return true
		}
	}
	return false
}

// plainText matches free-form text that is not a command.
func plainText(msg *tgbotapi.Message) bool {
	return msg.Text != "" && msg.Text[0] != '/'
}

// sessionCtx bounds redis round-trips made while handling one update.
func sessionCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
