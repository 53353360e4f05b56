package bot

import (
	"tutorbot/internal/settings"
	"tutorbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Callback data prefixes. Payloads after the prefix are stable ids (stream
// and method names, request uuids), never display labels.
const (
	cbStream        = "stream:"
	cbPaymentMethod = "pm:"
	cbPayout        = "po:"
	cbPayment       = "pay:"
	cbWithdrawal    = "wdr:"
	cbStudents      = "stu:"
	cbSettings      = "set:"
)

func replyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	keyboard := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.KeyboardButton{Text: label})
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.ReplyKeyboardMarkup{Keyboard: keyboard, ResizeKeyboard: true}
}

// mainMenu builds the reply keyboard from the configured labels. Rows for
// disabled features are left out entirely.
func (t *TgBot) mainMenu(userId int64) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]string
	if t.settings.Check(settings.FeatureRegistration).Allowed {
		rows = append(rows,
			[]string{t.settings.Button("register")},
			[]string{t.settings.Button("pay_fee")})
	}
	if t.settings.Check(settings.FeatureReferral).Allowed {
		rows = append(rows,
			[]string{t.settings.Button("invite"), t.settings.Button("leaderboard")},
			[]string{t.settings.Button("my_referrals"), t.settings.Button("help")})
	} else {
		rows = append(rows, []string{t.settings.Button("help")})
	}
	rows = append(rows, []string{t.settings.Button("rules"), t.settings.Button("profile")})
	if t.isAdmin(userId) {
		rows = append(rows, []string{t.settings.Button("admin_panel")})
	}
	return replyKeyboard(rows)
}

// showMainMenu renders the welcome message with the main keyboard.
func (t *TgBot) showMainMenu(chatId int64) {
	text := t.settings.Render(settings.KeyWelcomeMessage, nil)
	t.sendWithReplyKeyboard(chatId, text, t.mainMenu(chatId))
}

// registrationNav is shown during text steps of the wizard.
func (t *TgBot) registrationNav() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard([][]string{
		{t.settings.Button("cancel_reg"), t.settings.Button("homepage")},
	})
}

// phoneKeyboard carries the contact-request button plus navigation.
func (t *TgBot) phoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		Keyboard: [][]tgbotapi.KeyboardButton{
			{{Text: t.settings.Button("share_phone"), RequestContact: true}},
			{{Text: t.settings.Button("cancel_reg")}, {Text: t.settings.Button("homepage")}},
		},
		ResizeKeyboard: true,
	}
}

// screenshotKeyboard is shown while waiting for the payment proof.
func (t *TgBot) screenshotKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard([][]string{
		{t.settings.Button("upload_screenshot")},
		{t.settings.Button("change_payment")},
		{t.settings.Button("cancel_reg"), t.settings.Button("homepage")},
	})
}

// profileKeyboard is shown with the profile view.
func (t *TgBot) profileKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard([][]string{
		{t.settings.Button("withdraw"), t.settings.Button("change_payment")},
		{t.settings.Button("my_referrals"), t.settings.Button("homepage")},
	})
}

// adminKeyboard is the admin panel reply keyboard.
func (t *TgBot) adminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard([][]string{
		{t.settings.Button("manage_students"), t.settings.Button("review_payments")},
		{t.settings.Button("bot_settings"), t.settings.Button("message_settings")},
		{t.settings.Button("feature_toggle"), t.settings.Button("student_stats")},
		{t.settings.Button("broadcast"), t.settings.Button("homepage")},
	})
}

func streamKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "⚪ Natural Science", CallbackData: cbStream + "natural"},
			{Text: "⚪ Social Science", CallbackData: cbStream + "social"},
		}},
	}
}

func paymentMethodKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "⚪ TeleBirr", CallbackData: cbPaymentMethod + "telebirr"},
			{Text: "⚪ CBE Birr", CallbackData: cbPaymentMethod + "cbe"},
		}},
	}
}

func payoutMethodKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "TeleBirr", CallbackData: cbPayout + "telebirr"},
			{Text: "CBE Birr", CallbackData: cbPayout + "cbe"},
		}},
	}
}

// setDefaultCommands publishes the command menu shown in the Telegram UI.
// Admin-only commands are published per admin chat scope.
func (t *TgBot) setDefaultCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Open the main menu"},
		{Command: "help", Description: "How the bot works"},
		{Command: "rules", Description: "Tutorial rules"},
	}
	_, err := t.api.SetMyCommands(commands, nil)
	if err != nil {
		t.log.Warn("setting default commands", sl.Err(err))
	}

	adminCommands := append(commands, tgbotapi.BotCommand{
		Command: "admin", Description: "Open the admin panel",
	})
	for _, adminId := range t.config.AdminIds {
		_, err = t.api.SetMyCommands(adminCommands, &tgbotapi.SetMyCommandsOpts{
			Scope: tgbotapi.BotCommandScopeChat{ChatId: adminId},
		})
		if err != nil {
			t.log.Warn("setting admin commands", sl.Chat(adminId), sl.Err(err))
		}
	}
}
