package bot

import (
	"log/slog"
	"strings"
	"tutorbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// plainResponse sends Markdown text. On a parse failure the text is resent
// without a parse mode rather than dropped; operator-edited templates are
// not guaranteed to be balanced Markdown.
func (t *TgBot) plainResponse(chatId int64, text string) {
	if text == "" {
		t.log.With("id", chatId).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: "Markdown",
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Error("sending safe message", sl.Err(err))
		}
	}
}

// sendWithKeyboard sends Markdown text with an inline keyboard attached.
func (t *TgBot) sendWithKeyboard(chatId int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if text == "" {
		return
	}
	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode:   "Markdown",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending message with keyboard", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
			ReplyMarkup: keyboard,
		})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Error("sending message with keyboard fallback", sl.Err(err))
		}
	}
}

// sendWithReplyKeyboard sends Markdown text with a persistent reply
// keyboard, used by the main menu and the wizard navigation.
func (t *TgBot) sendWithReplyKeyboard(chatId int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	if text == "" {
		return
	}
	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode:   "Markdown",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending message with reply keyboard", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
			ReplyMarkup: keyboard,
		})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Error("sending reply keyboard fallback", sl.Err(err))
		}
	}
}

// NotifyAdmins fans a plain text message out to every configured admin.
// A failure for one recipient does not stop delivery to the rest. Also
// satisfies logger.AdminNotifier so error-level log records reach admins.
func (t *TgBot) NotifyAdmins(msg string) {
	for _, id := range t.config.AdminIds {
		t.plainResponse(id, msg)
	}
}

// reportError logs the failure and sends a neutral message to the user.
// Admins see the record through the error-level log mirror.
func (t *TgBot) reportError(chatId int64, action string, err error) {
	t.log.Error("bot action failed",
		slog.String("action", action),
		sl.Chat(chatId),
		sl.Err(err),
	)
	t.plainResponse(chatId, "❌ Something went wrong. Please try again later.")
}

// answerCallback acknowledges a callback query, optionally with a toast.
func (t *TgBot) answerCallback(cq *tgbotapi.CallbackQuery, text string) {
	_, err := cq.Answer(t.api, &tgbotapi.AnswerCallbackQueryOpts{Text: text})
	if err != nil {
		t.log.Debug("answering callback", sl.Err(err))
	}
}

// callbackChat extracts the chat id a callback originated in. Falls back
// to the sender's id for inaccessible messages.
func callbackChat(cq *tgbotapi.CallbackQuery) int64 {
	if msg, ok := cq.Message.(tgbotapi.Message); ok {
		return msg.Chat.Id
	}
	return cq.From.Id
}

// splitMessage breaks long admin listings at newlines to stay under the
// Telegram message size limit.
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			parts = append(parts, text)
			break
		}
		cutAt := maxLen
		nlIdx := strings.LastIndex(text[:maxLen], "\n")
		if nlIdx > 0 {
			cutAt = nlIdx + 1
		}
		parts = append(parts, text[:cutAt])
		text = text[cutAt:]
	}
	return parts
}
