package bot

import (
	"fmt"
	"tutorbot/entity"
	"tutorbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// notifyNewPayment forwards the payment screenshot to every admin with
// approve/reject buttons. The callback payload carries the request id, so
// review stays unambiguous even if the student re-registers meanwhile.
func (t *TgBot) notifyNewPayment(user *entity.User, req *entity.PaymentRequest) {
	caption := fmt.Sprintf(
		"💰 *NEW PAYMENT SUBMITTED*\n\n"+
			"👤 Name: %s\n"+
			"🆔 ID: %d\n"+
			"📱 Phone: %s\n"+
			"🎓 Stream: %s\n"+
			"💳 Method: %s\n"+
			"💵 Amount: %d ETB",
		user.DisplayName(), user.TelegramId, orDash(user.Phone),
		streamLabel(user), req.PaymentMethod.Label(), req.Amount)

	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "✅ Approve Payment", CallbackData: cbPayment + "a:" + req.Id},
			{Text: "❌ Reject Payment", CallbackData: cbPayment + "r:" + req.Id},
		}},
	}

	for _, adminId := range t.config.AdminIds {
		_, err := t.api.SendPhoto(adminId, tgbotapi.InputFileByID(req.FileRef), &tgbotapi.SendPhotoOpts{
			Caption:     caption,
			ParseMode:   "Markdown",
			ReplyMarkup: keyboard,
		})
		if err != nil {
			t.log.Warn("sending payment notification", sl.Chat(adminId), sl.Err(err))
			// Documents cannot be resent as photos; fall back to text with
			// the same review buttons.
			t.sendWithKeyboard(adminId, caption, keyboard)
		}
	}
}

// notifyNewWithdrawal alerts admins about a withdrawal request with
// approve/reject buttons keyed by the request id.
func (t *TgBot) notifyNewWithdrawal(req *entity.WithdrawalRequest) {
	text := fmt.Sprintf(
		"💸 *NEW WITHDRAWAL REQUEST*\n\n"+
			"🆔 User: %d\n"+
			"💰 Amount: %d ETB\n"+
			"💳 Method: %s\n"+
			"🔢 Account: %s\n"+
			"👤 Account Name: %s",
		req.UserId, req.Amount, req.PaymentMethod.Label(),
		req.AccountNumber, req.AccountName)

	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "✅ Approve", CallbackData: cbWithdrawal + "a:" + req.Id},
			{Text: "❌ Reject", CallbackData: cbWithdrawal + "r:" + req.Id},
		}},
	}

	for _, adminId := range t.config.AdminIds {
		t.sendWithKeyboard(adminId, text, keyboard)
	}
}
