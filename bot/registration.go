package bot

import (
	"errors"
	"fmt"
	"tutorbot/entity"
	"tutorbot/impl/core"
	"tutorbot/internal/settings"
	"tutorbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

func (t *TgBot) handleRegister(ctx *ext.Context) {
	chatId := ctx.EffectiveUser.Id

	if status := t.settings.Check(settings.FeatureRegistration); !status.Allowed {
		t.plainResponse(chatId, status.Message)
		return
	}

	_, err := t.core.BeginRegistration(chatId, ctx.EffectiveUser.FirstName, ctx.EffectiveUser.Username)
	switch {
	case errors.Is(err, core.ErrBlocked):
		t.plainResponse(chatId, "❌ You are blocked from using this bot.")
		return
	case errors.Is(err, core.ErrAlreadyVerified):
		t.plainResponse(chatId, "✅ *You are already registered!*\n\nYour account is verified and active.")
		return
	case err != nil:
		t.reportError(chatId, "register", err)
		return
	}

	text := t.settings.Render(settings.KeyRegStart, nil)
	t.sendWithReplyKeyboard(chatId, text, t.registrationNav())
}

func (t *TgBot) handleNameInput(chatId int64, text string) {
	user, err := t.core.SubmitName(chatId, text)
	switch {
	case errors.Is(err, core.ErrInvalidName):
		t.plainResponse(chatId, "❌ Please enter a valid name (2-50 characters).")
		return
	case errors.Is(err, core.ErrWrongStep):
		return
	case err != nil:
		t.reportError(chatId, "name input", err)
		return
	}

	prompt := t.settings.Render(settings.KeyRegNameSaved, map[string]string{"name": user.Name})
	t.sendWithReplyKeyboard(chatId, prompt, t.phoneKeyboard())
}

func (t *TgBot) onContact(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	contact := ctx.EffectiveMessage.Contact
	if contact == nil {
		return nil
	}

	user, err := t.core.SubmitPhone(chatId, contact.UserId, contact.PhoneNumber)
	switch {
	case errors.Is(err, core.ErrWrongStep):
		if contact.UserId != chatId {
			t.plainResponse(chatId, "❌ Please share your own contact using the button below.")
		}
		return nil
	case errors.Is(err, entity.ErrNotFound):
		return nil
	case err != nil:
		t.reportError(chatId, "contact", err)
		return nil
	}

	prompt := t.settings.Render(settings.KeyRegPhoneSaved, map[string]string{"phone": user.Phone})
	t.sendWithKeyboard(chatId, prompt, streamKeyboard())
	return nil
}

func (t *TgBot) onStreamCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	chatId := callbackChat(cq)
	stream := entity.StudentType(cq.Data[len(cbStream):])

	user, err := t.core.SelectStream(cq.From.Id, stream)
	switch {
	case errors.Is(err, core.ErrWrongStep), errors.Is(err, entity.ErrNotFound):
		t.answerCallback(cq, "")
		return nil
	case err != nil:
		t.answerCallback(cq, "")
		t.reportError(chatId, "stream selection", err)
		return nil
	}
	t.answerCallback(cq, "")
	t.markSelection(cq, streamKeyboard(), cq.Data)

	fee := t.settings.Int(settings.KeyRegistrationFee)
	text := fmt.Sprintf("✅ Stream selected: *%s*\n\n💳 *SELECT PAYMENT METHOD*\n\nChoose how you want to pay %d ETB:",
		user.StudentType.Label(), fee)
	t.sendWithKeyboard(chatId, text, paymentMethodKeyboard())
	return nil
}

func (t *TgBot) onPaymentMethodCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	chatId := callbackChat(cq)
	method := entity.PaymentMethod(cq.Data[len(cbPaymentMethod):])

	user, err := t.core.SelectPaymentMethod(cq.From.Id, method)
	switch {
	case errors.Is(err, core.ErrWrongStep), errors.Is(err, entity.ErrNotFound):
		t.answerCallback(cq, "")
		return nil
	case err != nil:
		t.answerCallback(cq, "")
		t.reportError(chatId, "payment method selection", err)
		return nil
	}
	t.answerCallback(cq, "")
	t.markSelection(cq, paymentMethodKeyboard(), cq.Data)

	t.showAccountDetails(chatId, user.PaymentMethod)
	return nil
}

// showAccountDetails renders the payment instructions for the selected
// channel and switches to the screenshot keyboard.
func (t *TgBot) showAccountDetails(chatId int64, method entity.PaymentMethod) {
	account := t.config.Accounts[method]
	fee := t.settings.Int(settings.KeyRegistrationFee)
	numberLabel := "Account Number"
	if method == entity.MethodTeleBirr {
		numberLabel = "Mobile Number"
	}

	text := fmt.Sprintf(
		"✅ Selected: *%s*\n\n"+
			"📱 *%s:* `%s`\n"+
			"👤 *Account Name:* %s\n\n"+
			"💡 *Payment Instructions:*\n"+
			"1. Send exactly *%d ETB* to the above account\n"+
			"2. Take a clear screenshot of the transaction\n\n"+
			"📸 *Send your payment screenshot now:*",
		method.Label(), numberLabel, account.Number, account.Name, fee)

	t.sendWithReplyKeyboard(chatId, text, t.screenshotKeyboard())
}

// handlePayFee points the student at the payment step appropriate for where
// they are: account details if a method is chosen, the method keyboard if
// not, otherwise registration.
func (t *TgBot) handlePayFee(chatId int64) {
	user, err := t.core.User(chatId)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			t.reportError(chatId, "pay fee", err)
			return
		}
		t.plainResponse(chatId, "📚 Please register first using the Register button.")
		return
	}
	switch {
	case user.IsVerified:
		t.plainResponse(chatId, "✅ Your registration fee is already paid and verified.")
	case user.Step == entity.StepAwaitingScreenshot && user.PaymentMethod != "":
		t.showAccountDetails(chatId, user.PaymentMethod)
	case user.Step == entity.StepAwaitingPaymentMethod || user.Step == entity.StepAwaitingScreenshot:
		t.sendWithKeyboard(chatId, "💳 *SELECT PAYMENT METHOD*\n\nChoose your payment channel:", paymentMethodKeyboard())
	default:
		t.plainResponse(chatId, "📚 Please complete the registration form first using the Register button.")
	}
}

func (t *TgBot) handleChangePayment(chatId int64) {
	user, err := t.core.User(chatId)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			t.reportError(chatId, "change payment", err)
		}
		return
	}
	if user.Step == entity.StepAwaitingScreenshot || user.Step == entity.StepAwaitingPaymentMethod {
		t.sendWithKeyboard(chatId, "💳 *SELECT PAYMENT METHOD*\n\nChoose your payment channel:", paymentMethodKeyboard())
		return
	}
	// Outside the wizard this button updates the payout account instead.
	t.startPayoutWizard(chatId)
}

func (t *TgBot) onPhoto(_ *tgbotapi.Bot, ctx *ext.Context) error {
	photos := ctx.EffectiveMessage.Photo
	if len(photos) == 0 {
		return nil
	}
	// Highest resolution is last.
	t.handleScreenshot(ctx.EffectiveUser.Id, photos[len(photos)-1].FileId)
	return nil
}

func (t *TgBot) onDocument(_ *tgbotapi.Bot, ctx *ext.Context) error {
	document := ctx.EffectiveMessage.Document
	if document == nil {
		return nil
	}
	t.handleScreenshot(ctx.EffectiveUser.Id, document.FileId)
	return nil
}

func (t *TgBot) handleScreenshot(chatId int64, fileId string) {
	user, req, err := t.core.SubmitScreenshot(chatId, fileId)
	switch {
	case errors.Is(err, core.ErrWrongStep), errors.Is(err, entity.ErrNotFound):
		return
	case err != nil:
		t.reportError(chatId, "screenshot", err)
		return
	}

	t.plainResponse(chatId, t.settings.Render(settings.KeyRegSuccess, nil))
	t.notifyNewPayment(user, req)
	t.showMainMenu(chatId)
}

func (t *TgBot) handleCancel(chatId int64) {
	_, err := t.core.CancelRegistration(chatId)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		t.reportError(chatId, "cancel", err)
		return
	}
	t.plainResponse(chatId, "❌ Registration cancelled.")
	t.showMainMenu(chatId)
}

// markSelection rewrites the inline keyboard with the chosen option
// checked, so the original message reflects the selection.
func (t *TgBot) markSelection(cq *tgbotapi.CallbackQuery, keyboard tgbotapi.InlineKeyboardMarkup, chosen string) {
	msg, ok := cq.Message.(tgbotapi.Message)
	if !ok {
		return
	}
	for i, row := range keyboard.InlineKeyboard {
		for j, button := range row {
			if button.CallbackData == chosen {
				keyboard.InlineKeyboard[i][j].Text = "✅" + button.Text[len("⚪"):]
			}
		}
	}
	_, _, err := t.api.EditMessageReplyMarkup(&tgbotapi.EditMessageReplyMarkupOpts{
		ChatId:      msg.Chat.Id,
		MessageId:   msg.MessageId,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		t.log.Debug("marking selection", sl.Err(err))
	}
}
