package bot

import (
	"errors"
	"fmt"
	"tutorbot/entity"
	"tutorbot/impl/core"
	"tutorbot/internal/session"
	"tutorbot/internal/settings"
	"tutorbot/lib/validate"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

func (t *TgBot) handleProfile(chatId int64) {
	user, err := t.core.User(chatId)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			t.plainResponse(chatId, "❌ User not found. Please start the bot with /start first.")
			return
		}
		t.reportError(chatId, "profile", err)
		return
	}

	verified := "⏳ Pending"
	if user.IsVerified {
		verified = "✅ Verified"
	}
	account := user.AccountNumber
	if account == "" {
		account = "Not set"
	}
	accountName := user.AccountName
	if accountName == "" {
		accountName = "Not set"
	}

	text := fmt.Sprintf(
		"👤 *MY PROFILE*\n\n"+
			"📛 Name: %s\n"+
			"📱 Phone: %s\n"+
			"🎓 Stream: %s\n"+
			"🔖 Status: %s\n\n"+
			"📊 Referrals: %d\n"+
			"💰 Rewards: %d ETB\n"+
			"🏆 Total Earned: %d ETB\n\n"+
			"💳 Account: %s\n"+
			"👤 Account Name: %s\n\n"+
			"Minimum for withdrawal: %d ETB",
		user.DisplayName(), orDash(user.Phone), streamLabel(user),
		verified, user.ReferralCount, user.Rewards, user.TotalRewards,
		account, accountName, t.core.MinWithdrawal())

	t.sendWithReplyKeyboard(chatId, text, t.profileKeyboard())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func streamLabel(user *entity.User) string {
	if user.StudentType == "" {
		return "-"
	}
	return user.StudentType.Label()
}

func (t *TgBot) handleWithdraw(chatId int64) {
	if status := t.settings.Check(settings.FeatureWithdrawal); !status.Allowed {
		t.plainResponse(chatId, status.Message)
		return
	}

	req, err := t.core.RequestWithdrawal(chatId)
	switch {
	case errors.Is(err, core.ErrInsufficientFunds):
		user, uerr := t.core.User(chatId)
		balance := int64(0)
		if uerr == nil {
			balance = user.Rewards
		}
		t.plainResponse(chatId, fmt.Sprintf(
			"❌ *Insufficient funds for withdrawal*\n\n"+
				"💰 Available: %d ETB\n"+
				"📊 Minimum: %d ETB",
			balance, t.core.MinWithdrawal()))
		return
	case errors.Is(err, core.ErrNoPayoutProfile):
		t.plainResponse(chatId,
			"💳 *Payment account not set*\n\n"+
				"Please set your payout account first using the 'Change Payment Method' button.")
		return
	case errors.Is(err, core.ErrBlocked):
		t.plainResponse(chatId, "❌ You are blocked from using this bot.")
		return
	case errors.Is(err, entity.ErrNotFound):
		t.plainResponse(chatId, "❌ User not found. Please start the bot with /start first.")
		return
	case err != nil:
		t.reportError(chatId, "withdraw", err)
		return
	}

	t.plainResponse(chatId, fmt.Sprintf(
		"✅ *WITHDRAWAL REQUESTED*\n\n"+
			"💰 Amount: %d ETB\n"+
			"💳 To: %s %s\n\n"+
			"⏳ Your request is pending admin approval.",
		req.Amount, req.PaymentMethod.Label(), req.AccountNumber))
	t.notifyNewWithdrawal(req)
}

// startPayoutWizard begins the two-step payout account flow: method via
// inline buttons, then number and name as text.
func (t *TgBot) startPayoutWizard(chatId int64) {
	t.sendWithKeyboard(chatId,
		"💳 *PAYOUT ACCOUNT*\n\nSelect where your rewards should be paid:",
		payoutMethodKeyboard())
}

func (t *TgBot) onPayoutCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	chatId := callbackChat(cq)
	method := cq.Data[len(cbPayout):]

	if !t.setSession(cq.From.Id, &session.State{
		Action: session.ActionPayoutNumber,
		Key:    method,
	}) {
		t.answerCallback(cq, "")
		return nil
	}
	t.answerCallback(cq, "")

	label := entity.PaymentMethod(method).Label()
	t.plainResponse(chatId, fmt.Sprintf(
		"✅ Selected: *%s*\n\nNow enter your %s account number (with country code, e.g. +251912345678):",
		label, label))
	return nil
}

func (t *TgBot) handlePayoutNumber(chatId int64, state *session.State, text string) {
	if err := validate.AccountNumber(text); err != nil {
		t.plainResponse(chatId,
			"❌ *Invalid account number format*\n\n"+
				"Enter the number with country code, e.g. +251912345678.")
		return
	}

	t.setSession(chatId, &session.State{
		Action: session.ActionPayoutName,
		Key:    state.Key,
		Data:   map[string]string{"number": text},
	})
	t.plainResponse(chatId, "✅ Number saved.\n\nNow enter the account name as it appears on the account:")
}

func (t *TgBot) handlePayoutName(chatId int64, state *session.State, text string) {
	t.clearSession(chatId)

	_, err := t.core.SavePayoutProfile(chatId,
		entity.PaymentMethod(state.Key), state.Data["number"], text)
	if err != nil {
		t.plainResponse(chatId, "❌ Could not save the account. Please try again from 'Change Payment Method'.")
		return
	}

	t.plainResponse(chatId, fmt.Sprintf(
		"✅ *Payout account saved*\n\n"+
			"💳 %s %s\n👤 %s",
		entity.PaymentMethod(state.Key).Label(), state.Data["number"], text))
	t.handleProfile(chatId)
}
