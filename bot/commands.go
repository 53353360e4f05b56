package bot

import (
	"errors"
	"fmt"
	"strings"
	"tutorbot/entity"
	"tutorbot/internal/session"
	"tutorbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"tutorbot/impl/core"
	"tutorbot/internal/settings"
)

func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id

	user, created, err := t.core.EnsureUser(chatId, ctx.EffectiveUser.FirstName, ctx.EffectiveUser.Username)
	if err != nil {
		t.reportError(chatId, "/start", err)
		return nil
	}
	if user.Blocked {
		t.plainResponse(chatId, "❌ You are blocked from using this bot.")
		return nil
	}

	// Referral tokens only count on first contact; a returning user opening
	// someone's link changes nothing.
	if created {
		t.NotifyAdmins(fmt.Sprintf("👤 New user started the bot\nName: %s\nID: %d",
			user.DisplayName(), chatId))
		args := strings.Fields(ctx.EffectiveMessage.Text)
		if len(args) > 1 {
			if referrerId, ok := core.ParseReferralToken(args[1]); ok {
				if err = t.core.RecordReferral(chatId, referrerId); err != nil {
					t.log.Error("recording referral", sl.Chat(chatId), sl.Err(err))
				} else {
					t.notifyReferrer(referrerId)
				}
			}
		}
	}

	if status := t.settings.Check(settings.FeatureTutorial); !status.Allowed {
		t.plainResponse(chatId, status.Message)
		return nil
	}

	text := t.settings.Render(settings.KeyStartMessage, nil)
	t.sendWithReplyKeyboard(chatId, text, t.mainMenu(chatId))
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id

	text := "❓ *HELP & SUPPORT*\n\n" +
		"📚 *Registration Process:*\n" +
		"1. Fill the registration form\n" +
		"2. Select payment method\n" +
		"3. Upload payment screenshot\n" +
		"4. Wait for admin approval\n\n" +
		"🎁 *Referral System:*\n" +
		"• Share your referral link\n" +
		"• Earn rewards for each successful referral\n" +
		"• Withdraw rewards when you reach minimum threshold\n\n" +
		"📊 *Features:*\n" +
		"• Track your referrals\n" +
		"• View leaderboard\n" +
		"• Check your profile\n\n" +
		"Need more help? Contact support!"

	if t.isAdmin(chatId) {
		text += "\n\n⚡ *ADMIN COMMANDS:*\n" +
			"/admin - Admin panel"
	}

	t.plainResponse(chatId, text)
	return nil
}

func (t *TgBot) cancelCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	t.clearSession(chatId)
	t.handleCancel(chatId)
	return nil
}

func (t *TgBot) rules(_ *tgbotapi.Bot, ctx *ext.Context) error {
	text := "📌 *RULES & GUIDELINES*\n\n" +
		"✅ *Registration:*\n" +
		"• Provide accurate information\n" +
		"• Upload valid payment screenshot\n" +
		"• Follow payment instructions\n\n" +
		"🎁 *Referral System:*\n" +
		"• Referrals must be legitimate users\n" +
		"• No fake accounts allowed\n" +
		"• Rewards are paid after verification\n\n" +
		"⚠️ *Prohibited:*\n" +
		"• Spam or fake registrations\n" +
		"• Multiple accounts\n" +
		"• Violation of terms\n\n" +
		"By using this bot, you agree to these rules."

	t.plainResponse(ctx.EffectiveUser.Id, text)
	return nil
}

// onText routes free-form text. Pending session input wins, then the
// configured keyboard labels, then the name step of the wizard.
func (t *TgBot) onText(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	text := ctx.EffectiveMessage.Text

	sctx, cancel := sessionCtx()
	defer cancel()
	state, err := t.sessions.Get(sctx, chatId)
	if err == nil {
		return t.onSessionInput(chatId, text, state)
	}
	if !errors.Is(err, entity.ErrNotFound) {
		t.log.Error("loading session state", sl.Chat(chatId), sl.Err(err))
	}

	if t.routeLabel(ctx, chatId, text) {
		return nil
	}

	user, err := t.core.User(chatId)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			t.reportError(chatId, "text", err)
		}
		return nil
	}
	if user.Step == entity.StepAwaitingName {
		t.handleNameInput(chatId, text)
		return nil
	}
	if user.Step == entity.StepAwaitingScreenshot && text == t.settings.Button("upload_screenshot") {
		t.plainResponse(chatId, "Please send your payment screenshot as a photo or document.")
		return nil
	}
	return nil
}

// routeLabel dispatches a reply keyboard label. Labels are operator
// configurable, so they are resolved through the settings store on every
// message rather than hard-coded.
func (t *TgBot) routeLabel(ctx *ext.Context, chatId int64, text string) bool {
	switch text {
	case t.settings.Button("register"):
		t.handleRegister(ctx)
	case t.settings.Button("invite"):
		t.handleInviteEarn(chatId)
	case t.settings.Button("leaderboard"):
		t.handleLeaderboard(chatId)
	case t.settings.Button("my_referrals"):
		t.handleMyReferrals(chatId)
	case t.settings.Button("profile"):
		t.handleProfile(chatId)
	case t.settings.Button("withdraw"):
		t.handleWithdraw(chatId)
	case t.settings.Button("change_payment"):
		t.handleChangePayment(chatId)
	case t.settings.Button("pay_fee"):
		t.handlePayFee(chatId)
	case t.settings.Button("cancel_reg"):
		t.handleCancel(chatId)
	case t.settings.Button("homepage"):
		t.showMainMenu(chatId)
	case t.settings.Button("help"):
		_ = t.help(nil, ctx)
	case t.settings.Button("rules"):
		_ = t.rules(nil, ctx)
	default:
		return t.routeAdminLabel(chatId, text)
	}
	return true
}

func (t *TgBot) routeAdminLabel(chatId int64, text string) bool {
	if !t.isAdmin(chatId) {
		return false
	}
	switch text {
	case t.settings.Button("admin_panel"):
		t.showAdminPanel(chatId)
	case t.settings.Button("manage_students"):
		t.showStudentManagement(chatId)
	case t.settings.Button("review_payments"):
		t.showPendingReviews(chatId)
	case t.settings.Button("student_stats"):
		t.showStudentStats(chatId)
	case t.settings.Button("bot_settings"):
		t.showSettingsDashboard(chatId)
	case t.settings.Button("message_settings"):
		t.showMessageSettings(chatId)
	case t.settings.Button("feature_toggle"):
		t.showFeatureToggles(chatId)
	case t.settings.Button("broadcast"):
		t.promptBroadcast(chatId)
	default:
		return false
	}
	return true
}

// onSessionInput consumes text claimed by a pending flow.
func (t *TgBot) onSessionInput(chatId int64, text string, state *session.State) error {
	// Navigation labels abort any pending flow.
	if text == t.settings.Button("homepage") || text == t.settings.Button("cancel_reg") {
		t.clearSession(chatId)
		t.showMainMenu(chatId)
		return nil
	}

	switch state.Action {
	case session.ActionEditSetting:
		t.applySettingEdit(chatId, state.Key, text)
	case session.ActionPayoutNumber:
		t.handlePayoutNumber(chatId, state, text)
	case session.ActionPayoutName:
		t.handlePayoutName(chatId, state, text)
	case session.ActionBroadcast:
		t.handleBroadcast(chatId, text)
	case session.ActionDateFilter:
		t.handleDateFilter(chatId, text)
	case session.ActionBulkDelete:
		t.handleBulkDelete(chatId, text)
	default:
		t.clearSession(chatId)
	}
	return nil
}

func (t *TgBot) clearSession(chatId int64) {
	sctx, cancel := sessionCtx()
	defer cancel()
	if err := t.sessions.Clear(sctx, chatId); err != nil {
		t.log.Error("clearing session state", sl.Chat(chatId), sl.Err(err))
	}
}

func (t *TgBot) setSession(chatId int64, state *session.State) bool {
	sctx, cancel := sessionCtx()
	defer cancel()
	if err := t.sessions.Set(sctx, chatId, state); err != nil {
		t.reportError(chatId, "session", err)
		return false
	}
	return true
}
