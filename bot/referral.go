package bot

import (
	"errors"
	"fmt"
	"strings"
	"tutorbot/entity"
	"tutorbot/internal/settings"
	"tutorbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

func (t *TgBot) handleInviteEarn(chatId int64) {
	if status := t.settings.Check(settings.FeatureReferral); !status.Allowed {
		t.plainResponse(chatId, status.Message)
		return
	}

	user, err := t.core.User(chatId)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			t.plainResponse(chatId, "❌ User not found. Please start the bot with /start first.")
			return
		}
		t.reportError(chatId, "invite", err)
		return
	}

	link := t.core.ReferralLink(t.config.Username, chatId)
	reward := t.settings.Int(settings.KeyReferralReward)
	minReferrals := t.settings.Int(settings.KeyMinReferralsWithdraw)
	canWithdraw := user.Rewards >= t.core.MinWithdrawal()
	withdrawMark := "❌ No"
	if canWithdraw {
		withdrawMark = "✅ Yes"
	}

	text := fmt.Sprintf(
		"🎁 *INVITE & EARN*\n\n"+
			"🔗 *Your Referral Link:*\n`%s`\n\n"+
			"📊 *Your Stats:*\n"+
			"• Referrals: %d\n"+
			"• Rewards: %d ETB\n"+
			"• Can Withdraw: %s\n\n"+
			"💰 *Earn %d ETB for each successful referral!*\n\n"+
			"📝 *How it works:*\n"+
			"1. Click \"Share with Friends\" below\n"+
			"2. Choose where to share your link\n"+
			"3. You get %d ETB when friends register\n"+
			"4. Withdraw after %d referrals",
		link, user.ReferralCount, user.Rewards, withdrawMark, reward, reward, minReferrals)

	share := fmt.Sprintf("Join %s and earn money! Use my referral link: %s", t.config.Username, link)
	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "📤 Share with Friends", SwitchInlineQuery: &share},
		}},
	}
	t.sendWithKeyboard(chatId, text, keyboard)
}

func (t *TgBot) handleLeaderboard(chatId int64) {
	if status := t.settings.Check(settings.FeatureReferral); !status.Allowed {
		t.plainResponse(chatId, status.Message)
		return
	}

	top, err := t.core.Leaderboard(10)
	if err != nil {
		t.reportError(chatId, "leaderboard", err)
		return
	}
	if len(top) == 0 {
		t.plainResponse(chatId, "📈 *LEADERBOARD*\n\n🏆 No referrals yet. Be the first to invite friends!")
		return
	}

	var b strings.Builder
	b.WriteString("🏆 *TOP REFERRERS*\n\n")
	for i, user := range top {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		b.WriteString(fmt.Sprintf("%s %s\n   📊 %d referrals | 💰 %d ETB\n\n",
			medal, user.DisplayName(), user.ReferralCount, user.Rewards))
	}
	b.WriteString("\n💡 *Tip:* Share your referral link to climb the leaderboard!")
	t.plainResponse(chatId, b.String())
}

func (t *TgBot) handleMyReferrals(chatId int64) {
	if status := t.settings.Check(settings.FeatureReferral); !status.Allowed {
		t.plainResponse(chatId, status.Message)
		return
	}

	referrals, err := t.core.Referrals(chatId)
	if err != nil {
		t.reportError(chatId, "my referrals", err)
		return
	}
	if len(referrals) == 0 {
		t.plainResponse(chatId,
			"📊 *MY REFERRALS*\n\n"+
				"You haven't referred anyone yet.\n\n"+
				"Share your referral link from \"🎁 Invite & Earn\" to start earning!")
		return
	}

	user, err := t.core.User(chatId)
	if err != nil {
		t.reportError(chatId, "my referrals", err)
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 *MY REFERRALS (%d)*\n\n", len(referrals)))
	b.WriteString(fmt.Sprintf("• Total Referrals: %d\n• Total Rewards: %d ETB\n\n", user.ReferralCount, user.TotalRewards))
	b.WriteString("👥 *Referred Users:*\n\n")
	for i, referral := range referrals {
		status := "⏳ Pending"
		if referral.IsVerified {
			status = "✅ Verified"
		}
		b.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, referral.DisplayName(), status))
	}

	for _, part := range splitMessage(b.String(), 4000) {
		t.plainResponse(chatId, part)
	}
}

// notifyReferrer tells a referrer their link just paid out.
func (t *TgBot) notifyReferrer(referrerId int64) {
	referrer, err := t.core.User(referrerId)
	if err != nil {
		t.log.Debug("loading referrer for notification", sl.Chat(referrerId), sl.Err(err))
		return
	}
	reward := t.settings.Int(settings.KeyReferralReward)
	t.plainResponse(referrerId, fmt.Sprintf(
		"🎉 *New referral!*\n\n"+
			"Someone joined through your link.\n"+
			"💰 +%d ETB\n\n"+
			"📊 Referrals: %d | Balance: %d ETB",
		reward, referrer.ReferralCount, referrer.Rewards))
}
