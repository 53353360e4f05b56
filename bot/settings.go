package bot

import (
	"fmt"
	"strconv"
	"strings"
	"tutorbot/internal/session"
	"tutorbot/internal/settings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// showSettingsDashboard renders the financial settings with edit buttons.
func (t *TgBot) showSettingsDashboard(chatId int64) {
	text := fmt.Sprintf(
		"⚙️ *BOT SETTINGS*\n\n"+
			"💵 *Financial Settings:*\n"+
			"• Registration Fee: %d ETB\n"+
			"• Referral Reward: %d ETB\n"+
			"• Min Referrals for Withdraw: %d\n"+
			"• Min Withdrawal Amount: %d ETB\n\n"+
			"Select a value to edit:",
		t.settings.Int(settings.KeyRegistrationFee),
		t.settings.Int(settings.KeyReferralReward),
		t.settings.Int(settings.KeyMinReferralsWithdraw),
		t.settings.Int(settings.KeyMinWithdrawalAmount))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, key := range settings.FinancialKeys {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text:         fmt.Sprintf("✏️ %s (%d)", settingTitle(key), t.settings.Int(key)),
			CallbackData: cbSettings + "fin:" + key,
		}})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "📖 View All", CallbackData: cbSettings + "view"},
		{Text: "↩️ Reset Defaults", CallbackData: cbSettings + "rst"},
	})
	t.sendWithKeyboard(chatId, text, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows})
}

// showMessageSettings lists the editable message templates and button
// labels.
func (t *TgBot) showMessageSettings(chatId int64) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, key := range settings.MessageKeys {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text:         "📝 " + settingTitle(key),
			CallbackData: cbSettings + "msg:" + key,
		}})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "🔤 Button Labels", CallbackData: cbSettings + "btn"},
	})
	t.sendWithKeyboard(chatId,
		"📝 *MESSAGE SETTINGS*\n\nSelect a template to edit. Placeholders like {fee} and {reward} are filled automatically.",
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows})
}

func (t *TgBot) showButtonSettings(chatId int64) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, key := range settings.ButtonKeys {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text:         t.settings.String(key),
			CallbackData: cbSettings + "btl:" + key,
		}})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "🔙 Back", CallbackData: cbSettings + "back"},
	})
	t.sendWithKeyboard(chatId,
		"🔤 *BUTTON LABELS*\n\nSelect a label to edit:",
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows})
}

// showFeatureToggles renders the feature switches; tapping one flips it.
func (t *TgBot) showFeatureToggles(chatId int64) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, key := range settings.ToggleKeys {
		mark := "🔴 OFF"
		if t.settings.Bool(key) {
			mark = "🟢 ON"
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s — %s", settingTitle(key), mark),
			CallbackData: cbSettings + "tgl:" + key,
		}})
	}
	t.sendWithKeyboard(chatId,
		"🔄 *FEATURE TOGGLES*\n\nTap a feature to switch it on or off:",
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows})
}

func (t *TgBot) showAllSettings(chatId int64) {
	var b strings.Builder
	b.WriteString("📖 *CURRENT CONFIGURATION*\n\n")
	for _, key := range settings.FinancialKeys {
		b.WriteString(fmt.Sprintf("`%s` = %d\n", key, t.settings.Int(key)))
	}
	b.WriteString("\n")
	for _, key := range settings.ToggleKeys {
		b.WriteString(fmt.Sprintf("`%s` = %t\n", key, t.settings.Bool(key)))
	}
	b.WriteString("\n")
	for _, key := range settings.MessageKeys {
		value := t.settings.String(key)
		if len(value) > 60 {
			value = value[:60] + "…"
		}
		b.WriteString(fmt.Sprintf("`%s` = %s\n", key, value))
	}
	for _, part := range splitMessage(b.String(), 4000) {
		t.plainResponse(chatId, part)
	}
}

// onSettingsCallback routes the set: admin callbacks.
func (t *TgBot) onSettingsCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	chatId := callbackChat(cq)
	if !t.isAdmin(cq.From.Id) {
		t.answerCallback(cq, "Not authorized")
		return nil
	}
	updatedBy := "admin:" + strconv.FormatInt(cq.From.Id, 10)

	payload := cq.Data[len(cbSettings):]
	verb, key, _ := strings.Cut(payload, ":")
	switch verb {
	case "fin", "msg", "btl":
		t.answerCallback(cq, "")
		t.promptSettingEdit(chatId, verb, key)
	case "btn":
		t.answerCallback(cq, "")
		t.showButtonSettings(chatId)
	case "tgl":
		state, err := t.settings.Toggle(key, updatedBy)
		if err != nil {
			t.answerCallback(cq, "Failed")
			t.reportError(chatId, "feature toggle", err)
			return nil
		}
		if state {
			t.answerCallback(cq, settingTitle(key)+" enabled")
		} else {
			t.answerCallback(cq, settingTitle(key)+" disabled")
		}
		t.showFeatureToggles(chatId)
	case "rst":
		t.answerCallback(cq, "")
		if key == "yes" {
			if err := t.settings.ResetAll(updatedBy); err != nil {
				t.reportError(chatId, "reset settings", err)
				return nil
			}
			t.plainResponse(chatId, "✅ All settings restored to defaults.")
			t.showSettingsDashboard(chatId)
			return nil
		}
		t.sendWithKeyboard(chatId,
			"↩️ *RESET TO DEFAULTS*\n\nThis restores every setting to its built-in value. Continue?",
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
				{Text: "✅ Yes, reset everything", CallbackData: cbSettings + "rst:yes"},
				{Text: "❌ Cancel", CallbackData: cbSettings + "back"},
			}}})
	case "view":
		t.answerCallback(cq, "")
		t.showAllSettings(chatId)
	case "back":
		t.answerCallback(cq, "")
		t.showSettingsDashboard(chatId)
	default:
		t.answerCallback(cq, "")
	}
	return nil
}

// promptSettingEdit arms an edit session; the admin's next message becomes
// the new value.
func (t *TgBot) promptSettingEdit(chatId int64, kind, key string) {
	if !settings.Known(key) {
		t.plainResponse(chatId, "❌ Unknown setting.")
		return
	}
	if !t.setSession(chatId, &session.State{Action: session.ActionEditSetting, Key: key}) {
		return
	}

	current := t.settings.String(key)
	hint := "Send the new value as a message."
	if kind == "fin" {
		hint = "Send the new number as a message."
	}
	t.plainResponse(chatId, fmt.Sprintf(
		"✏️ *EDIT: %s*\n\n*Current value:*\n%s\n\n%s\nUse the Homepage button to cancel.",
		settingTitle(key), current, hint))
}

// applySettingEdit consumes the pending edit's value. On a rejected value
// the session stays armed so the corrected message routes back here.
func (t *TgBot) applySettingEdit(chatId int64, key, text string) {
	value, err := parseSettingValue(key, text)
	if err != nil {
		t.plainResponse(chatId, "❌ Please send a non-negative whole number.")
		return
	}
	t.clearSession(chatId)

	updatedBy := "admin:" + strconv.FormatInt(chatId, 10)
	if err := t.settings.Set(key, value, updatedBy); err != nil {
		t.reportError(chatId, "setting edit", err)
		return
	}
	t.plainResponse(chatId, fmt.Sprintf("✅ *%s* updated.", settingTitle(key)))
	t.showSettingsDashboard(chatId)
}

// parseSettingValue validates an edit. Numeric keys must parse as a
// non-negative integer; everything else is stored verbatim.
func parseSettingValue(key, text string) (interface{}, error) {
	for _, numeric := range settings.FinancialKeys {
		if key == numeric {
			n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, fmt.Errorf("negative value %d for %s", n, key)
			}
			return n, nil
		}
	}
	return text, nil
}

// settingTitle turns a snake_case key into a readable label.
func settingTitle(key string) string {
	key = strings.TrimPrefix(key, "btn_")
	words := strings.Split(key, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
