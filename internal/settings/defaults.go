package settings

// Keys of the live configuration store.
const (
	KeyRegistrationFee      = "registration_fee"
	KeyReferralReward       = "referral_reward"
	KeyMinReferralsWithdraw = "min_referrals_withdraw"
	KeyMinWithdrawalAmount  = "min_withdrawal_amount"

	KeyMaintenanceMode     = "maintenance_mode"
	KeyRegistrationEnabled = "registration_enabled"
	KeyReferralEnabled     = "referral_enabled"
	KeyWithdrawalEnabled   = "withdrawal_enabled"
	KeyTutorialEnabled     = "tutorial_enabled"

	KeyMaintenanceMessage          = "maintenance_message"
	KeyRegistrationDisabledMessage = "registration_disabled_message"
	KeyReferralDisabledMessage     = "referral_disabled_message"
	KeyWithdrawalDisabledMessage   = "withdrawal_disabled_message"
	KeyTutorialsDisabledMessage    = "tutorials_disabled_message"

	KeyWelcomeMessage = "welcome_message"
	KeyStartMessage   = "start_message"

	KeyRegStart     = "reg_start"
	KeyRegNameSaved = "reg_name_saved"
	KeyRegPhoneSaved = "reg_phone_saved"
	KeyRegSuccess   = "reg_success"
)

// defaults holds the compiled-in value for every known key. A missing or
// unreadable store entry falls back here, so the bot stays usable with an
// empty config collection.
var defaults = map[string]interface{}{
	KeyRegistrationFee:      int64(500),
	KeyReferralReward:       int64(30),
	KeyMinReferralsWithdraw: int64(4),
	KeyMinWithdrawalAmount:  int64(120),

	KeyMaintenanceMode:     false,
	KeyRegistrationEnabled: true,
	KeyReferralEnabled:     true,
	KeyWithdrawalEnabled:   true,
	KeyTutorialEnabled:     true,

	KeyMaintenanceMessage:          "🚧 Bot is under maintenance. Please check back later.",
	KeyRegistrationDisabledMessage: "❌ Registration is temporarily closed.",
	KeyReferralDisabledMessage:     "❌ Referral program is currently paused.",
	KeyWithdrawalDisabledMessage:   "❌ Withdrawals are temporarily suspended.",
	KeyTutorialsDisabledMessage:    "❌ Tutorial access is currently unavailable.",

	KeyWelcomeMessage: "🎯 *COMPLETE TUTORIAL REGISTRATION BOT*\n\n📚 Register for comprehensive tutorials\n💰 Registration fee: {fee} ETB\n🎁 Earn {reward} ETB per referral\n\nChoose an option below:",
	KeyStartMessage:   "🎯 *Welcome to Tutorial Registration Bot!*\n\n📚 Register for our comprehensive tutorials\n💰 Registration fee: {fee} ETB\n🎁 Earn {reward} ETB per referral\n\nStart your registration journey!",

	KeyRegStart:      "👤 *ENTER YOUR FULL NAME*\n\nPlease type your full name:",
	KeyRegNameSaved:  "✅ Name saved: *{name}*\n\n📱 *SHARE YOUR PHONE NUMBER*\n\nPlease share your phone number using the button below:",
	KeyRegPhoneSaved: "✅ Phone saved: *{phone}*\n\n🎓 *SELECT YOUR STREAM*\n\nChoose your field of study:",
	KeyRegSuccess:    "🎉 *REGISTRATION SUCCESSFUL!*\n\n✅ Your registration is complete\n✅ Payment verification pending\n⏳ Please wait for admin approval\n\n_You will be notified once approved._",

	"btn_register":          "📚 Register for Tutorial",
	"btn_profile":           "👤 My Profile",
	"btn_invite":            "🎁 Invite & Earn",
	"btn_withdraw":          "💰 Withdraw Rewards",
	"btn_help":              "❓ Help",
	"btn_rules":             "📌 Rules",
	"btn_leaderboard":       "📈 Leaderboard",
	"btn_pay_fee":           "💰 Pay Tutorial Fee",
	"btn_confirm_reg":       "✅ Confirm Registration",
	"btn_cancel_reg":        "❌ Cancel Registration",
	"btn_homepage":          "🏠 Homepage",
	"btn_share_phone":       "📲 Share My Phone Number",
	"btn_upload_screenshot": "📎 Upload Payment Screenshot",
	"btn_change_payment":    "💳 Change Payment Method",
	"btn_my_referrals":      "📊 My Referrals",
	"btn_admin_panel":       "🛠️ Admin Panel",
	"btn_manage_students":   "👥 Manage Students",
	"btn_review_payments":   "💰 Review Payments",
	"btn_student_stats":     "📊 Student Stats",
	"btn_broadcast":         "📢 Broadcast Message",
	"btn_bot_settings":      "⚙️ Bot Settings",
	"btn_message_settings":  "📝 Message Settings",
	"btn_feature_toggle":    "🔄 Feature Toggle",
}

// FinancialKeys lists the numeric settings shown in the financial editor,
// in display order.
var FinancialKeys = []string{
	KeyRegistrationFee,
	KeyReferralReward,
	KeyMinReferralsWithdraw,
	KeyMinWithdrawalAmount,
}

// ToggleKeys lists the feature switches, in display order.
var ToggleKeys = []string{
	KeyMaintenanceMode,
	KeyRegistrationEnabled,
	KeyReferralEnabled,
	KeyWithdrawalEnabled,
	KeyTutorialEnabled,
}

// MessageKeys lists the editable message templates, in display order.
var MessageKeys = []string{
	KeyMaintenanceMessage,
	KeyRegistrationDisabledMessage,
	KeyReferralDisabledMessage,
	KeyWithdrawalDisabledMessage,
	KeyTutorialsDisabledMessage,
	KeyWelcomeMessage,
	KeyStartMessage,
	KeyRegStart,
	KeyRegNameSaved,
	KeyRegPhoneSaved,
	KeyRegSuccess,
}

// ButtonKeys lists the editable button labels, in display order.
var ButtonKeys = []string{
	"btn_register", "btn_profile", "btn_invite", "btn_withdraw",
	"btn_help", "btn_rules", "btn_leaderboard", "btn_pay_fee",
	"btn_confirm_reg", "btn_cancel_reg", "btn_homepage", "btn_share_phone",
	"btn_upload_screenshot", "btn_change_payment", "btn_my_referrals",
	"btn_admin_panel", "btn_manage_students", "btn_review_payments",
	"btn_student_stats", "btn_broadcast", "btn_bot_settings",
	"btn_message_settings", "btn_feature_toggle",
}

// Default returns the compiled-in value for a key, or nil when the key is
// unknown.
func Default(key string) interface{} {
	return defaults[key]
}

// Known reports whether the key belongs to the configuration schema.
func Known(key string) bool {
	_, ok := defaults[key]
	return ok
}
