package bot

import (
	"testing"
	"tutorbot/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettingValue(t *testing.T) {
	value, err := parseSettingValue(settings.KeyReferralReward, " 45 ")
	require.NoError(t, err)
	assert.Equal(t, int64(45), value)

	_, err = parseSettingValue(settings.KeyReferralReward, "lots")
	assert.Error(t, err)

	_, err = parseSettingValue(settings.KeyRegistrationFee, "-5")
	assert.Error(t, err)

	_, err = parseSettingValue(settings.KeyMinReferralsWithdraw, "")
	assert.Error(t, err)

	value, err = parseSettingValue(settings.KeyWelcomeMessage, "Hello there")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", value)
}

func TestSettingTitle(t *testing.T) {
	assert.Equal(t, "Referral Reward", settingTitle("referral_reward"))
	assert.Equal(t, "Pay Fee", settingTitle("btn_pay_fee"))
}
