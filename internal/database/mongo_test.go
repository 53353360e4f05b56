package database

import (
	"testing"
	"time"
	"tutorbot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDocumentExcludesCounters(t *testing.T) {
	user := &entity.User{
		TelegramId:    100,
		FirstName:     "Abebe",
		Name:          "Abebe Kebede",
		Step:          entity.StepCompleted,
		ReferralCount: 3,
		Rewards:       90,
		TotalRewards:  120,
		JoinedAt:      time.Now(),
	}

	doc, err := userDocument(user)
	require.NoError(t, err)

	assert.NotContains(t, doc, "referral_count")
	assert.NotContains(t, doc, "rewards")
	assert.NotContains(t, doc, "total_rewards")

	assert.Equal(t, int64(100), doc["telegram_id"])
	assert.Equal(t, "Abebe Kebede", doc["name"])
	assert.Equal(t, string(entity.StepCompleted), doc["registration_step"])
}
