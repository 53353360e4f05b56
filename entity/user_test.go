package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationStepFollows(t *testing.T) {
	assert.True(t, StepAwaitingName.Follows(StepNotStarted))
	assert.True(t, StepAwaitingPhone.Follows(StepAwaitingName))
	assert.True(t, StepAwaitingStream.Follows(StepAwaitingPhone))
	assert.True(t, StepAwaitingPaymentMethod.Follows(StepAwaitingStream))
	assert.True(t, StepAwaitingScreenshot.Follows(StepAwaitingPaymentMethod))
	assert.True(t, StepCompleted.Follows(StepAwaitingScreenshot))

	assert.False(t, StepAwaitingStream.Follows(StepAwaitingName))
	assert.False(t, StepNotStarted.Follows(StepCompleted))
	assert.False(t, RegistrationStep("bogus").Follows(StepNotStarted))
	assert.False(t, StepAwaitingName.Follows(RegistrationStep("bogus")))
}

func TestUserInRegistration(t *testing.T) {
	user := &User{}
	for _, step := range []RegistrationStep{StepNotStarted, StepCompleted} {
		user.Step = step
		assert.False(t, user.InRegistration(), string(step))
	}
	for _, step := range []RegistrationStep{
		StepAwaitingName, StepAwaitingPhone, StepAwaitingStream,
		StepAwaitingPaymentMethod, StepAwaitingScreenshot,
	} {
		user.Step = step
		assert.True(t, user.InRegistration(), string(step))
	}
}

func TestUserDisplayName(t *testing.T) {
	user := &User{TelegramId: 42}
	assert.Equal(t, "User 42", user.DisplayName())

	user.FirstName = "Abel"
	assert.Equal(t, "Abel", user.DisplayName())

	user.Name = "Abel Tesfaye"
	assert.Equal(t, "Abel Tesfaye", user.DisplayName())
}

func TestUserHasPayoutProfile(t *testing.T) {
	user := &User{}
	assert.False(t, user.HasPayoutProfile())

	user.AccountNumber = "+251911234567"
	assert.False(t, user.HasPayoutProfile())

	user.AccountName = "Abel Tesfaye"
	assert.True(t, user.HasPayoutProfile())
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
