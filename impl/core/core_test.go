package core

import (
	"fmt"
	"log/slog"
	"testing"
	"time"
	"tutorbot/entity"
	"tutorbot/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory Database with the same write semantics as the
// real store: merge upserts for users, a unique credit marker per
// (referrer, referee) pair, field-level reward increments.
type memoryStore struct {
	users       map[int64]*entity.User
	payments    map[string]*entity.PaymentRequest
	withdrawals map[string]*entity.WithdrawalRequest
	credits     map[string]bool
	config      map[string]*entity.ConfigEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:       make(map[int64]*entity.User),
		payments:    make(map[string]*entity.PaymentRequest),
		withdrawals: make(map[string]*entity.WithdrawalRequest),
		credits:     make(map[string]bool),
		config:      make(map[string]*entity.ConfigEntry),
	}
}

func (m *memoryStore) GetUser(id int64) (*entity.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memoryStore) SaveUser(user *entity.User) error {
	copied := *user
	if existing, ok := m.users[user.TelegramId]; ok {
		copied.ReferralCount = existing.ReferralCount
		copied.Rewards = existing.Rewards
		copied.TotalRewards = existing.TotalRewards
	}
	m.users[user.TelegramId] = &copied
	return nil
}

func (m *memoryStore) DeleteUser(id int64) error {
	delete(m.users, id)
	return nil
}

func (m *memoryStore) AllUsers() ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (m *memoryStore) VerifiedUsers() ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range m.users {
		if user.IsVerified {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (m *memoryStore) UsersByDateRange(from, to time.Time) ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range m.users {
		if !user.JoinedAt.Before(from) && !user.JoinedAt.After(to) {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (m *memoryStore) UserReferrals(referrerId string) ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range m.users {
		if user.ReferrerId == referrerId {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (m *memoryStore) TopReferrers(limit int64) ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range m.users {
		if user.ReferralCount > 0 {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (m *memoryStore) CreditReferral(referrerId, refereeId int64, reward int64) error {
	marker := fmt.Sprintf("%d:%d", referrerId, refereeId)
	if m.credits[marker] {
		return entity.ErrAlreadyCredited
	}
	m.credits[marker] = true
	referrer := m.users[referrerId]
	referrer.ReferralCount++
	referrer.Rewards += reward
	referrer.TotalRewards += reward
	return nil
}

func (m *memoryStore) SetReferrer(userId int64, referrerId string) error {
	user, ok := m.users[userId]
	if !ok {
		return entity.ErrNotFound
	}
	user.ReferrerId = referrerId
	return nil
}

func (m *memoryStore) AdjustRewards(userId int64, delta int64) error {
	user, ok := m.users[userId]
	if !ok {
		return entity.ErrNotFound
	}
	user.Rewards += delta
	return nil
}

func (m *memoryStore) AddPaymentRequest(req *entity.PaymentRequest) error {
	copied := *req
	m.payments[req.Id] = &copied
	return nil
}

func (m *memoryStore) GetPaymentRequest(id string) (*entity.PaymentRequest, error) {
	req, ok := m.payments[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (m *memoryStore) PendingPayments() ([]*entity.PaymentRequest, error) {
	var requests []*entity.PaymentRequest
	for _, req := range m.payments {
		if req.Status == entity.StatusPending {
			copied := *req
			requests = append(requests, &copied)
		}
	}
	return requests, nil
}

func (m *memoryStore) SetPaymentStatus(id string, status entity.RequestStatus) error {
	req, ok := m.payments[id]
	if !ok {
		return entity.ErrNotFound
	}
	req.Status = status
	return nil
}

func (m *memoryStore) AddWithdrawalRequest(req *entity.WithdrawalRequest) error {
	copied := *req
	m.withdrawals[req.Id] = &copied
	return nil
}

func (m *memoryStore) GetWithdrawalRequest(id string) (*entity.WithdrawalRequest, error) {
	req, ok := m.withdrawals[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (m *memoryStore) PendingWithdrawals() ([]*entity.WithdrawalRequest, error) {
	var requests []*entity.WithdrawalRequest
	for _, req := range m.withdrawals {
		if req.Status == entity.StatusPending {
			copied := *req
			requests = append(requests, &copied)
		}
	}
	return requests, nil
}

func (m *memoryStore) SetWithdrawalStatus(id string, status entity.RequestStatus) error {
	req, ok := m.withdrawals[id]
	if !ok {
		return entity.ErrNotFound
	}
	req.Status = status
	return nil
}

func (m *memoryStore) GetConfigEntry(key string) (*entity.ConfigEntry, error) {
	entry, ok := m.config[key]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return entry, nil
}

func (m *memoryStore) SetConfigEntry(key string, value interface{}, updatedBy string) error {
	m.config[key] = &entity.ConfigEntry{Key: key, Value: value, UpdatedBy: updatedBy}
	return nil
}

func (m *memoryStore) AllConfigEntries() ([]*entity.ConfigEntry, error) {
	var entries []*entity.ConfigEntry
	for _, entry := range m.config {
		entries = append(entries, entry)
	}
	return entries, nil
}

func newTestCore(t *testing.T) (*Core, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	st := settings.NewStore(store, slog.Default())
	require.NoError(t, st.Refresh())
	return New(store, st, slog.Default()), store
}

func registerThrough(t *testing.T, c *Core, id int64, step entity.RegistrationStep) *entity.User {
	t.Helper()
	user, err := c.BeginRegistration(id, "Test", "tester")
	require.NoError(t, err)
	if step == entity.StepAwaitingName {
		return user
	}
	user, err = c.SubmitName(id, "Abebe Kebede")
	require.NoError(t, err)
	if step == entity.StepAwaitingPhone {
		return user
	}
	user, err = c.SubmitPhone(id, id, "+251911000111")
	require.NoError(t, err)
	if step == entity.StepAwaitingStream {
		return user
	}
	user, err = c.SelectStream(id, entity.StudentNatural)
	require.NoError(t, err)
	if step == entity.StepAwaitingPaymentMethod {
		return user
	}
	user, err = c.SelectPaymentMethod(id, entity.MethodTeleBirr)
	require.NoError(t, err)
	return user
}

func TestRegistrationFullSequence(t *testing.T) {
	c, store := newTestCore(t)

	user, err := c.BeginRegistration(100, "Abebe", "abebe")
	require.NoError(t, err)
	assert.Equal(t, entity.StepAwaitingName, user.Step)

	user, err = c.SubmitName(100, "  Abebe Kebede  ")
	require.NoError(t, err)
	assert.Equal(t, "Abebe Kebede", user.Name)
	assert.Equal(t, entity.StepAwaitingPhone, user.Step)

	user, err = c.SubmitPhone(100, 100, "+251911000111")
	require.NoError(t, err)
	assert.Equal(t, entity.StepAwaitingStream, user.Step)

	user, err = c.SelectStream(100, entity.StudentSocial)
	require.NoError(t, err)
	assert.Equal(t, entity.StepAwaitingPaymentMethod, user.Step)

	user, err = c.SelectPaymentMethod(100, entity.MethodCBE)
	require.NoError(t, err)
	assert.Equal(t, entity.StepAwaitingScreenshot, user.Step)

	user, req, err := c.SubmitScreenshot(100, "file-abc")
	require.NoError(t, err)
	assert.Equal(t, entity.StepCompleted, user.Step)
	assert.Equal(t, entity.PaymentPendingApproval, user.PaymentStatus)
	assert.False(t, user.IsVerified)

	require.NotNil(t, req)
	assert.Equal(t, int64(100), req.UserId)
	assert.Equal(t, "file-abc", req.FileRef)
	assert.Equal(t, entity.MethodCBE, req.PaymentMethod)
	assert.Equal(t, int64(500), req.Amount)
	assert.Equal(t, entity.StatusPending, req.Status)
	assert.Len(t, store.payments, 1)
}

func TestRegistrationNameBounds(t *testing.T) {
	c, _ := newTestCore(t)
	registerThrough(t, c, 100, entity.StepAwaitingName)

	_, err := c.SubmitName(100, "A")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = c.SubmitName(100, "   x   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	_, err = c.SubmitName(100, string(long))
	assert.ErrorIs(t, err, ErrInvalidName)

	user, err := c.SubmitName(100, "Ab")
	require.NoError(t, err)
	assert.Equal(t, entity.StepAwaitingPhone, user.Step)
}

func TestRegistrationRejectsForeignContact(t *testing.T) {
	c, _ := newTestCore(t)
	registerThrough(t, c, 100, entity.StepAwaitingPhone)

	_, err := c.SubmitPhone(100, 999, "+251911000111")
	assert.ErrorIs(t, err, ErrWrongStep)

	user, err := c.User(100)
	require.NoError(t, err)
	assert.Equal(t, entity.StepAwaitingPhone, user.Step)
	assert.Empty(t, user.Phone)
}

func TestScreenshotOutOfStepIsRejected(t *testing.T) {
	c, store := newTestCore(t)
	registerThrough(t, c, 100, entity.StepAwaitingStream)

	_, _, err := c.SubmitScreenshot(100, "file-abc")
	assert.ErrorIs(t, err, ErrWrongStep)
	assert.Empty(t, store.payments)

	user, err := c.User(100)
	require.NoError(t, err)
	assert.Equal(t, entity.StepAwaitingStream, user.Step)
	assert.Equal(t, entity.PaymentNotStarted, user.PaymentStatus)
}

func TestChangePaymentMethodBeforeUpload(t *testing.T) {
	c, _ := newTestCore(t)
	registerThrough(t, c, 100, entity.StepAwaitingScreenshot)

	user, err := c.SelectPaymentMethod(100, entity.MethodCBE)
	require.NoError(t, err)
	assert.Equal(t, entity.MethodCBE, user.PaymentMethod)
	assert.Equal(t, entity.StepAwaitingScreenshot, user.Step)
}

func TestBeginRegistrationDeniedWhenVerifiedOrBlocked(t *testing.T) {
	c, store := newTestCore(t)

	_, _, err := c.EnsureUser(100, "Abebe", "abebe")
	require.NoError(t, err)
	store.users[100].IsVerified = true
	_, err = c.BeginRegistration(100, "Abebe", "abebe")
	assert.ErrorIs(t, err, ErrAlreadyVerified)

	_, _, err = c.EnsureUser(200, "Bekele", "")
	require.NoError(t, err)
	store.users[200].Blocked = true
	_, err = c.BeginRegistration(200, "Bekele", "")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestCancelPreservesReferralFields(t *testing.T) {
	c, store := newTestCore(t)
	registerThrough(t, c, 100, entity.StepAwaitingScreenshot)

	store.users[100].ReferrerId = "55"
	store.users[100].ReferralCount = 3
	store.users[100].Rewards = 90
	store.users[100].TotalRewards = 150
	joined := store.users[100].JoinedAt

	user, err := c.CancelRegistration(100)
	require.NoError(t, err)
	assert.Equal(t, entity.StepNotStarted, user.Step)
	assert.Empty(t, user.Name)
	assert.Empty(t, user.Phone)
	assert.Empty(t, string(user.StudentType))
	assert.Empty(t, string(user.PaymentMethod))

	assert.Equal(t, "55", user.ReferrerId)
	assert.Equal(t, int64(3), user.ReferralCount)
	assert.Equal(t, int64(90), user.Rewards)
	assert.Equal(t, int64(150), user.TotalRewards)
	assert.Equal(t, joined, user.JoinedAt)
}

func TestParseReferralToken(t *testing.T) {
	id, ok := ParseReferralToken("ref_1001")
	assert.True(t, ok)
	assert.Equal(t, int64(1001), id)

	for _, payload := range []string{"", "ref_", "ref_abc", "ref_12x", "REF_12", "xref_12", "ref_-5"} {
		_, ok = ParseReferralToken(payload)
		assert.False(t, ok, payload)
	}
}

func TestRecordReferralEndToEnd(t *testing.T) {
	c, _ := newTestCore(t)

	_, _, err := c.EnsureUser(1001, "Referrer", "")
	require.NoError(t, err)
	_, created, err := c.EnsureUser(2002, "Referee", "")
	require.NoError(t, err)
	assert.True(t, created)

	referrerId, ok := ParseReferralToken("ref_1001")
	require.True(t, ok)
	require.NoError(t, c.RecordReferral(2002, referrerId))

	referrer, err := c.User(1001)
	require.NoError(t, err)
	assert.Equal(t, int64(1), referrer.ReferralCount)
	assert.Equal(t, int64(30), referrer.Rewards)
	assert.Equal(t, int64(30), referrer.TotalRewards)

	referee, err := c.User(2002)
	require.NoError(t, err)
	assert.Equal(t, "1001", referee.ReferrerId)
}

func TestRecordReferralExactlyOnce(t *testing.T) {
	c, _ := newTestCore(t)
	_, _, err := c.EnsureUser(1001, "Referrer", "")
	require.NoError(t, err)
	_, _, err = c.EnsureUser(2002, "Referee", "")
	require.NoError(t, err)

	require.NoError(t, c.RecordReferral(2002, 1001))
	require.NoError(t, c.RecordReferral(2002, 1001))
	require.NoError(t, c.RecordReferral(2002, 1001))

	referrer, err := c.User(1001)
	require.NoError(t, err)
	assert.Equal(t, int64(1), referrer.ReferralCount)
	assert.Equal(t, int64(30), referrer.Rewards)
}

func TestRecordReferralSelfAndUnknown(t *testing.T) {
	c, _ := newTestCore(t)
	_, _, err := c.EnsureUser(2002, "Referee", "")
	require.NoError(t, err)

	require.NoError(t, c.RecordReferral(2002, 2002))
	require.NoError(t, c.RecordReferral(2002, 777))

	referee, err := c.User(2002)
	require.NoError(t, err)
	assert.Empty(t, referee.ReferrerId)
}

func TestRecordReferralUnknownReferee(t *testing.T) {
	c, store := newTestCore(t)
	_, _, err := c.EnsureUser(1001, "Referrer", "")
	require.NoError(t, err)

	// The referee never started the bot; no credit may land.
	require.NoError(t, c.RecordReferral(2002, 1001))

	referrer, err := c.User(1001)
	require.NoError(t, err)
	assert.Equal(t, int64(0), referrer.ReferralCount)
	assert.Equal(t, int64(0), referrer.Rewards)
	assert.Empty(t, store.credits)
}

func TestSaveUserPreservesReferralCounters(t *testing.T) {
	c, store := newTestCore(t)
	_, _, err := c.EnsureUser(100, "Referrer", "")
	require.NoError(t, err)
	_, _, err = c.EnsureUser(2002, "Referee", "")
	require.NoError(t, err)

	// A credit lands between the snapshot and its write-back.
	stale, err := c.User(100)
	require.NoError(t, err)
	require.NoError(t, c.RecordReferral(2002, 100))
	require.NoError(t, store.SaveUser(stale))

	referrer, err := c.User(100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), referrer.ReferralCount)
	assert.Equal(t, int64(30), referrer.Rewards)
	assert.Equal(t, int64(30), referrer.TotalRewards)
}

func TestWithdrawalDenialPrecedence(t *testing.T) {
	c, store := newTestCore(t)
	_, _, err := c.EnsureUser(100, "Abebe", "")
	require.NoError(t, err)

	// No funds and no payout profile: funds first.
	_, err = c.RequestWithdrawal(100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Enough funds but no profile.
	store.users[100].Rewards = 150
	_, err = c.RequestWithdrawal(100)
	assert.ErrorIs(t, err, ErrNoPayoutProfile)

	_, err = c.SavePayoutProfile(100, entity.MethodTeleBirr, "+251911000111", "Abebe Kebede")
	require.NoError(t, err)

	req, err := c.RequestWithdrawal(100)
	require.NoError(t, err)
	assert.Equal(t, int64(150), req.Amount)
	assert.Equal(t, "+251911000111", req.AccountNumber)
	assert.Equal(t, entity.StatusPending, req.Status)

	// Balance is untouched until approval.
	user, err := c.User(100)
	require.NoError(t, err)
	assert.Equal(t, int64(150), user.Rewards)
}

func TestWithdrawalFloorTracksReferralSettings(t *testing.T) {
	c, store := newTestCore(t)
	_, _, err := c.EnsureUser(100, "Abebe", "")
	require.NoError(t, err)
	_, err = c.SavePayoutProfile(100, entity.MethodTeleBirr, "+251911000111", "Abebe Kebede")
	require.NoError(t, err)

	// Raising the per-referral reward raises the floor with it.
	require.NoError(t, c.Settings().Set(settings.KeyReferralReward, int64(50), "admin:9"))
	assert.Equal(t, int64(200), c.MinWithdrawal())

	store.users[100].Rewards = 150
	_, err = c.RequestWithdrawal(100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	store.users[100].Rewards = 200
	req, err := c.RequestWithdrawal(100)
	require.NoError(t, err)
	assert.Equal(t, int64(200), req.Amount)
}

func TestSavePayoutProfileValidation(t *testing.T) {
	c, _ := newTestCore(t)
	_, _, err := c.EnsureUser(100, "Abebe", "")
	require.NoError(t, err)

	_, err = c.SavePayoutProfile(100, entity.MethodTeleBirr, "0911000111", "Abebe")
	assert.Error(t, err)

	_, err = c.SavePayoutProfile(100, entity.MethodTeleBirr, "+2519", "Abebe")
	assert.Error(t, err)

	_, err = c.SavePayoutProfile(100, entity.MethodTeleBirr, "+251911000111", "   ")
	assert.Error(t, err)

	_, err = c.SavePayoutProfile(100, "paypal", "+251911000111", "Abebe")
	assert.Error(t, err)
}

func TestApprovePaymentVerifiesStudent(t *testing.T) {
	c, _ := newTestCore(t)
	registerThrough(t, c, 100, entity.StepAwaitingScreenshot)
	_, req, err := c.SubmitScreenshot(100, "file-abc")
	require.NoError(t, err)

	approved, user, err := c.ApprovePayment(req.Id, "admin:9")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)
	assert.True(t, user.IsVerified)
	assert.Equal(t, entity.PaymentApproved, user.PaymentStatus)

	// Second tap on the same button.
	_, _, err = c.ApprovePayment(req.Id, "admin:9")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	_, _, err = c.RejectPayment(req.Id, "admin:9")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestRejectPaymentAllowsReupload(t *testing.T) {
	c, store := newTestCore(t)
	registerThrough(t, c, 100, entity.StepAwaitingScreenshot)
	_, req, err := c.SubmitScreenshot(100, "file-abc")
	require.NoError(t, err)

	_, user, err := c.RejectPayment(req.Id, "admin:9")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.Equal(t, entity.PaymentRejected, user.PaymentStatus)
	assert.Equal(t, entity.StepAwaitingScreenshot, user.Step)

	// A corrected screenshot files a fresh request.
	_, again, err := c.SubmitScreenshot(100, "file-def")
	require.NoError(t, err)
	assert.NotEqual(t, req.Id, again.Id)
	assert.Len(t, store.payments, 2)
}

func TestApproveWithdrawalDecrementsBalance(t *testing.T) {
	c, store := newTestCore(t)
	_, _, err := c.EnsureUser(100, "Abebe", "")
	require.NoError(t, err)
	store.users[100].Rewards = 150
	_, err = c.SavePayoutProfile(100, entity.MethodCBE, "+251911000111", "Abebe Kebede")
	require.NoError(t, err)

	req, err := c.RequestWithdrawal(100)
	require.NoError(t, err)

	// Rewards earned while the request is pending are kept.
	store.users[100].Rewards += 30

	approved, err := c.ApproveWithdrawal(req.Id, "admin:9")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)

	user, err := c.User(100)
	require.NoError(t, err)
	assert.Equal(t, int64(30), user.Rewards)

	_, err = c.ApproveWithdrawal(req.Id, "admin:9")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestRejectWithdrawalKeepsBalance(t *testing.T) {
	c, store := newTestCore(t)
	_, _, err := c.EnsureUser(100, "Abebe", "")
	require.NoError(t, err)
	store.users[100].Rewards = 200
	_, err = c.SavePayoutProfile(100, entity.MethodCBE, "+251911000111", "Abebe Kebede")
	require.NoError(t, err)

	req, err := c.RequestWithdrawal(100)
	require.NoError(t, err)

	_, err = c.RejectWithdrawal(req.Id, "admin:9")
	require.NoError(t, err)

	user, err := c.User(100)
	require.NoError(t, err)
	assert.Equal(t, int64(200), user.Rewards)
}

func TestStudentStats(t *testing.T) {
	c, store := newTestCore(t)
	registerThrough(t, c, 100, entity.StepAwaitingScreenshot)
	_, req, err := c.SubmitScreenshot(100, "file-abc")
	require.NoError(t, err)
	_, _, err = c.ApprovePayment(req.Id, "admin:9")
	require.NoError(t, err)

	registerThrough(t, c, 200, entity.StepAwaitingPhone)
	store.users[200].Rewards = 60
	store.users[200].ReferralCount = 2

	stats, err := c.StudentStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Verified)
	assert.Equal(t, 1, stats.InRegistration)
	assert.Equal(t, int64(2), stats.TotalReferrals)
	assert.Equal(t, int64(60), stats.OutstandingETB)
}
