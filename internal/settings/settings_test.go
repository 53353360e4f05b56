package settings

import (
	"log/slog"
	"testing"
	"tutorbot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	entries map[string]*entity.ConfigEntry
	fail    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{entries: make(map[string]*entity.ConfigEntry)}
}

func (f *fakeBackend) GetConfigEntry(key string) (*entity.ConfigEntry, error) {
	entry, ok := f.entries[key]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return entry, nil
}

func (f *fakeBackend) SetConfigEntry(key string, value interface{}, updatedBy string) error {
	if f.fail {
		return assert.AnError
	}
	f.entries[key] = &entity.ConfigEntry{Key: key, Value: value, UpdatedBy: updatedBy}
	return nil
}

func (f *fakeBackend) AllConfigEntries() ([]*entity.ConfigEntry, error) {
	var entries []*entity.ConfigEntry
	for _, entry := range f.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

func newTestStore(t *testing.T) (*Store, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	store := NewStore(backend, slog.Default())
	require.NoError(t, store.Refresh())
	return store, backend
}

func TestStoreDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Equal(t, int64(500), store.Int(KeyRegistrationFee))
	assert.Equal(t, int64(30), store.Int(KeyReferralReward))
	assert.Equal(t, int64(4), store.Int(KeyMinReferralsWithdraw))
	assert.Equal(t, int64(120), store.Int(KeyMinWithdrawalAmount))
	assert.False(t, store.Bool(KeyMaintenanceMode))
	assert.True(t, store.Bool(KeyRegistrationEnabled))
	assert.Equal(t, "📚 Register for Tutorial", store.Button("register"))
}

func TestStoreSetWriteThrough(t *testing.T) {
	store, backend := newTestStore(t)

	err := store.Set(KeyRegistrationFee, 750, "admin:42")
	require.NoError(t, err)

	assert.Equal(t, int64(750), store.Int(KeyRegistrationFee))
	require.Contains(t, backend.entries, KeyRegistrationFee)
	assert.Equal(t, "admin:42", backend.entries[KeyRegistrationFee].UpdatedBy)
}

func TestStoreSetUnknownKey(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Set("no_such_key", 1, "admin:42")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestStoreSetBackendFailureKeepsSnapshot(t *testing.T) {
	store, backend := newTestStore(t)
	backend.fail = true

	err := store.Set(KeyRegistrationFee, 999, "admin:42")
	require.Error(t, err)
	assert.Equal(t, int64(500), store.Int(KeyRegistrationFee))
}

func TestStoreRefreshNormalizesNumbers(t *testing.T) {
	backend := newFakeBackend()
	backend.entries[KeyRegistrationFee] = &entity.ConfigEntry{
		Key:   KeyRegistrationFee,
		Value: float64(650),
	}
	store := NewStore(backend, slog.Default())
	require.NoError(t, store.Refresh())

	assert.Equal(t, int64(650), store.Int(KeyRegistrationFee))
	assert.True(t, store.Has(KeyRegistrationFee))
	assert.False(t, store.Has(KeyReferralReward))
}

func TestStoreToggle(t *testing.T) {
	store, _ := newTestStore(t)

	on, err := store.Toggle(KeyMaintenanceMode, "admin:1")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := store.Toggle(KeyMaintenanceMode, "admin:1")
	require.NoError(t, err)
	assert.False(t, off)
}

func TestStoreReset(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set(KeyReferralReward, 100, "admin:1"))
	require.NoError(t, store.Reset(KeyReferralReward, "admin:1"))
	assert.Equal(t, int64(30), store.Int(KeyReferralReward))
}

func TestStoreRender(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set(KeyRegistrationFee, 600, "admin:1"))

	text := store.Render(KeyWelcomeMessage, nil)
	assert.Contains(t, text, "600 ETB")
	assert.Contains(t, text, "30 ETB")

	saved := store.Render(KeyRegNameSaved, map[string]string{"name": "Abebe Kebede"})
	assert.Contains(t, saved, "*Abebe Kebede*")
}

func TestGateMaintenanceShortCircuit(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set(KeyMaintenanceMode, true, "admin:1"))

	for _, feature := range []string{FeatureRegistration, FeatureReferral, FeatureWithdrawal, FeatureTutorial} {
		status := store.Check(feature)
		assert.False(t, status.Allowed, feature)
		assert.Equal(t, store.String(KeyMaintenanceMessage), status.Message, feature)
	}
}

func TestGateFeatureToggle(t *testing.T) {
	store, _ := newTestStore(t)

	assert.True(t, store.Check(FeatureWithdrawal).Allowed)

	require.NoError(t, store.Set(KeyWithdrawalEnabled, false, "admin:1"))
	status := store.Check(FeatureWithdrawal)
	assert.False(t, status.Allowed)
	assert.Equal(t, store.String(KeyWithdrawalDisabledMessage), status.Message)

	assert.True(t, store.Check(FeatureRegistration).Allowed)
	assert.True(t, store.Check("unknown").Allowed)
}
