package bot

import (
	"log/slog"
	"testing"
	"tutorbot/entity"
	"tutorbot/internal/settings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	entries map[string]*entity.ConfigEntry
}

func (f *fakeBackend) GetConfigEntry(key string) (*entity.ConfigEntry, error) {
	entry, ok := f.entries[key]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return entry, nil
}

func (f *fakeBackend) SetConfigEntry(key string, value interface{}, updatedBy string) error {
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

func newMenuBot(t *testing.T) (*TgBot, *settings.Store) {
	t.Helper()
	st := settings.NewStore(&fakeBackend{entries: map[string]*entity.ConfigEntry{}}, slog.Default())
	require.NoError(t, st.Refresh())
	bot := &TgBot{
		log:      slog.Default(),
		settings: st,
		config:   BotConfig{AdminIds: []int64{9}},
	}
	return bot, st
}

func keyboardLabels(keyboard tgbotapi.ReplyKeyboardMarkup) []string {
	var labels []string
	for _, row := range keyboard.Keyboard {
		for _, button := range row {
			labels = append(labels, button.Text)
		}
	}
	return labels
}

func TestMainMenuRegistrationRow(t *testing.T) {
	bot, st := newMenuBot(t)

	labels := keyboardLabels(bot.mainMenu(100))
	assert.Contains(t, labels, st.Button("register"))
	assert.Contains(t, labels, st.Button("pay_fee"))
	assert.Contains(t, labels, st.Button("profile"))
	assert.NotContains(t, labels, st.Button("admin_panel"))

	labels = keyboardLabels(bot.mainMenu(9))
	assert.Contains(t, labels, st.Button("admin_panel"))
}

func TestMainMenuRegistrationDisabled(t *testing.T) {
	bot, st := newMenuBot(t)
	require.NoError(t, st.Set(settings.KeyRegistrationEnabled, false, "admin:9"))

	labels := keyboardLabels(bot.mainMenu(100))
	assert.NotContains(t, labels, st.Button("register"))
	assert.NotContains(t, labels, st.Button("pay_fee"))
	assert.Contains(t, labels, st.Button("rules"))
}
