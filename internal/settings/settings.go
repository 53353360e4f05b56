package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"tutorbot/entity"
	"tutorbot/lib/sl"
)

var ErrUnknownKey = errors.New("unknown configuration key")

// Backend is the persistent side of the live configuration.
type Backend interface {
	GetConfigEntry(key string) (*entity.ConfigEntry, error)
	SetConfigEntry(key string, value interface{}, updatedBy string) error
	AllConfigEntries() ([]*entity.ConfigEntry, error)
}

// Store serves configuration values from an in-memory snapshot and
// write-throughs changes to the backend. Readers never touch the database.
type Store struct {
	backend Backend
	log     *slog.Logger

	mu     sync.RWMutex
	values map[string]interface{}
}

func NewStore(backend Backend, log *slog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With(sl.Module("internal.settings")),
		values:  make(map[string]interface{}),
	}
}

// Refresh replaces the snapshot with the current backend state. Unknown
// backend keys are kept so an operator can stage values ahead of a deploy.
func (s *Store) Refresh() error {
	entries, err := s.backend.AllConfigEntries()
	if err != nil {
		return fmt.Errorf("load config entries: %w", err)
	}
	values := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		values[entry.Key] = normalize(entry.Value)
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	s.log.Debug("configuration snapshot refreshed", slog.Int("entries", len(entries)))
	return nil
}

func (s *Store) get(key string) interface{} {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v
	}
	return defaults[key]
}

// Has reports whether the key is overridden in the store (as opposed to
// served from the compiled-in default).
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

func (s *Store) String(key string) string {
	switch v := s.get(key).(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (s *Store) Int(key string) int64 {
	switch v := s.get(key).(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func (s *Store) Bool(key string) bool {
	switch v := s.get(key).(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on" || v == "1"
	default:
		return false
	}
}

// Set write-throughs a new value and updates the snapshot on success.
func (s *Store) Set(key string, value interface{}, updatedBy string) error {
	if !Known(key) {
		return ErrUnknownKey
	}
	value = normalize(value)
	if err := s.backend.SetConfigEntry(key, value, updatedBy); err != nil {
		return fmt.Errorf("store config entry: %w", err)
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	s.log.Info("configuration updated",
		slog.String("key", key),
		slog.String("updated_by", updatedBy))
	return nil
}

// Toggle flips a boolean setting and returns the new state.
func (s *Store) Toggle(key string, updatedBy string) (bool, error) {
	next := !s.Bool(key)
	if err := s.Set(key, next, updatedBy); err != nil {
		return false, err
	}
	return next, nil
}

// Reset restores one key to its compiled-in default.
func (s *Store) Reset(key string, updatedBy string) error {
	def, ok := defaults[key]
	if !ok {
		return ErrUnknownKey
	}
	return s.Set(key, def, updatedBy)
}

// ResetAll restores every key to its compiled-in default.
func (s *Store) ResetAll(updatedBy string) error {
	for key, def := range defaults {
		if err := s.Set(key, def, updatedBy); err != nil {
			return err
		}
	}
	return nil
}

// Render expands the template stored under key with the current financial
// values plus any caller-supplied placeholders.
func (s *Store) Render(key string, vars map[string]string) string {
	text := s.String(key)
	replacements := []string{
		"{fee}", strconv.FormatInt(s.Int(KeyRegistrationFee), 10),
		"{reward}", strconv.FormatInt(s.Int(KeyReferralReward), 10),
	}
	for name, value := range vars {
		replacements = append(replacements, "{"+name+"}", value)
	}
	return strings.NewReplacer(replacements...).Replace(text)
}

// Button returns the label for a reply keyboard button key.
func (s *Store) Button(key string) string {
	return s.String("btn_" + key)
}

// normalize folds numeric types the driver may hand back into int64 so
// accessors and the editor render consistently.
func normalize(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
		return n
	default:
		return v
	}
}
