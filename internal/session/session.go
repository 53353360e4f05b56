package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"tutorbot/entity"
	"tutorbot/internal/config"

	"github.com/redis/go-redis/v9"
)

// Pending input kinds. A stored state means the next text message from the
// chat is consumed by the named flow instead of the command router.
const (
	ActionEditSetting  = "edit_setting"
	ActionPayoutNumber = "payout_number"
	ActionPayoutName   = "payout_name"
	ActionBroadcast    = "broadcast"
	ActionDateFilter   = "date_filter"
	ActionBulkDelete   = "bulk_delete"
)

const (
	keyPrefix = "sess:"
	ttl       = 15 * time.Minute
)

// State marks a chat as waiting for free-form input. Key carries the target
// of the input (a settings key, a payment method) and Data accumulates
// earlier answers of a multi-step flow.
type State struct {
	Action string            `json:"action"`
	Key    string            `json:"key,omitempty"`
	Data   map[string]string `json:"data,omitempty"`
}

// Store keeps per-chat pending input state in redis so a restart of the
// process does not strand an admin mid-edit. Entries expire on their own.
type Store struct {
	client *redis.Client
}

func NewStore(conf *config.Config) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", conf.Redis.Host, conf.Redis.Port),
		Password: conf.Redis.Password,
	})
	return &Store{client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func key(userId int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userId)
}

// Set stores the pending state, replacing any previous one and resetting
// the expiry.
func (s *Store) Set(ctx context.Context, userId int64, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err = s.client.Set(ctx, key(userId), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session state: %w", err)
	}
	return nil
}

// Get returns the pending state for a chat, or entity.ErrNotFound when the
// chat has none (or it expired).
func (s *Store) Get(ctx context.Context, userId int64) (*State, error) {
	payload, err := s.client.Get(ctx, key(userId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}
	var state State
	if err = json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &state, nil
}

// Clear drops the pending state. Clearing an absent state is not an error.
func (s *Store) Clear(ctx context.Context, userId int64) error {
	return s.client.Del(ctx, key(userId)).Err()
}
