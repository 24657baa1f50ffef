package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

const settingsPrefix = "settings:"

// SettingsStore keeps client options as plain string keys without expiry.
type SettingsStore struct {
	client *goredis.Client
}

func NewSettingsStore(client *goredis.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, settingsPrefix+key, value, 0).Err()
}

func (s *SettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, settingsPrefix+key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
