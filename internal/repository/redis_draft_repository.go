// internal/repository/redis_draft_repository.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/wizard"
)

const draftKeyPrefix = "wizard:session:"

// RedisDraftStore relies on key expiry, so Purge has nothing to do.
type RedisDraftStore struct {
	client *redis.Client
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

func draftKey(id string) string { return draftKeyPrefix + id }

func (r *RedisDraftStore) Get(ctx context.Context, id string) (*wizard.State, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, appErrors.ErrWizardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wizard session: %w", err)
	}
	var s wizard.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode wizard session: %w", err)
	}
	return &s, nil
}

func (r *RedisDraftStore) Save(ctx context.Context, s wizard.State, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

func (r *RedisDraftStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, draftKey(id)).Err()
}

func (r *RedisDraftStore) Purge(ctx context.Context) (int64, error) { return 0, nil }
