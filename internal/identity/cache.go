package identity

import (
	"context"
	"encoding/json"
	"time"
)

// Store is the redis surface the identity cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Track(ctx context.Context, userID, key string, ttl time.Duration) error
	Tracked(ctx context.Context, userID string) ([]string, error)
	IdentityKey(tokenHash string) string
	UserTokensKey(userID string) string
}

type cache struct {
	store Store
	ttl   time.Duration
}

func newCache(store Store, ttl time.Duration) *cache {
	if store == nil || ttl <= 0 {
		return nil
	}
	return &cache{store: store, ttl: ttl}
}

func (c *cache) get(ctx context.Context, hash string) (*User, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, c.store.IdentityKey(hash))
	if err != nil {
		return nil, false
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		return nil, false
	}
	return &user, true
}

func (c *cache) put(ctx context.Context, hash string, user *User) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	key := c.store.IdentityKey(hash)
	if err := c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		return err
	}
	return c.store.Track(ctx, user.ID, key, c.ttl)
}

func (c *cache) invalidate(ctx context.Context, userID string) error {
	if c == nil || userID == "" {
		return nil
	}
	keys, err := c.store.Tracked(ctx, userID)
	if err != nil {
		return err
	}
	return c.store.Del(ctx, append(keys, c.store.UserTokensKey(userID))...)
}
