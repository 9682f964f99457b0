package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist tracks revoked JWT tokens in Redis. Entries expire on their
// own once the token they shadow would have expired anyway.
type TokenBlacklist struct {
	redis *redis.Client
}

func NewTokenBlacklist(redisClient *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{redis: redisClient}
}

func tokenKey(token string) string {
	return fmt.Sprintf("blacklist:token:%s", token)
}

func userKey(userID string) string {
	return fmt.Sprintf("blacklist:user:%s", userID)
}

// Add blacklists a token for the given TTL.
func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if err := b.redis.Set(ctx, tokenKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// AddAccessToken blacklists an access token for its remaining lifetime.
func (b *TokenBlacklist) AddAccessToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, nothing to shadow
		return nil
	}
	return b.Add(ctx, token, ttl)
}

func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	exists, err := b.redis.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

func (b *TokenBlacklist) Remove(ctx context.Context, token string) error {
	if err := b.redis.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to remove token from blacklist: %w", err)
	}
	return nil
}

// BlacklistUser invalidates every token issued to the user before now. The
// marker lives for ttl, which must exceed the longest token lifetime.
func (b *TokenBlacklist) BlacklistUser(ctx context.Context, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return b.redis.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err()
}

// IsUserBlacklisted reports whether the token was issued before the user's
// invalidation marker.
func (b *TokenBlacklist) IsUserBlacklisted(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	timestamp, err := b.redis.Get(ctx, userKey(userID)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tokenIssuedAt.Before(time.Unix(timestamp, 0)), nil
}
