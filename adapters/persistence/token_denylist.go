package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/auth"
)

const revokedTokenKeyPrefix = "auth:revoked:"

type redisTokenDenylist struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisTokenDenylist(rdb *redis.Client) auth.Denylist {
	return &redisTokenDenylist{rdb: rdb, now: time.Now}
}

// Revoke keeps the entry only until the token would have expired on its own.
func (d *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, revokedTokenKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return apperror.NewInternal("failed to revoke token", err)
	}
	return nil
}

func (d *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, revokedTokenKeyPrefix+tokenID).Result()
	if err != nil {
		return false, apperror.NewInternal("failed to check revoked token", err)
	}
	return n > 0, nil
}
