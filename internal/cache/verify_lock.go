package cache

import (
	"context"
	"time"

	"pay-gateway-api/internal/dal"
)

// VerifyLock serializes concurrent Verify calls for one reference via
// a redis SETNX lease. It is best effort: the CAS status write is the
// correctness guard, the lock only avoids duplicate provider calls.
type VerifyLock struct {
	TTL time.Duration
}

func NewVerifyLock(ttl time.Duration) *VerifyLock {
	return &VerifyLock{TTL: ttl}
}

// Acquire tries to take the per-reference lease. It returns a release
// func and whether the lease was obtained; callers proceed either way.
func (l *VerifyLock) Acquire(ctx context.Context, reference string) (func(), bool) {
	if dal.RedisClient == nil {
		return func() {}, true
	}
	key := "verify:lock:" + reference
	ok, err := dal.RedisClient.SetNX(ctx, key, 1, l.TTL).Result()
	if err != nil || !ok {
		return func() {}, false
	}
	return func() {
		dal.RedisClient.Del(context.Background(), key)
	}, true
}
