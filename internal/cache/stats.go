package cache

import (
	"context"
	"log"
	"time"

	"pay-gateway-api/internal/dal"
	"pay-gateway-api/internal/model"
)

const statsTTL = 90 * 24 * time.Hour

// IncrStatus bumps the daily counter for a status transition. Failures
// are logged and ignored; stats are advisory.
func IncrStatus(ctx context.Context, status model.Status) {
	if dal.RedisClient == nil {
		return
	}
	key := "txn:stats:" + time.Now().Format("20060102")
	if err := dal.RedisClient.HIncrBy(ctx, key, string(status), 1).Err(); err != nil {
		log.Printf("[Stats] incr %s failed: %v", status, err)
		return
	}
	dal.RedisClient.Expire(ctx, key, statsTTL)
}

// DayStats returns the per-status counters for one day (YYYYMMDD,
// empty means today).
func DayStats(ctx context.Context, day string) (map[string]string, error) {
	if dal.RedisClient == nil {
		return map[string]string{}, nil
	}
	if day == "" {
		day = time.Now().Format("20060102")
	}
	return dal.RedisClient.HGetAll(ctx, "txn:stats:"+day).Result()
}
