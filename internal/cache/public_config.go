package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"pay-gateway-api/internal/dal"
)

const publicConfigTTL = 5 * time.Minute

// GetPublicConfig reads the cached public channel config. A miss or a
// redis error both return ok=false; the caller falls through to the DB.
func GetPublicConfig(ctx context.Context, channelID uint64, out interface{}) bool {
	if dal.RedisClient == nil {
		return false
	}
	raw, err := dal.RedisClient.Get(ctx, publicConfigKey(channelID)).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func SetPublicConfig(ctx context.Context, channelID uint64, v interface{}) {
	if dal.RedisClient == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	dal.RedisClient.Set(ctx, publicConfigKey(channelID), b, publicConfigTTL)
}

// DropPublicConfig invalidates the cache after channel mutation.
func DropPublicConfig(ctx context.Context, channelID uint64) {
	if dal.RedisClient == nil {
		return
	}
	dal.RedisClient.Del(ctx, publicConfigKey(channelID))
}

func publicConfigKey(channelID uint64) string {
	return "channel:public:" + strconv.FormatUint(channelID, 10)
}
