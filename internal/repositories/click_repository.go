package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const clickKeyPrefix = "promo:clicks:"

// ClickRepository buffers click counts in Redis so the tracking endpoint
// never has to wait on MySQL. The flusher drains the counters periodically.
type ClickRepository struct {
	RDB *redis.Client
}

func (r *ClickRepository) IncrementClick(ctx context.Context, promotionID int) error {
	if r == nil || r.RDB == nil {
		return fmt.Errorf("click repository not configured")
	}
	return r.RDB.Incr(ctx, clickKeyPrefix+strconv.Itoa(promotionID)).Err()
}

// PendingClicks returns the buffered count for one promotion without
// consuming it. Used when merging live counts into "my promotions" reads.
func (r *ClickRepository) PendingClicks(ctx context.Context, promotionID int) (int64, error) {
	if r == nil || r.RDB == nil {
		return 0, nil
	}
	val, err := r.RDB.Get(ctx, clickKeyPrefix+strconv.Itoa(promotionID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// DrainClicks atomically consumes all buffered counters and returns them
// keyed by promotion id.
func (r *ClickRepository) DrainClicks(ctx context.Context) (map[int]int64, error) {
	if r == nil || r.RDB == nil {
		return nil, nil
	}

	drained := make(map[int]int64)
	var cursor uint64
	for {
		keys, next, err := r.RDB.Scan(ctx, cursor, clickKeyPrefix+"*", 100).Result()
		if err != nil {
			return drained, err
		}
		for _, key := range keys {
			val, err := r.RDB.GetDel(ctx, key).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return drained, err
			}
			id, err := strconv.Atoi(strings.TrimPrefix(key, clickKeyPrefix))
			if err != nil {
				continue
			}
			count, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				continue
			}
			drained[id] += count
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return drained, nil
}
