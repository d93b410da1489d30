package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const attemptIndexKey = "surge:flights"

// RedisAttemptLog stores attempts in one sorted set per flight, scored by
// unix microseconds (exact in a float64). The index set lists every flight
// that was ever quoted so eviction can reach all of them.
type RedisAttemptLog struct {
	client *redis.Client
}

func NewRedisAttemptLog(client *redis.Client) *RedisAttemptLog {
	return &RedisAttemptLog{client: client}
}

func (l *RedisAttemptLog) Record(ctx context.Context, flightID int64, at time.Time) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, attemptsKey(flightID), redis.Z{Score: float64(at.UnixMicro()), Member: uuid.NewString()})
		pipe.SAdd(ctx, attemptIndexKey, flightID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record attempt for flight %d: %w", flightID, err)
	}
	return nil
}

func (l *RedisAttemptLog) EvictBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	flights, err := l.client.SMembers(ctx, attemptIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("list attempt keys: %w", err)
	}

	// Exclusive bound: an attempt exactly at cutoff is still in the window.
	upper := "(" + strconv.FormatInt(cutoff.UnixMicro(), 10)
	var evicted int64
	for _, id := range flights {
		n, err := l.client.ZRemRangeByScore(ctx, "surge:attempts:"+id, "-inf", upper).Result()
		if err != nil {
			return evicted, fmt.Errorf("evict attempts for flight %s: %w", id, err)
		}
		evicted += n
	}
	return evicted, nil
}

func (l *RedisAttemptLog) CountSince(ctx context.Context, flightID int64, since time.Time) (int64, error) {
	n, err := l.client.ZCount(ctx, attemptsKey(flightID), strconv.FormatInt(since.UnixMicro(), 10), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("count attempts for flight %d: %w", flightID, err)
	}
	return n, nil
}

func attemptsKey(flightID int64) string {
	return "surge:attempts:" + strconv.FormatInt(flightID, 10)
}
