package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers "may this actor perform one more action right now?".
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// slidingWindow keeps one Redis sorted set per key, scored by unix-nano
// timestamp. Allow prunes entries older than the window, counts the rest and
// records the new action when under the threshold.
//
// The count and the insert are separate commands, so two concurrent calls for
// the same key can both pass at threshold-1. A slight overrun is accepted.
type slidingWindow struct {
	rdc    *redis.Client
	prefix string
	max    int
	window time.Duration
	now    func() time.Time // overridable in tests
}

func NewSlidingWindow(rdc *redis.Client, prefix string, max int, window time.Duration) Limiter {
	return &slidingWindow{
		rdc:    rdc,
		prefix: prefix,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

func (l *slidingWindow) Allow(ctx context.Context, key string) (bool, error) {
	rkey := l.prefix + key
	now := l.now()
	cutoff := strconv.FormatInt(now.Add(-l.window).UnixNano(), 10)

	if err := l.rdc.ZRemRangeByScore(ctx, rkey, "-inf", cutoff).Err(); err != nil {
		return false, fmt.Errorf("ratelimit prune %s: %w", rkey, err)
	}

	n, err := l.rdc.ZCard(ctx, rkey).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit count %s: %w", rkey, err)
	}
	if n >= int64(l.max) {
		return false, nil
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	if err := l.rdc.ZAdd(ctx, rkey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: member,
	}).Err(); err != nil {
		return false, fmt.Errorf("ratelimit record %s: %w", rkey, err)
	}
	// Key disappears on its own once the actor goes quiet.
	_ = l.rdc.Expire(ctx, rkey, l.window).Err()
	return true, nil
}
