package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MrEthical07/goOTP"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKey          = "gootp:events"
	defaultMaxLen       = 10000
	defaultWriteTimeout = 2 * time.Second
)

// ErrRedisUnavailable is returned by Events, Len and Clear when Redis fails.
var ErrRedisUnavailable = errors.New("event log redis unavailable")

// Config controls where and how much RedisLog keeps.
type Config struct {
	// Key is the Redis list holding events. Defaults to "gootp:events".
	Key string
	// MaxLen caps the list; older events are trimmed first. Zero means
	// 10000, negative means unbounded.
	MaxLen int64
	// WriteTimeout bounds each Emit. Defaults to two seconds.
	WriteTimeout time.Duration
}

// RedisLog is a goOTP.AuditSink that appends events as JSON to a Redis list
// and reads them back in emission order.
type RedisLog struct {
	redis   redis.UniversalClient
	key     string
	maxLen  int64
	timeout time.Duration
}

func New(client redis.UniversalClient, cfg Config) *RedisLog {
	if cfg.Key == "" {
		cfg.Key = defaultKey
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = defaultMaxLen
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return &RedisLog{
		redis:   client,
		key:     cfg.Key,
		maxLen:  cfg.MaxLen,
		timeout: cfg.WriteTimeout,
	}
}

// Emit appends event. Failures are logged and dropped.
func (l *RedisLog) Emit(ctx context.Context, event goOTP.AuditEvent) {
	if l == nil || l.redis == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("goOTP: event log encode failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	_, err = l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, l.key, data)
		if l.maxLen > 0 {
			pipe.LTrim(ctx, l.key, -l.maxLen, -1)
		}
		return nil
	})
	if err != nil {
		log.Printf("goOTP: event log write failed: %v", err)
	}
}

// Events returns every stored event, oldest first. Entries that no longer
// decode are skipped.
func (l *RedisLog) Events(ctx context.Context) ([]goOTP.AuditEvent, error) {
	raw, err := l.redis.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	out := make([]goOTP.AuditEvent, 0, len(raw))
	for _, item := range raw {
		var ev goOTP.AuditEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			log.Printf("goOTP: event log skipped undecodable entry: %v", err)
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// Len reports how many events are stored.
func (l *RedisLog) Len(ctx context.Context) (int64, error) {
	n, err := l.redis.LLen(ctx, l.key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}

// Clear drops every stored event.
func (l *RedisLog) Clear(ctx context.Context) error {
	if err := l.redis.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
