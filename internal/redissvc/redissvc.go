package redissvc

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisService is the product cache. Every operation degrades to a miss or a no-op while the
// server is unreachable; callers never see cache errors.
type RedisService struct {
	rdb       *redis.Client
	logger    *zap.Logger
	connected atomic.Bool
}

func NewRedisService(rdb *redis.Client, logger *zap.Logger) *RedisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisService{
		rdb:    rdb,
		logger: logger,
	}
}

// Connect pings the server once and records the result. A failed ping is logged and leaves the
// service in degraded mode.
func (s *RedisService) Connect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		s.logger.Warn("redis unavailable, running without cache", zap.Error(err))
		s.connected.Store(false)
		return
	}
	s.connected.Store(true)
	s.logger.Info("connected to redis", zap.String("addr", s.rdb.Options().Addr))
}

// Connected reports the last known state. It may be stale.
func (s *RedisService) Connected() bool {
	return s.connected.Load()
}

// Get returns the cached value and whether it was present.
func (s *RedisService) Get(ctx context.Context, key string) (string, bool) {
	if !s.Connected() {
		return "", false
	}
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		s.fail(ctx, "get", key, err)
		return "", false
	}
	return val, true
}

func (s *RedisService) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if !s.Connected() {
		return
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		s.fail(ctx, "set", key, err)
	}
}

func (s *RedisService) Del(ctx context.Context, key string) {
	if !s.Connected() {
		return
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.fail(ctx, "del", key, err)
	}
}

// Monitor pings on every tick and restores the connected flag once the server answers again.
// It returns when ctx is done.
func (s *RedisService) Monitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, time.Second)
			err := s.rdb.Ping(pingCtx).Err()
			cancel()

			switch {
			case err == nil && !s.connected.Load():
				s.connected.Store(true)
				s.logger.Info("redis reachable again, cache enabled")
			case err != nil && s.connected.Load():
				s.fail(ctx, "ping", "", err)
			}
		}
	}
}

func (s *RedisService) Close() error {
	s.connected.Store(false)
	return s.rdb.Close()
}

// fail disables the cache after a server error. Errors caused by the caller's own
// context ending say nothing about the server and leave the flag alone.
func (s *RedisService) fail(ctx context.Context, op, key string, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		s.logger.Debug("redis call abandoned by caller",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	if s.connected.Swap(false) {
		s.logger.Error("redis error, cache disabled",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
