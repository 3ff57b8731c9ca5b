package factory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/session"
	"github.com/akeren/event-rsvp/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
)

// Cache is the subset of the application cache the factories need.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RateLimiterFactory interface {
	CreateRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter
	Close() error
}

// DefaultRateLimiterFactory builds Redis-backed limiters when the cache exposes a reachable
// Redis client and in-memory limiters otherwise. It owns every limiter it creates.
type DefaultRateLimiterFactory struct {
	redisClient *redis.Client
	logger      *log.Logger

	mu      sync.Mutex
	created []ratelimit.RateLimiter
}

func NewDefaultRateLimiterFactory(cache Cache, logger *log.Logger) *DefaultRateLimiterFactory {
	var redisClient *redis.Client
	if cache != nil {
		if provider, ok := cache.(RedisClientProvider); ok {
			redisClient = provider.GetClient()
		}
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			if logger != nil {
				logger.Warn("Redis unreachable for rate limiting, falling back to in-memory", "error", err)
			}
			redisClient = nil
		}
	}

	return &DefaultRateLimiterFactory{redisClient: redisClient, logger: logger}
}

func (f *DefaultRateLimiterFactory) UsesRedis() bool {
	return f.redisClient != nil
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter {
	config := &ratelimit.RateLimitConfig{
		Requests: requests,
		Window:   window,
		Redis:    f.redisClient,
	}
	if f.logger != nil {
		config.Logger = f.logger
	}
	limiter := ratelimit.NewRateLimiter(config)

	f.mu.Lock()
	f.created = append(f.created, limiter)
	f.mu.Unlock()

	return limiter
}

func (f *DefaultRateLimiterFactory) Close() error {
	f.mu.Lock()
	created := f.created
	f.created = nil
	f.mu.Unlock()

	var errs []error
	for _, limiter := range created {
		if err := limiter.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewRevocationStore keeps revoked session IDs in the shared cache when one is configured,
// so a logout holds across replicas. Without a cache the list lives in process memory.
func NewRevocationStore(cache Cache, logger *log.Logger) session.RevocationStore {
	if cache == nil {
		logger.Info("Session revocation list kept in memory")
		return session.NewMemoryRevocationStore()
	}

	logger.Info("Session revocation list kept in cache")
	return session.NewCacheRevocationStore(cache)
}

type FactoryContainer struct {
	RateLimiterFactory RateLimiterFactory
	RevocationStore    session.RevocationStore
}

func NewFactoryContainer(logger *log.Logger, cache Cache) *FactoryContainer {
	return &FactoryContainer{
		RateLimiterFactory: NewDefaultRateLimiterFactory(cache, logger),
		RevocationStore:    NewRevocationStore(cache, logger),
	}
}
