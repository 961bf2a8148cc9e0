package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// IUsernameAllocator hands out unique anonymous display names for askers who
// register without choosing one.
type IUsernameAllocator interface {
	Next(ctx context.Context) (string, error)
}

const usernameSequenceKey = "registration:username:seq"

type redisUsernameAllocator struct {
	client *redis.Client
	prefix string
}

// NewRedisUsernameAllocator allocates names off a Redis counter so all
// instances of the service draw from the same sequence.
func NewRedisUsernameAllocator(client *redis.Client, prefix string) IUsernameAllocator {
	return &redisUsernameAllocator{client: client, prefix: prefix}
}

func (a *redisUsernameAllocator) Next(ctx context.Context) (string, error) {
	n, err := a.client.Incr(ctx, usernameSequenceKey).Result()
	if err != nil {
		return "", fmt.Errorf("could not allocate anonymous username: %w", err)
	}
	return fmt.Sprintf("%s%d", a.prefix, n), nil
}

type memoryUsernameAllocator struct {
	counter atomic.Int64
	prefix  string
}

// NewMemoryUsernameAllocator is a process-local fallback for environments
// without Redis. Names are only unique within one process lifetime, so the
// caller's availability re-check carries the uniqueness guarantee.
func NewMemoryUsernameAllocator(prefix string) IUsernameAllocator {
	return &memoryUsernameAllocator{prefix: prefix}
}

func (a *memoryUsernameAllocator) Next(ctx context.Context) (string, error) {
	return fmt.Sprintf("%s%d", a.prefix, a.counter.Add(1)), nil
}
