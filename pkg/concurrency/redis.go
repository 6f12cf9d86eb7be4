package concurrency

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "runway:concurrency:"

// RedisRegistry shares concurrency-group state between server and agents.
type RedisRegistry struct {
	client redis.UniversalClient
}

func NewRedisRegistry(ctx context.Context, url string) (*RedisRegistry, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRegistry{client: client}, nil
}

func (r *RedisRegistry) Register(ctx context.Context, group, runID string) (string, error) {
	superseded, err := r.client.GetSet(ctx, keyPrefix+group, runID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to register run in group %q: %w", group, err)
	}

	return superseded, nil
}

// releaseScript deletes the group key only while runID still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *RedisRegistry) Release(ctx context.Context, group, runID string) error {
	err := releaseScript.Run(ctx, r.client, []string{keyPrefix + group}, runID).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release group %q: %w", group, err)
	}

	return nil
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
