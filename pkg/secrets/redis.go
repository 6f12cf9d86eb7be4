package secrets

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// RedisProvider resolves secrets from a Redis hash, one hash per
// namespace. Server deployments point it at the same Redis the
// concurrency registry uses.
type RedisProvider struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisProvider(ctx context.Context, url, namespace string) (*RedisProvider, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisProvider{
		client:    client,
		namespace: namespace,
	}, nil
}

func (p *RedisProvider) Secret(ctx context.Context, name string) (string, error) {
	value, err := p.client.HGet(ctx, "runway:secrets:"+p.namespace, name).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("secret %q not found", name)
	}

	if err != nil {
		return "", fmt.Errorf("failed to fetch secret %q: %w", name, err)
	}

	return value, nil
}

func (p *RedisProvider) Close() error {
	return p.client.Close()
}
