package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const raffleListKey = "raffles:list"

// ValkeyClient caches the serialized raffle list so the storefront landing
// page does not hit Postgres on every request.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = time.Minute
	}

	return &ValkeyClient{client: rdb, ttl: ttl}, nil
}

// GetRaffleList returns the cached JSON payload, or nil on a miss.
func (v *ValkeyClient) GetRaffleList(ctx context.Context) ([]byte, error) {
	payload, err := v.client.Get(ctx, raffleListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return payload, nil
}

func (v *ValkeyClient) SetRaffleList(ctx context.Context, payload []byte) error {
	return v.client.Set(ctx, raffleListKey, payload, v.ttl).Err()
}

// InvalidateRaffleList drops the cached list after any raffle mutation.
func (v *ValkeyClient) InvalidateRaffleList(ctx context.Context) error {
	return v.client.Del(ctx, raffleListKey).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
