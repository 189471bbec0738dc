package redisapp

import (
	"context"
	"fmt"
	"time"

	"slideshow/internal/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Client соединение с Redis, в котором хранится индекс слайд-шоу
type Client struct {
	*redis.Client
}

func NewClient(cfg config.RedisConf) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
	}
}

// Connect создаёт клиента и проверяет соединение
func Connect(ctx context.Context, cfg config.RedisConf) (*Client, error) {
	const op = "redisapp.Connect"

	c := NewClient(cfg)
	if err := c.HealthCheck(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("%s: %s: %w", op, cfg.RedisAddr, err)
	}

	return c, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return c.Ping(ctx).Err()
}
