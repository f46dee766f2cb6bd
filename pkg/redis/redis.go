package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	URL          string `split_words:"true" default:"redis://localhost:6379/0"`
	ReadTimeout  int    `split_words:"true" default:"3"`
	WriteTimeout int    `split_words:"true" default:"3"`
	DialTimeout  int    `split_words:"true" default:"5"`
}

// Options parses the URL and applies the configured timeouts (seconds).
func (r *Config) Options() (*redis.Options, error) {
	opts, err := redis.ParseURL(r.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.ReadTimeout = time.Duration(r.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(r.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(r.DialTimeout) * time.Second
	return opts, nil
}

// New builds a client and pings it.
func (r *Config) New(ctx context.Context) (*redis.Client, error) {
	opts, err := r.Options()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
