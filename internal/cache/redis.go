// Package cache holds the shared Redis client. OTP codes are the only
// state kept here; everything durable lives in MySQL.
package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// Client is the process-wide Redis connection, set by InitRedis.
var Client *redis.Client

// InitRedis connects to Redis and verifies the connection with a ping.
func InitRedis(addr, password string, db int) error {
	Client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✓ Redis connected successfully")
	return nil
}

// Close releases the Redis connection if one was opened.
func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}
