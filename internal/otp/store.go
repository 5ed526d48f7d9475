// Package otp stores short-lived one-time passcodes in Redis, keyed by the
// account type and email they were issued for.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrInvalidOTP = errors.New("invalid or expired OTP")

// Codes live for three minutes; a fresh request overwrites the old code.
const ttl = 3 * time.Minute

// Store handles OTP storage and consumption
type Store struct {
	rdb *redis.Client
}

// NewStore creates a new OTP store
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// GenerateCode generates a random 6-digit code
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Create issues a fresh code for an account and stores it under the
// account's key, replacing any earlier unconsumed code.
func (s *Store) Create(ctx context.Context, accountType, email string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	key := otpKey(accountType, email)
	if err := s.rdb.Set(ctx, key, code, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store OTP in Redis: %w", err)
	}
	return code, nil
}

// Verify atomically checks and consumes the stored code. A matching code
// is deleted so it cannot be replayed.
func (s *Store) Verify(ctx context.Context, accountType, email, code string) error {
	key := otpKey(accountType, email)

	// Lua script so compare and delete happen as one step
	script := `
		local stored = redis.call('GET', KEYS[1])
		if not stored then
			return 0
		end
		if stored ~= ARGV[1] then
			return 0
		end
		redis.call('DEL', KEYS[1])
		return 1
	`

	result, err := s.rdb.Eval(ctx, script, []string{key}, code).Result()
	if err != nil {
		return fmt.Errorf("failed to execute verify script: %w", err)
	}
	if ok, _ := result.(int64); ok != 1 {
		return ErrInvalidOTP
	}
	return nil
}

func otpKey(accountType, email string) string {
	return fmt.Sprintf("otp:%s:%s", accountType, email)
}
