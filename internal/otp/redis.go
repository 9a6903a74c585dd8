package otp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:"

// maxTxRetries bounds optimistic-lock retries when concurrent verifies
// race on the same identifier.
const maxTxRetries = 4

// RedisStore persists records in Redis so codes survive restarts and
// are shared across replicas. Keys carry a TTL of twice the code
// lifetime: the extra window lets Verify distinguish an expired code
// (410) from one that never existed (404) before Redis reclaims it.
type RedisStore struct {
	client redis.UniversalClient

	now func() time.Time
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

func (s *RedisStore) key(identifier string) string {
	return redisKeyPrefix + identifier
}

func (s *RedisStore) Issue(ctx context.Context, identifier, code string) error {
	now := s.now()
	rec := Record{
		Code:      code,
		ExpiresAt: now.Add(TTL),
		Attempts:  0,
		CreatedAt: now,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode otp record: %w", err)
	}

	if err := s.client.Set(ctx, s.key(identifier), data, 2*TTL).Err(); err != nil {
		return fmt.Errorf("store otp record: %w", err)
	}
	return nil
}

func (s *RedisStore) Verify(ctx context.Context, identifier, code string) (VerifyResult, error) {
	key := s.key(identifier)

	var result VerifyResult
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				result = VerifyResult{Status: StatusNotFound}
				return nil
			}
			if err != nil {
				return fmt.Errorf("load otp record: %w", err)
			}

			var rec Record
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("decode otp record: %w", err)
			}

			now := s.now()
			if now.After(rec.ExpiresAt) {
				result = VerifyResult{Status: StatusExpired}
				return s.txDelete(ctx, tx, key)
			}

			if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
				rec.Attempts++
				if rec.Attempts >= MaxAttempts {
					result = VerifyResult{Status: StatusExhausted}
					return s.txDelete(ctx, tx, key)
				}

				updated, err := json.Marshal(rec)
				if err != nil {
					return fmt.Errorf("encode otp record: %w", err)
				}
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Set(ctx, key, updated, 2*rec.ExpiresAt.Sub(now))
					return nil
				})
				if err != nil {
					return err
				}
				result = VerifyResult{Status: StatusMismatch, Remaining: MaxAttempts - rec.Attempts}
				return nil
			}

			result = VerifyResult{Status: StatusOK}
			return s.txDelete(ctx, tx, key)
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue // another verify won the race, re-read and retry
		}
		if err != nil {
			return VerifyResult{}, err
		}
		return result, nil
	}

	return VerifyResult{}, errors.New("verify otp: too many concurrent updates")
}

// Sweep is a no-op for Redis: key TTLs reclaim expired records.
func (s *RedisStore) Sweep(_ context.Context) (int, error) {
	return 0, nil
}

func (s *RedisStore) Size(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scan otp keys: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (s *RedisStore) txDelete(ctx context.Context, tx *redis.Tx, key string) error {
	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		return nil
	})
	return err
}
