package viewer

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps viewer sets as Redis sets under viewer:<contextID>:<key>.
// Every write refreshes the TTL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore builds a store on a new client for addr.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), ttl)
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(contextID, key string) string { return "viewer:" + contextID + ":" + key }

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) Get(ctx context.Context, contextID, key string) ([]string, bool, error) {
	if err := checkID(contextID); err != nil {
		return nil, false, err
	}
	vals, err := s.client.SMembers(ctx, redisKey(contextID, key)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(vals) == 0 {
		return nil, false, nil
	}
	return vals, true, nil
}

func (s *RedisStore) Set(ctx context.Context, contextID, key string, values []string) error {
	if err := checkID(contextID); err != nil {
		return err
	}
	k := redisKey(contextID, key)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		if len(values) == 0 {
			return nil
		}
		members := make([]any, len(values))
		for i, v := range values {
			members[i] = v
		}
		p.SAdd(ctx, k, members...)
		if s.ttl > 0 {
			p.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Add(ctx context.Context, contextID, key, value string) (bool, error) {
	if err := checkID(contextID); err != nil {
		return false, err
	}
	k := redisKey(contextID, key)
	var added *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		added = p.SAdd(ctx, k, value)
		if s.ttl > 0 {
			p.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return added.Val() == 1, nil
}

func (s *RedisStore) Remove(ctx context.Context, contextID, key, value string) error {
	if err := checkID(contextID); err != nil {
		return err
	}
	return s.client.SRem(ctx, redisKey(contextID, key), value).Err()
}
