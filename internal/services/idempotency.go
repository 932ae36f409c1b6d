package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/repo"
)

// IdempotencyService remembers which resource a keyed create request
// produced so that retries can be answered with the original.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyService returns a service keeping records for ttl (24h when
// ttl is not positive).
func NewIdempotencyService(db *gorm.DB, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyService{DB: db, TTL: ttl}
}

// Lookup reports the resource recorded for (scope, key), if still live.
// Its signature matches middleware.IdempotencyLookup.
func (s *IdempotencyService) Lookup(ctx context.Context, scope, key string, now time.Time) (uint, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.ResourceID, true, nil
}

// Remember records resourceID for (scope, key). A concurrent request that
// recorded the same key first wins; that is not an error.
func (s *IdempotencyService) Remember(ctx context.Context, scope, key string, resourceID uint, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.DB, scope, key, resourceID, status, s.TTL)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// Purge deletes expired records and returns how many were removed.
func (s *IdempotencyService) Purge(ctx context.Context, now time.Time) (int64, error) {
	return repo.PurgeExpiredIdempotency(ctx, s.DB, now)
}
