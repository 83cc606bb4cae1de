package data

import (
	"context"

	"linkstats/internal/biz"
)

var _ biz.URLRepo = (*CachedURLRepository)(nil)

// CachedURLRepository wraps the SQL store with cache-aside lookups.
// Records never change after insert, so entries are never invalidated.
type CachedURLRepository struct {
	repo  *urlRepo
	cache URLCache
}

// NewCachedURLRepository creates a new cached repository wrapper.
func NewCachedURLRepository(repo *urlRepo, cache URLCache) *CachedURLRepository {
	return &CachedURLRepository{
		repo:  repo,
		cache: cache,
	}
}

// Create persists a URL and warms the cache.
func (r *CachedURLRepository) Create(ctx context.Context, u *biz.ShortURL) error {
	if err := r.repo.Create(ctx, u); err != nil {
		return err
	}

	_ = r.cache.Set(ctx, u)
	return nil
}

// GetByCode retrieves a URL, checking cache first.
func (r *CachedURLRepository) GetByCode(ctx context.Context, code string) (*biz.ShortURL, error) {
	if cached, err := r.cache.Get(ctx, code); err == nil && cached != nil {
		return cached, nil
	}

	u, err := r.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, u)
	return u, nil
}

// Exists always asks the database so that code checks stay exact.
func (r *CachedURLRepository) Exists(ctx context.Context, code string) (bool, error) {
	return r.repo.Exists(ctx, code)
}
