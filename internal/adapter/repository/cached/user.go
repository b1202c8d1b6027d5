package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-directory-service/internal/adapter/cache"
	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with read-through caching
// on FindByID. Writes go straight to the persistent repository and
// invalidate the cache entry afterwards, so the uniqueness checks the
// orchestrator performs always see the durable store.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// FindByID retrieves a user by ID using the cache-aside pattern.
func (r *CachedUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we
		// were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		u, err := r.dbRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Absence is not cached; only store hits.
		if u != nil && r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	return result.(*domain.User), nil
}

// FindByEmail delegates to the persistent repository. Uniqueness decisions
// must never be made against stale cache data.
func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.FindByEmail(ctx, email)
}

// FindAll delegates to the persistent repository.
func (r *CachedUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.FindAll(ctx)
}

// ExistsByID delegates to the persistent repository. The post-delete
// verification in the orchestrator relies on this reading the durable
// store, not the cache.
func (r *CachedUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.dbRepo.ExistsByID(ctx, id)
}

// Save writes to the persistent repository and invalidates the cache entry
// for replaced records.
func (r *CachedUserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	saved, err := r.dbRepo.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	if r.cache != nil && u.ID != 0 {
		if err := r.cache.Delete(ctx, u.ID); err != nil {
			r.log.Warn("failed to invalidate cache after save", zap.Int64("id", u.ID), zap.Error(err))
		}
	}

	return saved, nil
}

// DeleteByID deletes from the persistent repository and invalidates the
// cache entry.
func (r *CachedUserRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.dbRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after delete", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}
