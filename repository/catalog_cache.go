package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"purchase-service/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	subjectCachePrefix = "subject:detail:"
	subjectCacheTTL    = 5 * time.Minute
)

// cachedCatalogRepo fronts a CatalogRepository with a Redis cache. Cache
// failures degrade to the underlying lookup; they never fail a request.
type cachedCatalogRepo struct {
	inner  CatalogRepository
	redis  *redis.Client
	logger *zap.Logger
}

func NewCachedCatalogRepo(inner CatalogRepository, rdb *redis.Client, logger *zap.Logger) CatalogRepository {
	return &cachedCatalogRepo{inner: inner, redis: rdb, logger: logger}
}

func (r *cachedCatalogRepo) GetSubject(ctx context.Context, subjectID uuid.UUID) (*models.Subject, error) {
	key := subjectCachePrefix + subjectID.String()

	cached, err := r.redis.Get(ctx, key).Result()
	if err == nil {
		var subject models.Subject
		if jsonErr := json.Unmarshal([]byte(cached), &subject); jsonErr == nil {
			return &subject, nil
		}
		r.logger.Warn("Failed to unmarshal cached subject", zap.String("subject_id", subjectID.String()))
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("Redis lookup failed, falling back to DB", zap.Error(err))
	}

	subject, err := r.inner.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	r.setAsync(key, subject)
	return subject, nil
}

func (r *cachedCatalogRepo) setAsync(key string, subject *models.Subject) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(subject)
		if err != nil {
			return
		}
		if err := r.redis.Set(ctx, key, data, subjectCacheTTL).Err(); err != nil {
			r.logger.Warn("Failed to cache subject", zap.Error(err))
		}
	}()
}
