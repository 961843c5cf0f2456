package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/astrahq/auth-service/internal/constants"
	"github.com/astrahq/auth-service/internal/dto"
	"github.com/astrahq/auth-service/pkg/logger"
	"github.com/astrahq/auth-service/pkg/redis"
)

// CacheService keeps public user representations in Redis so the
// current-user endpoint doesn't hit the database on every request. Entries
// are invalidated whenever the underlying user row changes.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, ttl time.Duration) *CacheService {
	return &CacheService{client: client, ttl: ttl}
}

func userCacheKey(id uint) string {
	return constants.CacheKeyUser + strconv.FormatUint(uint64(id), 10)
}

// GetUser returns the cached representation, or false on miss.
func (s *CacheService) GetUser(ctx context.Context, id uint) (*dto.UserResponse, bool) {
	data, err := s.client.Get(ctx, userCacheKey(id))
	if err != nil {
		return nil, false
	}

	var user dto.UserResponse
	if err := json.Unmarshal(data, &user); err != nil {
		logger.WarnWithContext(ctx, "Dropping corrupt user cache entry").
			Uint("user_id", id).
			Err(err).
			Log()
		_ = s.client.Delete(ctx, userCacheKey(id))
		return nil, false
	}

	return &user, true
}

// SetUser stores a representation. Cache errors are non-fatal.
func (s *CacheService) SetUser(ctx context.Context, user *dto.UserResponse) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = s.client.Set(ctx, userCacheKey(user.ID), data, s.ttl)
}

// InvalidateUser drops the cached representation after a mutation.
func (s *CacheService) InvalidateUser(ctx context.Context, id uint) {
	_ = s.client.Delete(ctx, userCacheKey(id))
}
