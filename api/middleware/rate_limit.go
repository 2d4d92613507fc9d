package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstockhq/labstock-backend/api/responses"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
	"github.com/labstockhq/labstock-backend/pkg/ratelimit"
)

// UserLimiter admits or rejects one hit for the given key.
type UserLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter adapts the in-process sliding window to the middleware
// surface.
type MemoryLimiter struct {
	Window *ratelimit.SlidingWindow
}

func (m MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if m.Window == nil {
		return true, nil
	}
	return m.Window.Allow(key).Allowed, nil
}

type incrStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// RedisLimiter applies a fixed-window counter shared across instances.
type RedisLimiter struct {
	Store  incrStore
	Limit  int64
	Window time.Duration
}

func (r RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.Store == nil || r.Limit <= 0 {
		return true, nil
	}
	count, err := r.Store.IncrWithTTL(ctx, r.Store.RateLimitKey(key), r.Window)
	if err != nil {
		return false, err
	}
	return count <= r.Limit, nil
}

// UserRateLimit throttles authenticated traffic per acting user. The check
// runs before the handler, so a rejected request has no side effects.
func UserRateLimit(scope string, limiter UserLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := UserIDFromContext(ctx)
			if userID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			allowed, err := limiter.Allow(ctx, scope+":"+userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{"scope": scope, "user_id": userID})
					logg.Warn(logCtx, "rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
