package core

import (
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"
)

type LimitConfig struct {
	Limit int
}

type LimitOption func(*LimitConfig)

// WithLimit sets the allowed requests per minute for one limiter key.
func WithLimit(limit int) LimitOption {
	return func(cfg *LimitConfig) {
		cfg.Limit = limit
	}
}

type Limiter interface {
	Allow() bool
}

var limiters = cmap.New[*rate.Limiter]()

// UseLimiter returns the per-key limiter, creating it on first sight.
func (s *Core) UseLimiter(key string, opts ...LimitOption) Limiter {
	cfg := &LimitConfig{
		Limit: 60,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	l, exist := limiters.Get(key)
	if !exist {
		limit := rate.Every(time.Minute / time.Duration(cfg.Limit))
		l = rate.NewLimiter(limit, cfg.Limit*2)
		limiters.Set(key, l)
	}

	return l
}
