package middleware

import (
	"session-reconciler/pkg/log"
)

// Config holds the middleware settings.
type Config struct {
	RateLimitPerMin int
}

type Middleware struct {
	l       log.Logger
	config  Config
	limiter *rateLimiter
}

func New(l log.Logger, cfg Config) Middleware {
	return Middleware{
		l:       l,
		config:  cfg,
		limiter: newRateLimiter(cfg.RateLimitPerMin),
	}
}
