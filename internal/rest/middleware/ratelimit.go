package middleware

import (
	"sync"
	"time"

	"github.com/flexprice/gstbill/internal/config"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// loginBurst is how many attempts a client may make back to back
const loginBurst = 5

// LoginRateLimiter keeps a token bucket per client IP. Buckets idle for longer
// than idleTTL are dropped on the next request.
type LoginRateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	clients map[string]*client
	lastGC  time.Time
	now     func() time.Time
	logger  *logger.Logger
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLoginRateLimiter(cfg *config.Configuration, logger *logger.Logger) *LoginRateLimiter {
	perMinute := max(cfg.Auth.LoginRatePerMinute, 1)
	return &LoginRateLimiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   min(loginBurst, perMinute),
		idleTTL: 10 * time.Minute,
		clients: make(map[string]*client),
		now:     time.Now,
		logger:  logger,
	}
}

func (l *LoginRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastGC) > l.idleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastGC = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *LoginRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.allow(ip) {
			l.logger.Warnw("login rate limit hit", "ip", ip, "path", c.FullPath())
			abort(c, ierr.NewError("login rate limit exceeded").
				WithHint("Too many login attempts, please try again later").
				Mark(ierr.ErrRateLimited))
			return
		}
		c.Next()
	}
}
