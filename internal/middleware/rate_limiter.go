package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/iskanderbentaleb/partenairex10/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipWindow counts requests from one IP inside its current window.
type ipWindow struct {
	mu    sync.Mutex
	count int
	until time.Time
}

// ipTracker owns the per-IP windows for one limiter. Login attempts
// and general API traffic are tracked separately so a noisy dashboard
// session cannot eat the much smaller login budget.
type ipTracker struct {
	mu      sync.Mutex
	windows map[string]*ipWindow
}

func newIPTracker() *ipTracker {
	return &ipTracker{windows: make(map[string]*ipWindow)}
}

// take counts one request and reports whether it fits the budget,
// along with when the current window closes.
func (t *ipTracker) take(ip string, limit int, window time.Duration) (bool, time.Time) {
	t.mu.Lock()
	w, ok := t.windows[ip]
	if !ok {
		w = &ipWindow{}
		t.windows[ip] = w
	}
	t.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.After(w.until) {
		w.count = 0
		w.until = now.Add(window)
	}
	w.count++
	return w.count <= limit, w.until
}

// purge drops windows that already closed and returns how many went.
func (t *ipTracker) purge(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	purged := 0
	for ip, w := range t.windows {
		w.mu.Lock()
		if now.After(w.until) {
			delete(t.windows, ip)
			purged++
		}
		w.mu.Unlock()
	}
	return purged
}

var (
	loginAttempts = newIPTracker()
	apiRequests   = newIPTracker()
)

// LoginRateLimiter caps login attempts at 20 per minute per IP to slow
// down credential stuffing.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := loginAttempts.take(c.ClientIP(), 20, time.Minute)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many login attempts. Try again in a minute."))
			return
		}
		c.Next()
	}
}

// RateLimiter caps all API traffic at limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, until := apiRequests.take(c.ClientIP(), limit, window)
		if !ok {
			c.Header("Retry-After", until.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests. Try again shortly."))
			return
		}
		c.Next()
	}
}

// IPs that never come back would otherwise pin their windows in memory
// forever, so a background loop sweeps closed windows out.
const purgeInterval = 5 * time.Minute

func init() {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()
			login := loginAttempts.purge(now)
			api := apiRequests.purge(now)
			if login > 0 || api > 0 {
				log.Debug().
					Int("login", login).
					Int("api", api).
					Msg("expired rate limit windows purged")
			}
		}
	}()
}
