package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/qualityhub/internal/utils"
)

// QuotaConfig limits how many findings requests a client may send. Each
// findings request costs two upstream calls, so the quota also shields
// the quality instances.
type QuotaConfig struct {
	Burst      int           // requests a client may send back to back
	PerMinute  int           // sustained requests per client per minute
	MaxClients int           // tracked clients before idle ones are evicted (0 = unbounded)
	IdleAfter  time.Duration // a client unseen this long is forgotten (default 15m)
	TrustProxy bool          // attribute requests by proxy headers

	now func() time.Time
}

const quotaEvictEvery = time.Minute

// clientQuota is the token balance of one client.
type clientQuota struct {
	mu       sync.Mutex
	tokens   float64
	refilled time.Time
	seen     time.Time
}

type quotas struct {
	cfg       QuotaConfig
	perSecond float64

	mu      sync.Mutex
	clients map[string]*clientQuota
	evicted time.Time
}

func newQuotas(cfg QuotaConfig, now time.Time) *quotas {
	cfg.Burst = max(cfg.Burst, 1)
	cfg.PerMinute = max(cfg.PerMinute, 1)
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = 15 * time.Minute
	}
	return &quotas{
		cfg:       cfg,
		perSecond: float64(cfg.PerMinute) / 60,
		clients:   make(map[string]*clientQuota),
		evicted:   now,
	}
}

// client returns the balance of key, evicting idle clients when due.
func (q *quotas) client(key string, now time.Time) *clientQuota {
	q.mu.Lock()
	defer q.mu.Unlock()

	full := q.cfg.MaxClients > 0 && len(q.clients) >= q.cfg.MaxClients
	if full || now.Sub(q.evicted) >= quotaEvictEvery {
		q.evictIdleLocked(now)
	}

	c := q.clients[key]
	if c == nil {
		c = &clientQuota{tokens: float64(q.cfg.Burst), refilled: now, seen: now}
		q.clients[key] = c
	}
	return c
}

func (q *quotas) evictIdleLocked(now time.Time) {
	for key, c := range q.clients {
		c.mu.Lock()
		idle := now.Sub(c.seen) > q.cfg.IdleAfter
		c.mu.Unlock()
		if idle {
			delete(q.clients, key)
		}
	}
	q.evicted = now
}

// take spends one token of key. When the balance is empty it reports how
// long the client has to wait for the next token.
func (q *quotas) take(key string, now time.Time) (ok bool, left int, wait time.Duration) {
	c := q.client(key, now)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elapsed := now.Sub(c.refilled).Seconds(); elapsed > 0 {
		c.tokens = math.Min(float64(q.cfg.Burst), c.tokens+elapsed*q.perSecond)
		c.refilled = now
	}
	c.seen = now

	if c.tokens < 1 {
		secs := math.Ceil((1 - c.tokens) * 60 / float64(q.cfg.PerMinute))
		return false, 0, time.Duration(secs) * time.Second
	}
	c.tokens--
	return true, int(c.tokens), 0
}

// Quota answers 429 once a client has spent its findings quota.
// X-RateLimit-* headers are sent with every answer.
func Quota(cfg QuotaConfig) func(http.Handler) http.Handler {
	clock := cfg.now
	if clock == nil {
		clock = time.Now
	}
	q := newQuotas(cfg, clock())
	limit := strconv.Itoa(q.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, left, wait := q.take(utils.ClientIP(r, q.cfg.TrustProxy), clock())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(left))
			if !ok {
				h.Set("Retry-After", strconv.Itoa(int(max(wait, time.Second)/time.Second)))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
