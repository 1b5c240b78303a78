package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/juju/ratelimit"
	"github.com/sirupsen/logrus"

	"github.com/houseofcharity/charity-be/internal/http/respond"
)

// RateLimiter hands out one token bucket per client IP. Buckets left idle long
// enough to refill completely are dropped, since a fresh bucket is equivalent.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	interval  time.Duration
	burst     int64
	idleAfter time.Duration
	lastSweep time.Time
	now       func() time.Time
	log       *logrus.Entry
}

type clientBucket struct {
	*ratelimit.Bucket
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per client with bursts up to burst.
func NewRateLimiter(perMinute, burst int, log *logrus.Entry) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	interval := time.Minute / time.Duration(perMinute)
	return &RateLimiter{
		buckets:   make(map[string]*clientBucket),
		interval:  interval,
		burst:     int64(burst),
		idleAfter: interval * time.Duration(burst),
		lastSweep: time.Now(),
		now:       time.Now,
		log:       log,
	}
}

func (l *RateLimiter) bucket(key string) *ratelimit.Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleAfter {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &clientBucket{Bucket: ratelimit.NewBucket(l.interval, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.Bucket
}

// sweep drops buckets not used for idleAfter. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idleAfter {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// Wrap rejects requests with 429 once the client's bucket is empty.
func (l *RateLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if l.bucket(key).TakeAvailable(1) == 0 {
			l.log.WithFields(logrus.Fields{"client": key, "path": r.URL.Path}).Warn("rate limit exceeded")
			respond.Error(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
