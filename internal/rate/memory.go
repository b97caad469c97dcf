package rate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter: mismo fixed-window que RedisLimiter pero en proceso.
// El contador de cada ventana vive en un go-cache con expiración igual
// a la ventana, así las entradas viejas se purgan solas.
type MemoryLimiter struct {
	Prefix string
	Max    int64
	Window time.Duration

	mu sync.Mutex
	c  *gocache.Cache
}

func NewMemoryLimiter(prefix string, max int, window time.Duration) *MemoryLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &MemoryLimiter{
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
		c:      gocache.New(window, 2*window),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	k := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	// go-cache no tiene INCR atómico con TTL, el mutex cubre el gap
	l.mu.Lock()
	var hits int64 = 1
	if v, ok := l.c.Get(k); ok {
		hits = v.(int64) + 1
	}
	l.c.Set(k, hits, l.Window)
	l.mu.Unlock()

	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   l.Window - now.Sub(winStart),
	}
	if !allowed {
		res.RetryAfter = l.Window - now.Sub(winStart)
		if res.RetryAfter < 0 {
			res.RetryAfter = time.Duration(math.Ceil(l.Window.Seconds())) * time.Second
		}
	}
	return res, nil
}
