package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClassLimiter enforces a minimum inter-call delay per external resource
// class ("jobsearch", "geocode", ...). All callers hitting the same class
// share one limiter, so concurrent fetches still space out. Burst 1 keeps
// this a fixed-delay limiter rather than a token bucket.
type ClassLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	d  map[string]time.Duration
}

func NewClassLimiter() *ClassLimiter {
	return &ClassLimiter{
		m: make(map[string]*rate.Limiter),
		d: make(map[string]time.Duration),
	}
}

// SetDelay registers the minimum spacing for a class. Calling it again for
// the same class replaces the limiter.
func (cl *ClassLimiter) SetDelay(class string, minDelay time.Duration) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.d[class] = minDelay
	cl.m[class] = rate.NewLimiter(rate.Every(minDelay), 1)
}

func (cl *ClassLimiter) limiterFor(class string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if lim, ok := cl.m[class]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(time.Second), 1)
	cl.m[class] = lim
	return lim
}

// Wait blocks until the class's spacing allows another call, or ctx ends.
func (cl *ClassLimiter) Wait(ctx context.Context, class string) error {
	return cl.limiterFor(class).Wait(ctx)
}
