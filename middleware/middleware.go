// Package middleware provides observability and caching wrappers for cohort
// KV backends.
package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klejdi94/strata/cohort"
)

// Middleware wraps a KV backend with additional behavior (logging, metrics,
// caching).
type Middleware func(cohort.KV) cohort.KV

// Chain wraps kv with all middlewares in order (first middleware is
// outermost).
func Chain(kv cohort.KV, mws ...Middleware) cohort.KV {
	for i := len(mws) - 1; i >= 0; i-- {
		kv = mws[i](kv)
	}
	return kv
}

// loggingKV logs reads and writes.
type loggingKV struct {
	next cohort.KV
	logf func(format string, args ...interface{})
}

// Logging returns a middleware that logs each Get and Set (key, size,
// error).
func Logging(logf func(format string, args ...interface{})) Middleware {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return func(kv cohort.KV) cohort.KV {
		return &loggingKV{next: kv, logf: logf}
	}
}

func (l *loggingKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := l.next.Get(ctx, key)
	if err != nil {
		l.logf("kv get %s error: %v", key, err)
		return "", false, err
	}
	l.logf("kv get %s ok=%v bytes=%d", key, ok, len(value))
	return value, ok, nil
}

func (l *loggingKV) Set(ctx context.Context, key, value string) error {
	if err := l.next.Set(ctx, key, value); err != nil {
		l.logf("kv set %s error: %v", key, err)
		return err
	}
	l.logf("kv set %s bytes=%d", key, len(value))
	return nil
}

// metricsKV counts reads, writes, and errors.
type metricsKV struct {
	next   cohort.KV
	gets   atomic.Uint64
	sets   atomic.Uint64
	misses atomic.Uint64
	errors atomic.Uint64
}

// Metrics returns a middleware that counts operations. Counters are exposed
// via the returned MetricsCounters.
func Metrics() (Middleware, *MetricsCounters) {
	m := &metricsKV{}
	return func(kv cohort.KV) cohort.KV {
		m.next = kv
		return m
	}, &MetricsCounters{m: m}
}

// MetricsCounters provides read access to collected counters.
type MetricsCounters struct {
	m *metricsKV
}

func (c *MetricsCounters) Gets() uint64   { return c.m.gets.Load() }
func (c *MetricsCounters) Sets() uint64   { return c.m.sets.Load() }
func (c *MetricsCounters) Misses() uint64 { return c.m.misses.Load() }
func (c *MetricsCounters) Errors() uint64 { return c.m.errors.Load() }

func (m *metricsKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.gets.Add(1)
	value, ok, err := m.next.Get(ctx, key)
	if err != nil {
		m.errors.Add(1)
		return "", false, err
	}
	if !ok {
		m.misses.Add(1)
	}
	return value, ok, nil
}

func (m *metricsKV) Set(ctx context.Context, key, value string) error {
	m.sets.Add(1)
	if err := m.next.Set(ctx, key, value); err != nil {
		m.errors.Add(1)
		return err
	}
	return nil
}

// cachingKV keeps recently read values in memory so repeated loads against a
// slow backend (redis, postgres, s3) stay cheap. Writes update the cache.
type cachingKV struct {
	next cohort.KV
	ttl  time.Duration
	mu   sync.RWMutex
	vals map[string]cacheEntry
}

type cacheEntry struct {
	value   string
	expires time.Time
}

// Caching returns a middleware that caches Get results for ttl (default one
// minute). Only safe when this process is the sole writer.
func Caching(ttl time.Duration) Middleware {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return func(kv cohort.KV) cohort.KV {
		return &cachingKV{next: kv, ttl: ttl, vals: make(map[string]cacheEntry)}
	}
}

func (c *cachingKV) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	e, ok := c.vals[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(e.expires) {
		return e.value, true, nil
	}
	value, found, err := c.next.Get(ctx, key)
	if err != nil || !found {
		return value, found, err
	}
	c.mu.Lock()
	c.vals[key] = cacheEntry{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return value, true, nil
}

func (c *cachingKV) Set(ctx context.Context, key, value string) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		return err
	}
	c.mu.Lock()
	c.vals[key] = cacheEntry{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}
