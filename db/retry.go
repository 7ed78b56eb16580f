package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"tourbook/metrics"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// transientMarkers identify store failures worth retrying. Anything else
// (wrong type, missing key, aborted update) is terminal and propagates
// untouched.
var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"network is unreachable",
	"no route to host",
	"EOF",
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// RetryingStore decorates a Store with retry of transient failures: up to
// retryAttempts tries, linear backoff (base * attempt number). Terminal
// failures and exhausted retries propagate immediately.
type RetryingStore struct {
	inner Store
}

func NewRetryingStore(inner Store) RetryingStore {
	return RetryingStore{inner: inner}
}

func (s RetryingStore) do(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt >= retryAttempts {
			break
		}

		metrics.StoreRetries.WithLabelValues(op).Inc()
		log.FromContext(ctx).
			WithError(err).
			WithField("operation", op).
			WithField("attempt", attempt).
			Warn("transient store failure, retrying")

		select {
		case <-time.After(retryBaseDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	log.FromContext(ctx).
		WithError(err).
		WithField("operation", op).
		WithField("attempts", retryAttempts).
		Error("store retries exhausted")
	return fmt.Errorf("%s: retries exhausted: %w", op, err)
}

func (s RetryingStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.do(ctx, "get", func() (err error) {
		v, err = s.inner.Get(ctx, key)
		return err
	})
	return v, err
}

func (s RetryingStore) MGet(ctx context.Context, keys ...string) ([]string, error) {
	var vs []string
	err := s.do(ctx, "mget", func() (err error) {
		vs, err = s.inner.MGet(ctx, keys...)
		return err
	})
	return vs, err
}

func (s RetryingStore) Set(ctx context.Context, key, value string) error {
	return s.do(ctx, "set", func() error {
		return s.inner.Set(ctx, key, value)
	})
}

func (s RetryingStore) SetNX(ctx context.Context, key, value string) (bool, error) {
	var ok bool
	err := s.do(ctx, "setnx", func() (err error) {
		ok, err = s.inner.SetNX(ctx, key, value)
		return err
	})
	return ok, err
}

func (s RetryingStore) Del(ctx context.Context, keys ...string) error {
	return s.do(ctx, "del", func() error {
		return s.inner.Del(ctx, keys...)
	})
}

func (s RetryingStore) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	var n int64
	err := s.do(ctx, "incrby", func() (err error) {
		n, err = s.inner.IncrBy(ctx, key, delta)
		return err
	})
	return n, err
}

func (s RetryingStore) RPush(ctx context.Context, key, value string) error {
	return s.do(ctx, "rpush", func() error {
		return s.inner.RPush(ctx, key, value)
	})
}

func (s RetryingStore) LSet(ctx context.Context, key string, index int64, value string) error {
	return s.do(ctx, "lset", func() error {
		return s.inner.LSet(ctx, key, index, value)
	})
}

func (s RetryingStore) LLen(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.do(ctx, "llen", func() (err error) {
		n, err = s.inner.LLen(ctx, key)
		return err
	})
	return n, err
}

func (s RetryingStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	var vs []string
	err := s.do(ctx, "lrange", func() (err error) {
		vs, err = s.inner.LRange(ctx, key, start, stop)
		return err
	})
	return vs, err
}

func (s RetryingStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	err := s.do(ctx, "keys", func() (err error) {
		keys, err = s.inner.Keys(ctx, pattern)
		return err
	})
	return keys, err
}

func (s RetryingStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.do(ctx, "update", func() error {
		return s.inner.Update(ctx, key, fn)
	})
}
