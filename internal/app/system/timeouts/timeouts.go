// Package timeouts holds the context deadlines used around store calls.
//
//   - Ping: health checks
//   - Short: single-document reads and writes (login, get worker, toggle participation)
//   - Medium: list queries and edits touching a few documents
//   - Batch: personnel imports
//
// Values start at the defaults below and are replaced once at startup by Configure.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultBatch  = 120 * time.Second
)

// Config holds one value per class. Zero fields mean "keep the current value"
// when passed to Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Batch  time.Duration
}

var defaults = Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Batch: DefaultBatch}

var (
	mu      sync.RWMutex
	current = defaults
)

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Ping() time.Duration   { return Current().Ping }
func Short() time.Duration  { return Current().Short }
func Medium() time.Duration { return Current().Medium }
func Batch() time.Duration  { return Current().Batch }

// Configure applies non-zero overrides.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	current = merge(current, cfg)
}

func merge(base, over Config) Config {
	pick := func(b, o time.Duration) time.Duration {
		if o > 0 {
			return o
		}
		return b
	}
	return Config{
		Ping:   pick(base.Ping, over.Ping),
		Short:  pick(base.Short, over.Short),
		Medium: pick(base.Medium, over.Medium),
		Batch:  pick(base.Batch, over.Batch),
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	current = defaults
	mu.Unlock()
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when the
// deadline was hit, naming the operation.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "personnel import")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
