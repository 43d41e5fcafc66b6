// Package timeouts holds the process-wide deadlines used with
// context.WithTimeout around MongoDB calls in stores and handlers.
//
//   - Ping: health checks
//   - Short: single-document reads and writes
//   - Medium: list queries (the catalog fetch feeding the list engine)
//   - Long: writes that touch several collections, such as deleting a
//     resource together with its comments, favorites and progressions
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// EnvPrefix prefixes the environment variables read by ConfigureFromEnv.
const EnvPrefix = "RESOURCEHUB_TIMEOUT_"

var (
	mu  sync.RWMutex
	cur = defaults()
)

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

func defaults() Config {
	return Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
}

func Ping() time.Duration   { return Current().Ping }
func Short() time.Duration  { return Current().Short }
func Medium() time.Duration { return Current().Medium }
func Long() time.Duration   { return Current().Long }

// Current returns a copy of the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Configure overrides the non-zero fields of cfg. Call it during startup,
// before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, f := range fields(&cur, &cfg) {
		if *f.src > 0 {
			*f.dst = *f.src
		}
	}
}

// Reset restores the defaults. Tests use it to undo Configure.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// ConfigureFromEnv reads RESOURCEHUB_TIMEOUT_PING, _SHORT, _MEDIUM and _LONG
// as Go durations ("2s", "500ms"). Missing, unparsable and non-positive values
// are skipped. It returns how many timeouts were set.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for _, f := range fields(&cfg, &cfg) {
		v := os.Getenv(EnvPrefix + f.name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*f.dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

type field struct {
	name     string
	dst, src *time.Duration
}

func fields(dst, src *Config) []field {
	return []field{
		{"PING", &dst.Ping, &src.Ping},
		{"SHORT", &dst.Short, &src.Short},
		{"MEDIUM", &dst.Medium, &src.Medium},
		{"LONG", &dst.Long, &src.Long},
	}
}

// WithTimeout wraps context.WithTimeout; the returned cancel logs a warning
// when the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete resource")
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
