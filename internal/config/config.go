package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Keys        int     // operations per worker
	KeySpace    int     // keys are drawn from [0, KeySpace), 0 - same as Keys
	Pattern     string  // ascending, descending, random, duplicates
	DeleteRatio float64 // share of deletes in the stream
	Seed        int64
	Workers     int // independent trees run in parallel
	AuditEvery  int // 0 - audit only at the end
	MetricsAddr string
	LogLevel    string
}

func NewConfig() *Config {
	return &Config{
		Keys:        100_000,
		Pattern:     "random",
		DeleteRatio: 0.3,
		Seed:        1,
		Workers:     1,
		AuditEvery:  1000,
		LogLevel:    "info",
	}
}

// BindFlags registers the config fields on fs, current values are the defaults
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Keys, "keys", c.Keys, "number of operations per worker")
	fs.IntVar(&c.KeySpace, "key-space", c.KeySpace, "keys are drawn from [0, key-space), 0 means --keys")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "key pattern: ascending, descending, random or duplicates")
	fs.Float64Var(&c.DeleteRatio, "delete-ratio", c.DeleteRatio, "share of delete operations, 0 <= ratio < 1")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, worker i uses seed+i")
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of independent trees run in parallel")
	fs.IntVar(&c.AuditEvery, "audit-every", c.AuditEvery, "run the invariant audit every n operations, 0 audits at the end only")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve prometheus metrics on this address, empty disables")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

func (c *Config) Validate() error {
	switch {
	case c.Keys <= 0:
		return fmt.Errorf("%w: keys must be > 0, got %d", ErrInvalidConfig, c.Keys)
	case c.KeySpace < 0:
		return fmt.Errorf("%w: key-space must be >= 0, got %d", ErrInvalidConfig, c.KeySpace)
	case c.DeleteRatio < 0 || c.DeleteRatio >= 1:
		return fmt.Errorf("%w: delete-ratio must be in [0, 1), got %v", ErrInvalidConfig, c.DeleteRatio)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be > 0, got %d", ErrInvalidConfig, c.Workers)
	case c.AuditEvery < 0:
		return fmt.Errorf("%w: audit-every must be >= 0, got %d", ErrInvalidConfig, c.AuditEvery)
	}

	switch c.Pattern {
	case "ascending", "descending", "random", "duplicates":
	default:
		return fmt.Errorf("%w: unknown pattern %q", ErrInvalidConfig, c.Pattern)
	}
	return nil
}
