package workload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"ourtree/internal/audit"
	"ourtree/internal/metrics"
	"ourtree/internal/rbtree"
)

// ctxCheckInterval is how many operations run between context checks
const ctxCheckInterval = 1024

// Result of one runner
type Result struct {
	Worker     string
	Ops        int
	Inserted   int
	Duplicates int
	Deleted    int
	Missed     int
	Audits     int
	Duration   time.Duration
	Stats      rbtree.Stats
	Report     audit.Report
}

func (r Result) String() string {
	opsPerSec := 0.0
	if r.Duration > 0 {
		opsPerSec = float64(r.Ops) / r.Duration.Seconds()
	}
	return fmt.Sprintf("%s: %s ops in %v (%s ops/s), inserted %s, duplicates %s, deleted %s, missed %s, "+
		"rotations %s, recolors %s, audits %d, size %s, height %d, black height %d",
		r.Worker,
		humanize.Comma(int64(r.Ops)), r.Duration.Round(time.Millisecond), humanize.Commaf(float64(int64(opsPerSec))),
		humanize.Comma(int64(r.Inserted)), humanize.Comma(int64(r.Duplicates)),
		humanize.Comma(int64(r.Deleted)), humanize.Comma(int64(r.Missed)),
		humanize.Comma(int64(r.Stats.Rotations)), humanize.Comma(int64(r.Stats.Recolors)),
		r.Audits, humanize.Comma(int64(r.Report.Size)), r.Report.Height, r.Report.BlackHeight,
	)
}

// Runner applies operations to a single tree, it must not be shared between goroutines
type Runner struct {
	name       string
	tree       *rbtree.Tree
	auditEvery int
	metrics    *metrics.Metrics
	sugar      *zap.SugaredLogger
}

type RunnerOption func(*Runner)

func WithName(name string) RunnerOption {
	return func(r *Runner) {
		r.name = name
	}
}

// WithAuditEvery audits the tree every n operations, 0 audits only at the end
func WithAuditEvery(n int) RunnerOption {
	return func(r *Runner) {
		r.auditEvery = n
	}
}

func WithMetrics(m *metrics.Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.sugar = logger.Sugar()
	}
}

func NewRunner(tree *rbtree.Tree, opts ...RunnerOption) *Runner {
	r := &Runner{
		name:  "worker",
		tree:  tree,
		sugar: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sugar = r.sugar.With("worker", r.name)
	return r
}

// Run applies ops in order. It stops at the first failed audit or when ctx
// is done, the result then covers the operations applied so far.
func (r *Runner) Run(ctx context.Context, ops []Op) (res Result, err error) {
	res.Worker = r.name
	start := time.Now()
	prev := r.tree.Stats()
	defer func() {
		res.Duration = time.Since(start)
		res.Stats = r.tree.Stats()
	}()

	r.sugar.Infow("run started", "ops", len(ops), "audit_every", r.auditEvery)
	for i, op := range ops {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				r.sugar.Warnw("run interrupted", "applied", i, "err", err)
				return res, err
			}
		}

		r.apply(op, &res)

		if r.auditEvery > 0 && (i+1)%r.auditEvery == 0 {
			if err := r.audit(&res); err != nil {
				r.sugar.Errorw("audit failed", "op", op.String(), "index", i, "err", err)
				return res, fmt.Errorf("%s: after op %d (%s): %w", r.name, i, op, err)
			}
			prev = r.observe(prev)
		}
	}

	if err := r.audit(&res); err != nil {
		r.sugar.Errorw("final audit failed", "err", err)
		return res, fmt.Errorf("%s: final audit: %w", r.name, err)
	}
	r.observe(prev)
	res.Report = audit.Inspect(r.tree)

	r.sugar.Infow("run finished",
		"size", res.Report.Size,
		"height", res.Report.Height,
		"black_height", res.Report.BlackHeight,
		"rotations", r.tree.Stats().Rotations,
	)
	return res, nil
}

func (r *Runner) apply(op Op, res *Result) {
	res.Ops++
	result := "ok"
	switch op.Kind {
	case Insert:
		if err := r.tree.Insert(op.Key); errors.Is(err, rbtree.ErrDuplicateKey) {
			res.Duplicates++
			result = "duplicate"
		} else {
			res.Inserted++
		}
	case Delete:
		if r.tree.Delete(op.Key) {
			res.Deleted++
		} else {
			res.Missed++
			result = "missed"
		}
	}

	if r.metrics != nil {
		r.metrics.Ops.WithLabelValues(r.name, op.Kind.String(), result).Inc()
	}
}

func (r *Runner) audit(res *Result) error {
	res.Audits++
	err := audit.Validate(r.tree.Root())
	if r.metrics != nil {
		result := "ok"
		if err != nil {
			result = "failed"
		}
		r.metrics.Audits.WithLabelValues(r.name, result).Inc()
	}
	return err
}

func (r *Runner) observe(prev rbtree.Stats) rbtree.Stats {
	cur := r.tree.Stats()
	if r.metrics != nil {
		r.metrics.ObserveTree(r.name, prev, cur, r.tree.Size(), r.tree.Height())
	}
	return cur
}
