package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"ourtree/internal/audit"
	"ourtree/internal/config"
	"ourtree/internal/metrics"
	"ourtree/internal/rbtree"
	"ourtree/internal/workload"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rbtree-bench",
		Short:         "Exercises the red-black tree and audits its invariants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newCheckCmd())
	return root
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func newRunCmd() *cobra.Command {
	conf := config.NewConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Applies generated insert/delete streams to independent trees in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(conf.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd, conf, logger)
		},
	}
	conf.BindFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, conf *config.Config, logger *zap.Logger) error {
	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))
	sugar := logger.Sugar()
	m := metrics.New()

	if conf.MetricsAddr != "" {
		stopMetrics, err := serveMetrics(conf.MetricsAddr, m, sugar)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	sugar.Infow("run", "workers", conf.Workers, "keys", conf.Keys, "pattern", conf.Pattern, "seed", conf.Seed)
	results := make([]workload.Result, conf.Workers)
	g, ctx := errgroup.WithContext(cmd.Context())
	for i := 0; i < conf.Workers; i++ {
		i := i
		g.Go(func() error {
			gen := workload.Generator{
				Pattern:     workload.Pattern(conf.Pattern),
				Count:       conf.Keys,
				KeySpace:    conf.KeySpace,
				DeleteRatio: conf.DeleteRatio,
				Seed:        conf.Seed + int64(i),
			}
			ops, err := gen.Ops()
			if err != nil {
				return err
			}

			tree := rbtree.New(rbtree.WithLogger(logger))
			runner := workload.NewRunner(tree,
				workload.WithName("w"+strconv.Itoa(i)),
				workload.WithAuditEvery(conf.AuditEvery),
				workload.WithMetrics(m),
				workload.WithLogger(logger),
			)
			results[i], err = runner.Run(ctx, ops)
			return err
		})
	}
	err := g.Wait()

	for _, res := range results {
		if res.Worker != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res)
		}
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	return nil
}

func serveMetrics(addr string, m *metrics.Metrics, sugar *zap.SugaredLogger) (func(), error) {
	listen, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("metrics server", "err", err)
		}
	}()
	sugar.Infow("metrics server started", "addr", listen.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func newCheckCmd() *cobra.Command {
	var deletes []int
	var verbose bool
	cmd := &cobra.Command{
		Use:   "check KEY...",
		Short: "Builds a tree from the keys, deletes --delete keys and prints the audit report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree := rbtree.New()
			for _, arg := range args {
				key, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("key %q: %w", arg, err)
				}
				if err := tree.Insert(key); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}
			for _, key := range deletes {
				if !tree.Delete(key) {
					fmt.Fprintf(cmd.ErrOrStderr(), "delete: key %d not found\n", key)
				}
			}

			if verbose {
				fmt.Fprint(cmd.OutOrStdout(), tree)
			}
			report := audit.Inspect(tree)
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return report.Err
		},
	}
	cmd.Flags().IntSliceVar(&deletes, "delete", nil, "keys to delete after the inserts")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the tree")
	return cmd
}
