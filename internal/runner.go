package internal

import (
	"context"
	"runtime"
	"time"

	"github.com/rpaiva/takeout-merge/internal/batch"
	"github.com/rpaiva/takeout-merge/internal/exif"

	"go.uber.org/zap"
)

type Runner struct {
	logger   *zap.Logger
	exiftool string
	root     string
	moveTo   string
	workers  int
	dryRun   bool
}

func NewRunner(logger *zap.Logger, exiftool string, root string, moveTo string, workers int, dryRun bool) *Runner {
	return &Runner{
		logger:   logger,
		exiftool: exiftool,
		root:     root,
		moveTo:   moveTo,
		workers:  workers,
		dryRun:   dryRun,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	defer func() {
		r.logger.Info("Elapsed time", zap.Duration("elapsed", time.Since(start)))
	}()

	if r.dryRun {
		r.logger.Info("Running in DRY-RUN mode: exiftool will not be invoked and sidecars will not be moved")
	}

	numWorkers := r.workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	r.logger.Info("Determined number of workers", zap.Int("num_workers", numWorkers))

	coordinator := &batch.Coordinator{
		Applier:    exif.NewTool(r.exiftool, r.logger),
		NumWorkers: numWorkers,
		DryRun:     r.dryRun,
		MoveTo:     r.moveTo,
		Logger:     r.logger,
	}

	summary, err := coordinator.Run(ctx, r.root)
	if err != nil {
		return err
	}

	r.logger.Info("Batch finished",
		zap.Int("processed", summary.Processed),
		zap.Int("applied", summary.Applied),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))

	for _, failure := range summary.Failures {
		r.logger.Error(failure)
	}

	return nil
}
