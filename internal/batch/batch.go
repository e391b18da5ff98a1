// Package batch fans sidecar-processing work out over a bounded worker pool
// and aggregates the per-item outcomes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rpaiva/takeout-merge/internal/exif"
	"github.com/rpaiva/takeout-merge/internal/fsx"
	"github.com/rpaiva/takeout-merge/internal/models"
	"github.com/rpaiva/takeout-merge/internal/resolve"
	"github.com/rpaiva/takeout-merge/internal/sidecar"

	"go.uber.org/zap"
)

// Applier writes translated metadata into a media file.
type Applier interface {
	Apply(ctx context.Context, mediaPath string, args []string) error
}

// Coordinator processes every sidecar under a root. Each sidecar is one
// independent unit of work; a failure in one never stops the others.
type Coordinator struct {
	Applier    Applier
	NumWorkers int
	DryRun     bool
	MoveTo     string
	Logger     *zap.Logger
}

// Summary aggregates the outcomes of one run. Failures keeps the per-item
// messages in completion order.
type Summary struct {
	Processed int
	Applied   int
	Skipped   int
	Failed    int
	Failures  []string
}

// Run enumerates the sidecars under root, dispatches them across the worker
// pool and drains completions, logging progress whenever the integer
// percentage advances. Completion order is arbitrary; the single draining
// loop is the only place that touches the counters, so reported percentages
// never go backwards.
func (c *Coordinator) Run(ctx context.Context, root string) (Summary, error) {
	paths, err := sidecar.Discover(root, c.Logger)
	if err != nil {
		return Summary{}, err
	}

	total := len(paths)
	c.Logger.Info("Discovered sidecar files", zap.Int("total", total))
	if total == 0 {
		return Summary{}, nil
	}

	tasks := make(chan string)
	go func() {
		defer close(tasks)
		for _, p := range paths {
			select {
			case tasks <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	workers := make([]<-chan models.Outcome, c.NumWorkers)
	for i := 0; i < c.NumWorkers; i++ {
		workers[i] = c.worker(ctx, i, root, tasks)
	}

	var summary Summary
	lastPct := -1
	for out := range merge(ctx, workers...) {
		summary.Processed++

		switch out.Status {
		case models.StatusApplied:
			summary.Applied++
		case models.StatusSkipped:
			summary.Skipped++
		case models.StatusFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, fmt.Sprintf("%v: %v", out.SidecarPath, out.Reason))
		}

		if pct := summary.Processed * 100 / total; pct > lastPct {
			lastPct = pct
			c.Logger.Info("Progress",
				zap.Int("percent", pct),
				zap.Int("processed", summary.Processed),
				zap.Int("total", total))
		}
	}

	return summary, nil
}

func (c *Coordinator) worker(ctx context.Context, id int, root string, tasks <-chan string) <-chan models.Outcome {
	outcomes := make(chan models.Outcome)
	log := c.Logger.With(zap.Int("worker_id", id))

	go func() {
		defer close(outcomes)

		for path := range tasks {
			out := c.process(ctx, log, root, path)
			select {
			case outcomes <- out:
			case <-ctx.Done():
				return
			}
		}
	}()

	return outcomes
}

// process runs one sidecar end to end. Panics are converted into Failed
// outcomes at this boundary so a broken task can never take down the batch.
func (c *Coordinator) process(ctx context.Context, log *zap.Logger, root, path string) (out models.Outcome) {
	out = models.Outcome{SidecarPath: path}
	defer func() {
		if r := recover(); r != nil {
			out.Status = models.StatusFailed
			out.Reason = fmt.Sprintf("panic: %v", r)
		}
	}()

	meta, err := sidecar.Parse(path)
	if err != nil {
		out.Status = models.StatusFailed
		out.Reason = err.Error()
		return out
	}

	mediaPath, err := resolve.Media(filepath.Dir(path), meta.Title)
	if errors.Is(err, resolve.ErrSkip) {
		log.Debug("Skipping album-level sidecar", zap.String("sidecar", path))
		out.Status = models.StatusSkipped
		out.Reason = err.Error()
		return out
	}
	if err != nil {
		out.Status = models.StatusFailed
		out.Reason = err.Error()
		return out
	}

	args := exif.Args(meta)

	if c.DryRun {
		log.Info("Would have applied metadata",
			zap.String("media", mediaPath),
			zap.Strings("args", args))
		out.Status = models.StatusApplied
		return out
	}

	if err := c.Applier.Apply(ctx, mediaPath, args); err != nil {
		out.Status = models.StatusFailed
		out.Reason = err.Error()
		return out
	}

	// The sidecar leaves the tree only once its edit is in the media file.
	if c.MoveTo != "" {
		if err := fsx.Relocate(root, c.MoveTo, path); err != nil {
			out.Status = models.StatusFailed
			out.Reason = fmt.Sprintf("metadata applied but sidecar not moved: %v", err)
			return out
		}
	}

	out.Status = models.StatusApplied
	return out
}
