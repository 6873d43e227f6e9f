package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
)

const defaultInterval = 24 * time.Hour

// Job is one housekeeping task.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type RunnerParams struct {
	Logger   *logger.Logger
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Interval time.Duration
	Jobs     []Job
}

// Runner executes its jobs once per interval. A cycle is skipped when another
// instance holds the lock.
type Runner struct {
	logg     *logger.Logger
	lock     Lock
	metrics  *metrics.JobMetrics
	interval time.Duration
	jobs     []Job
}

func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Lock == nil {
		return nil, errors.New("lock required")
	}
	jobs := make([]Job, 0, len(params.Jobs))
	for _, job := range params.Jobs {
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{
		logg:     params.Logger,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
		jobs:     jobs,
	}, nil
}

// Run runs a cycle immediately and then on every tick until ctx ends.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if _, err := r.RunOnce(ctx); err != nil {
			r.logg.Error(ctx, "maintenance cycle failed", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes every job under the lock. It reports false when the lock was held
// elsewhere. Job failures are logged and counted but do not stop later jobs.
func (r *Runner) RunOnce(ctx context.Context) (bool, error) {
	ok, err := r.lock.Acquire(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		r.logg.Info(ctx, "maintenance lock held elsewhere, skipping cycle")
		return false, nil
	}
	defer func() {
		if err := r.lock.Release(context.WithoutCancel(ctx)); err != nil {
			r.logg.Error(ctx, "failed to release maintenance lock", err)
		}
	}()

	for _, job := range r.jobs {
		jobCtx := r.logg.WithField(ctx, "job", job.Name())
		started := time.Now()
		err := job.Run(jobCtx)
		elapsed := time.Since(started)
		r.metrics.Observe(job.Name(), elapsed, err)

		jobCtx = r.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
		if err != nil {
			r.logg.Error(jobCtx, "maintenance job failed", err)
			continue
		}
		r.logg.Info(jobCtx, "maintenance job completed")
	}
	return true, nil
}
