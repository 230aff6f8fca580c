package media

import (
	"context"
	"fmt"
	"time"
)

const defaultJanitorBatch = 100

// Janitor retries queued deletions whose backoff has elapsed.
type Janitor struct {
	manager  *Manager
	interval time.Duration
	workers  int
	batch    int
}

func NewJanitor(m *Manager, interval time.Duration, workers int) *Janitor {
	return &Janitor{manager: m, interval: interval, workers: workers, batch: defaultJanitorBatch}
}

// Run retries on every tick until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.manager.log.Info("media janitor started", "interval", j.interval, "workers", j.workers)
	for {
		select {
		case <-ctx.Done():
			j.manager.log.Info("media janitor stopped")
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				j.manager.log.Error("media janitor pass failed", "error", err)
			}
		}
	}
}

// RunOnce retries one batch of due deletions and returns how many were
// attempted.
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	m := j.manager
	due, err := m.pending.Due(ctx, m.now(), j.batch)
	if err != nil {
		return 0, fmt.Errorf("load due deletions: %w", err)
	}

	if len(due) > 0 {
		pool := NewWorkerPool(ctx, j.workers, m.log)
		pool.Start()
		for _, row := range due {
			pool.Submit(func(ctx context.Context) error {
				return m.retry(ctx, row)
			})
		}
		pool.Wait()
	}

	if n, err := m.pending.Count(ctx); err == nil {
		m.metrics.SetPendingDeletions(n)
	}
	return len(due), nil
}
