package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ReconcileWorkerConfig holds settings for the periodic reconciliation sweep.
type ReconcileWorkerConfig struct {
	// Interval between sweeps. Zero or negative disables the worker.
	Interval time.Duration
	// SweepTimeout bounds a single sweep.
	SweepTimeout time.Duration
}

// ReconcileWorker runs ReconciliationService.Sweep on a fixed interval.
type ReconcileWorker struct {
	reconciler ReconciliationService
	cfg        ReconcileWorkerConfig
	wg         sync.WaitGroup
	running    sync.Mutex
}

// NewReconcileWorker creates a new ReconcileWorker.
func NewReconcileWorker(reconciler ReconciliationService, cfg ReconcileWorkerConfig) *ReconcileWorker {
	return &ReconcileWorker{reconciler: reconciler, cfg: cfg}
}

// Start runs the sweep loop until ctx is canceled. It blocks until an
// in-flight sweep has finished. A sweep still running when the next tick
// fires is not overlapped; the tick is skipped.
func (w *ReconcileWorker) Start(ctx context.Context) {
	if w.cfg.Interval <= 0 {
		slog.Info("reconcileWorker: disabled")
		return
	}
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	slog.Info("reconcileWorker: started", "interval", w.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("reconcileWorker: shutting down, waiting for in-flight sweep")
			w.wg.Wait()
			slog.Info("reconcileWorker: shutdown complete")
			return
		case <-ticker.C:
			if !w.running.TryLock() {
				slog.Debug("reconcileWorker: previous sweep still running, skipping tick")
				continue
			}
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer w.running.Unlock()
				w.RunOnce(ctx)
			}()
		}
	}
}

// RunOnce performs a single sweep and logs its outcome.
func (w *ReconcileWorker) RunOnce(ctx context.Context) *SweepResult {
	sweepCtx := ctx
	if w.cfg.SweepTimeout > 0 {
		var cancel context.CancelFunc
		sweepCtx, cancel = context.WithTimeout(ctx, w.cfg.SweepTimeout)
		defer cancel()
	}
	start := time.Now()
	result, err := w.reconciler.Sweep(sweepCtx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("reconcileWorker: sweep failed", "error", err)
		}
		return nil
	}
	slog.Info("reconcileWorker: sweep complete",
		"scanned", result.Scanned, "demoted", result.Demoted, "failed", result.Failed,
		"duration", time.Since(start))
	return result
}
