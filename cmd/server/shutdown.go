package main

import (
	"context"
	"log/slog"
	"sync"
)

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// gracefulShutdown stops the HTTP server, then the notification dispatcher.
// Requests finishing during the drain can still enqueue.
func gracefulShutdown(ctx context.Context, srv shutdowner, stopDispatch context.CancelFunc, dispatchWorker *sync.WaitGroup) {
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	stopDispatch()
	dispatchWorker.Wait()
}
