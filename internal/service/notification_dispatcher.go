package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

// NotificationDispatcherConfig holds settings for asynchronous owner notifications.
type NotificationDispatcherConfig struct {
	QueueSize   int
	Concurrency int
	// Timeout bounds one delivery on one channel.
	Timeout time.Duration
}

// NotificationDispatcher delivers queued notifications over every configured
// channel. Delivery never feeds back into the decision that produced it.
type NotificationDispatcher struct {
	channels []port.Notifier
	cfg      NotificationDispatcherConfig
	queue    chan domain.Notification

	mu     sync.RWMutex
	closed bool
}

// NewNotificationDispatcher creates a new NotificationDispatcher.
func NewNotificationDispatcher(channels []port.Notifier, cfg NotificationDispatcherConfig) *NotificationDispatcher {
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &NotificationDispatcher{
		channels: channels,
		cfg:      cfg,
		queue:    make(chan domain.Notification, cfg.QueueSize),
	}
}

// Enqueue schedules n for delivery without blocking. It returns false when
// the queue is full or the dispatcher has stopped.
func (d *NotificationDispatcher) Enqueue(n domain.Notification) bool {
	if n.ID == "" {
		n.ID = ulid.Make().String()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		slog.Warn("notificationDispatcher: stopped, notification dropped", "notification_id", n.ID, "claim_id", n.ClaimID)
		return false
	}
	select {
	case d.queue <- n:
		return true
	default:
		slog.Warn("notificationDispatcher: queue full, notification dropped", "notification_id", n.ID, "claim_id", n.ClaimID)
		return false
	}
}

// Start runs the delivery workers until ctx is canceled. It stops accepting
// new notifications, drains what is already queued and then returns.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	slog.Info("notificationDispatcher: started",
		"channels", len(d.channels), "concurrency", d.cfg.Concurrency, "queue_size", d.cfg.QueueSize)

	var wg sync.WaitGroup
	for i := 0; i < d.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range d.queue {
				d.Deliver(context.WithoutCancel(ctx), n)
			}
		}()
	}

	<-ctx.Done()
	slog.Info("notificationDispatcher: shutting down, draining queue", "pending", len(d.queue))
	d.mu.Lock()
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	wg.Wait()
	slog.Info("notificationDispatcher: shutdown complete")
}

// Deliver sends n over every channel and returns the per-channel results.
func (d *NotificationDispatcher) Deliver(ctx context.Context, n domain.Notification) map[string]domain.DeliveryResult {
	results := make(map[string]domain.DeliveryResult, len(d.channels))
	for _, ch := range d.channels {
		chCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
		res := ch.Notify(chCtx, n)
		cancel()
		results[ch.Name()] = res

		log := slog.With("channel", ch.Name(), "notification_id", n.ID, "claim_id", n.ClaimID, "user_id", n.TargetUserID)
		if res.OK {
			log.Info("notificationDispatcher: delivered", "status", res.StatusCode)
		} else {
			log.Warn("notificationDispatcher: delivery failed", "status", res.StatusCode, "error", res.Error)
		}
	}
	return results
}
