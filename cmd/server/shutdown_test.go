package main

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurevis/internal/domain"
	"insurevis/internal/port"
	"insurevis/internal/service"
)

type recordingNotifier struct {
	mu     sync.Mutex
	claims []uuid.UUID
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(_ context.Context, msg domain.Notification) domain.DeliveryResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.claims = append(n.claims, msg.ClaimID)
	return domain.DeliveryResult{OK: true}
}

// drainingServer enqueues a notification while Shutdown runs, the way a
// decision request finishing during the drain would.
type drainingServer struct {
	dispatcher *service.NotificationDispatcher
	claimID    uuid.UUID
	accepted   bool
}

func (s *drainingServer) Shutdown(context.Context) error {
	s.accepted = s.dispatcher.Enqueue(domain.Notification{TargetUserID: uuid.New(), ClaimID: s.claimID})
	return nil
}

func TestGracefulShutdown_DeliversNotificationsFromDrainingRequests(t *testing.T) {
	notifier := &recordingNotifier{}
	dispatcher := service.NewNotificationDispatcher([]port.Notifier{notifier}, service.NotificationDispatcherConfig{QueueSize: 4, Concurrency: 1})

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	var dispatchWorker sync.WaitGroup
	dispatchWorker.Add(1)
	go func() {
		defer dispatchWorker.Done()
		dispatcher.Start(dispatchCtx)
	}()

	srv := &drainingServer{dispatcher: dispatcher, claimID: uuid.New()}
	gracefulShutdown(context.Background(), srv, stopDispatch, &dispatchWorker)

	require.True(t, srv.accepted)
	assert.Equal(t, []uuid.UUID{srv.claimID}, notifier.claims)
	assert.False(t, dispatcher.Enqueue(domain.Notification{ClaimID: uuid.New()}))
}
