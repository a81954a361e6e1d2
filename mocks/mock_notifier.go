package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"insurevis/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) domain.DeliveryResult {
	args := m.Called(ctx, n)
	return args.Get(0).(domain.DeliveryResult)
}

// MockNotificationQueue is a mock implementation of service.NotificationQueue.
type MockNotificationQueue struct {
	mock.Mock
}

func (m *MockNotificationQueue) Enqueue(n domain.Notification) bool {
	args := m.Called(n)
	return args.Bool(0)
}
