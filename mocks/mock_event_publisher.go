package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"insurevis/internal/domain"
)

// MockEventPublisher is a mock implementation of port.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.ReviewEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
