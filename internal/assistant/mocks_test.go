package assistant

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider mocks the Provider interface
type MockProvider struct {
	mock.Mock
	name       string
	configured bool
}

func newMockProvider() *MockProvider {
	return &MockProvider{name: "mock", configured: true}
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) IsConfigured() bool {
	return m.configured
}

func (m *MockProvider) Interpret(ctx context.Context, req Request) (*Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}
