package validation

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDecider is a mock implementation of Decider for testing.
type MockDecider struct {
	mock.Mock
}

// Decide is a mock implementation of Decider.Decide.
func (m *MockDecider) Decide(ctx context.Context, c Context) (*ValidationResult, error) {
	args := m.Called(ctx, c)
	result, _ := args.Get(0).(*ValidationResult)
	return result, args.Error(1)
}
