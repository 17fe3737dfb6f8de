package relay

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockExecutor implements Executor for testing
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, command string) (*Execution, error) {
	args := m.Called(ctx, command)
	execution, _ := args.Get(0).(*Execution)
	return execution, args.Error(1)
}

// MockLogWriter implements LogWriter for testing
type MockLogWriter struct {
	mock.Mock
}

func (m *MockLogWriter) Write(ts time.Time, token string, tokenFetch, sessionStart *Execution) (string, error) {
	args := m.Called(ts, token, tokenFetch, sessionStart)
	return args.String(0), args.Error(1)
}
