package testutil

import (
	"wordloop/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockLoopState is a mock for scheduler.LoopState
type MockLoopState struct {
	mock.Mock
}

func (m *MockLoopState) Advance(automatic bool) bool {
	args := m.Called(automatic)
	return args.Bool(0)
}

func (m *MockLoopState) CurrentWord() (domain.Word, bool) {
	args := m.Called()
	return args.Get(0).(domain.Word), args.Bool(1)
}

func (m *MockLoopState) Settings() domain.Settings {
	args := m.Called()
	return args.Get(0).(domain.Settings)
}
