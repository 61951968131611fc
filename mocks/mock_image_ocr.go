package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockImageOCR is a mock implementation of port.ImageOCR.
type MockImageOCR struct {
	mock.Mock
}

func (m *MockImageOCR) Recognize(ctx context.Context, image []byte) (string, float64, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Get(1).(float64), args.Error(2)
}
