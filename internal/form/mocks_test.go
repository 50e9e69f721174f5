package form

import (
	"context"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/stretchr/testify/mock"
)

type mockService[E model.Record] struct {
	mock.Mock
}

func (m *mockService[E]) GetByID(ctx context.Context, id int) (E, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(E), args.Error(1)
}

func (m *mockService[E]) Create(ctx context.Context, draft E) (E, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(E), args.Error(1)
}

func (m *mockService[E]) Update(ctx context.Context, draft E) (E, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(E), args.Error(1)
}

func (m *mockService[E]) GetAll(ctx context.Context) ([]E, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]E)
	return out, args.Error(1)
}

// draftOf returns the draft passed to the first call of method.
func draftOf[E model.Record](m *mockService[E], method string) (E, bool) {
	for _, call := range m.Calls {
		if call.Method == method {
			return call.Arguments.Get(1).(E), true
		}
	}
	var zero E
	return zero, false
}
