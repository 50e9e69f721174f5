package list

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/fintrack/internal/eventloop"
	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService[E model.Record] struct {
	mock.Mock
}

func (m *mockService[E]) GetAll(ctx context.Context) ([]E, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]E)
	return out, args.Error(1)
}

func (m *mockService[E]) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func category(id int, name string) model.Category {
	return model.Category{ID: model.IntPtr(id), Name: name}
}

func ids(records []*model.Category) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		id, _ := r.RecordID()
		out = append(out, id)
	}
	return out
}

func loadedController(t *testing.T, answer bool, records []model.Category) (*Controller[model.Category], *mockService[model.Category], *notify.Recorder) {
	t.Helper()
	svc := &mockService[model.Category]{}
	svc.On("GetAll", mock.Anything).Return(records, nil).Once()
	notifier := notify.NewRecorder(answer)

	ctrl := New[model.Category](context.Background(), svc, Deps{Notifier: notifier})
	eventloop.Drive(ctrl.Update, ctrl.Init())
	require.True(t, ctrl.Loaded())
	return ctrl, svc, notifier
}

func TestNewestFirst(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		want  []int
	}{
		{name: "empty", input: []int{}, want: []int{}},
		{name: "single", input: []int{4}, want: []int{4}},
		{name: "ascending", input: []int{1, 2, 3}, want: []int{3, 2, 1}},
		{name: "mixed", input: []int{5, 9, 1, 7}, want: []int{9, 7, 5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]*model.Category, 0, len(tt.input))
			for _, id := range tt.input {
				c := category(id, "c")
				records = append(records, &c)
			}

			once := NewestFirst(records)
			twice := NewestFirst(once)
			assert.Equal(t, tt.want, ids(once))
			assert.Equal(t, ids(once), ids(twice))
			assert.Equal(t, tt.input, ids(records)[:len(tt.input)], "input must not be reordered")
		})
	}
}

func TestNewestFirst_UnsavedFirst(t *testing.T) {
	saved := category(3, "saved")
	unsaved := model.Category{Name: "draft"}

	got := NewestFirst([]*model.Category{&saved, &unsaved})
	assert.Same(t, &unsaved, got[0])
	assert.Same(t, &saved, got[1])
}

func TestController_LoadSortsNewestFirst(t *testing.T) {
	ctrl, _, notifier := loadedController(t, true, []model.Category{
		category(1, "Food"), category(3, "Salary"), category(2, "Rent"),
	})

	assert.Equal(t, []int{3, 2, 1}, ids(ctrl.Records()))
	assert.False(t, ctrl.Loading())
	assert.Empty(t, notifier.Calls())
}

func TestController_LoadFailure(t *testing.T) {
	svc := &mockService[model.Category]{}
	svc.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	notifier := notify.NewRecorder(true)

	ctrl := New[model.Category](context.Background(), svc, Deps{Notifier: notifier})
	eventloop.Drive(ctrl.Update, ctrl.Init())

	assert.False(t, ctrl.Loaded())
	assert.Empty(t, ctrl.Records())
	assert.Equal(t, []string{i18n.MsgListLoadFailed}, notifier.Messages(notify.KindAlert))
}

func TestController_DeleteRemovesByIdentity(t *testing.T) {
	sizes := []int{1, 2, 5}
	for _, size := range sizes {
		records := make([]model.Category, 0, size+1)
		for i := 1; i <= size; i++ {
			records = append(records, category(i, "same"))
		}
		// A row with duplicate content must survive.
		records = append(records, category(size, "same"))

		ctrl, svc, notifier := loadedController(t, true, records)
		before := ctrl.Records()
		target := before[len(before)/2]
		id, _ := target.RecordID()
		svc.On("Delete", mock.Anything, id).Return(nil).Once()

		eventloop.Drive(ctrl.Update, ctrl.Delete(target))

		after := ctrl.Records()
		require.Len(t, after, len(before)-1)
		for _, r := range after {
			assert.NotSame(t, target, r)
		}
		var kept []*model.Category
		for _, r := range before {
			if r != target {
				kept = append(kept, r)
			}
		}
		assert.Equal(t, kept, after)
		assert.Equal(t, []string{i18n.MsgConfirmDelete}, notifier.Messages(notify.KindConfirm))
		svc.AssertExpectations(t)
	}
}

func TestController_DeleteDeclined(t *testing.T) {
	ctrl, svc, notifier := loadedController(t, false, []model.Category{category(1, "Food")})

	eventloop.Drive(ctrl.Update, ctrl.Delete(ctrl.Records()[0]))

	assert.Len(t, ctrl.Records(), 1)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Empty(t, notifier.Messages(notify.KindError))
}

func TestController_DeleteFailure(t *testing.T) {
	ctrl, svc, notifier := loadedController(t, true, []model.Category{category(1, "Food"), category(2, "Rent")})
	svc.On("Delete", mock.Anything, 2).Return(errors.New("status 409")).Once()
	before := ctrl.Records()

	eventloop.Drive(ctrl.Update, ctrl.Delete(before[0]))

	assert.Equal(t, before, ctrl.Records())
	assert.Equal(t, []string{i18n.MsgDeleteFailed}, notifier.Messages(notify.KindError))
}

func TestController_DeleteAfterClose(t *testing.T) {
	ctrl, svc, _ := loadedController(t, true, []model.Category{category(1, "Food")})
	svc.On("Delete", mock.Anything, 1).Return(nil).Once()

	cmd := ctrl.Delete(ctrl.Records()[0])
	ctrl.Close()
	eventloop.Drive(ctrl.Update, cmd)

	assert.Len(t, ctrl.Records(), 1)
	svc.AssertExpectations(t)
}
