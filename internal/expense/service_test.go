package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

func coffee() expense.Input {
	return expense.Input{
		Description: "Coffee",
		Amount:      decimal.NewFromInt(350),
		Category:    expense.CategoryFood,
		Date:        "2024-01-05",
	}
}

func TestService_Add(t *testing.T) {
	type testCase struct {
		name      string
		input     expense.Input
		setupMock func(m *expense.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "Success",
			input: coffee(),
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						e.ID = "65a0f0c2e4b0a1b2c3d4e5f6"
						e.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "InvalidInputNeverReachesStore",
			input: func() expense.Input {
				in := coffee()
				in.Description = ""
				return in
			}(),
			wantErr: expense.ErrDescriptionRequired,
		},
		{
			name:  "RepoError",
			input: coffee(),
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := expense.NewService(repo)
			got, err := svc.Add(context.Background(), tt.input)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "Coffee", got.Description)
			assert.Equal(t, "350.00", expense.FormatAmount(got.Amount))
		})
	}
}

func TestService_FindByDateRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)

	want := []*expense.Expense{{ID: "a", Date: "2024-02-03"}}
	repo.EXPECT().
		List(gomock.Any(), expense.ListFilter{From: "2024-02-01", To: "2024-02-28"}).
		Return(want, nil)

	got, err := expense.NewService(repo).FindByDateRange(context.Background(), "2024-02-01", "2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Get(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		setupMock func(m *expense.MockRepository)
		wantErr   error
	}{
		{
			name: "Found",
			id:   "ok",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ParseID("ok").Return(nil)
				m.EXPECT().Get(gomock.Any(), "ok").Return(&expense.Expense{ID: "ok"}, nil)
			},
		},
		{
			name: "InvalidID",
			id:   "bad",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ParseID("bad").Return(expense.ErrInvalidID)
			},
			wantErr: expense.ErrInvalidID,
		},
		{
			name: "NotFound",
			id:   "gone",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ParseID("gone").Return(nil)
				m.EXPECT().Get(gomock.Any(), "gone").Return(nil, expense.ErrNotFound)
			},
			wantErr: expense.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := expense.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := expense.NewService(repo).Get(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)

	in := coffee()
	in.Amount = decimal.NewFromInt(150)

	gomock.InOrder(
		repo.EXPECT().ParseID("id1").Return(nil),
		repo.EXPECT().Update(gomock.Any(), "id1", in).Return(nil),
	)

	svc := expense.NewService(repo)
	require.NoError(t, svc.Update(context.Background(), "id1", in))

	in.Category = "Unknown"
	assert.ErrorIs(t, svc.Update(context.Background(), "id1", in), expense.ErrCategoryRequired)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)

	repo.EXPECT().ParseID("id1").Return(nil)
	repo.EXPECT().Delete(gomock.Any(), "id1").Return(expense.ErrNotFound)
	repo.EXPECT().ParseID("bad").Return(expense.ErrInvalidID)

	svc := expense.NewService(repo)

	err := svc.Delete(context.Background(), "id1")
	assert.ErrorIs(t, err, expense.ErrNotFound)
	assert.Contains(t, err.Error(), "id1")

	assert.ErrorIs(t, svc.Delete(context.Background(), "bad"), expense.ErrInvalidID)
}

func TestListFilter_Matches(t *testing.T) {
	e := &expense.Expense{Date: "2024-02-15"}

	assert.True(t, expense.ListFilter{}.Matches(e))
	assert.True(t, expense.ListFilter{From: "2024-02-15", To: "2024-02-15"}.Matches(e))
	assert.True(t, expense.ListFilter{From: "2024-02-01"}.Matches(e))
	assert.False(t, expense.ListFilter{From: "2024-02-16"}.Matches(e))
	assert.False(t, expense.ListFilter{To: "2024-02-14"}.Matches(e))
}
