package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrJamesThe3rd/expensetracker/internal/database"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

func TestDateFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter expense.ListFilter
		want   bson.M
	}{
		{name: "Unbounded", filter: expense.ListFilter{}, want: bson.M{}},
		{name: "FromOnly", filter: expense.ListFilter{From: "2024-01-01"}, want: bson.M{"date": bson.M{"$gte": "2024-01-01"}}},
		{name: "ToOnly", filter: expense.ListFilter{To: "2024-01-31"}, want: bson.M{"date": bson.M{"$lte": "2024-01-31"}}},
		{
			name:   "Both",
			filter: expense.ListFilter{From: "2024-02-01", To: "2024-02-28"},
			want:   bson.M{"date": bson.M{"$gte": "2024-02-01", "$lte": "2024-02-28"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dateFilter(tt.filter))
		})
	}
}

func TestDocument_ToExpense(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	e := document{
		ID:          oid,
		Description: "Coffee",
		Amount:      350,
		Category:    "Food",
		Date:        "2024-01-05",
		CreatedAt:   created,
	}.toExpense()

	assert.Equal(t, oid.Hex(), e.ID)
	assert.Equal(t, "350.00", expense.FormatAmount(e.Amount))
	assert.Equal(t, expense.CategoryFood, e.Category)
	assert.Equal(t, created, e.CreatedAt)
}

func TestStore_ParseID(t *testing.T) {
	s := &Store{}

	assert.NoError(t, s.ParseID(primitive.NewObjectID().Hex()))
	assert.ErrorIs(t, s.ParseID("123"), expense.ErrInvalidID)
	assert.ErrorIs(t, s.ParseID("zzzzzzzzzzzzzzzzzzzzzzzz"), expense.ErrInvalidID)
}

// newTestStore connects to MONGO_TEST_URI and returns a store over a fresh
// collection that is dropped when the test ends.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()

	client, err := database.New(ctx, uri, 5*time.Second)
	require.NoError(t, err)

	coll := client.Database("expense_test").Collection("expenses_" + primitive.NewObjectID().Hex())

	t.Cleanup(func() {
		_ = coll.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	s := New(coll)
	require.NoError(t, s.EnsureIndexes(ctx))

	return s
}

func TestStore_Mongo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jan := &expense.Expense{Description: "Jan", Amount: decimal.NewFromInt(100), Category: expense.CategoryBills, Date: "2024-01-10"}
	feb := &expense.Expense{Description: "Feb", Amount: decimal.RequireFromString("12.5"), Category: expense.CategoryFood, Date: "2024-02-03"}
	early := &expense.Expense{Description: "Early", Amount: decimal.NewFromInt(7), Category: expense.CategoryOther, Date: "2024-01-01"}

	for _, e := range []*expense.Expense{jan, feb, early} {
		require.NoError(t, s.Insert(ctx, e))
		require.NoError(t, s.ParseID(e.ID))
	}

	got, err := s.Get(ctx, feb.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feb", got.Description)
	assert.True(t, feb.Amount.Equal(got.Amount))
	assert.Equal(t, feb.CreatedAt, got.CreatedAt)

	all, err := s.List(ctx, expense.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Early", "Jan", "Feb"}, []string{all[0].Description, all[1].Description, all[2].Description})

	febOnly, err := s.List(ctx, expense.ListFilter{From: "2024-02-01", To: "2024-02-28"})
	require.NoError(t, err)
	require.Len(t, febOnly, 1)
	assert.Equal(t, feb.ID, febOnly[0].ID)

	require.NoError(t, s.Update(ctx, jan.ID, expense.Input{
		Description: "Jan",
		Amount:      decimal.NewFromInt(150),
		Category:    expense.CategoryBills,
		Date:        "2024-01-10",
	}))

	got, err = s.Get(ctx, jan.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(got.Amount))

	require.NoError(t, s.Delete(ctx, jan.ID))
	assert.ErrorIs(t, s.Delete(ctx, jan.ID), expense.ErrNotFound)

	_, err = s.Get(ctx, jan.ID)
	assert.ErrorIs(t, err, expense.ErrNotFound)

	assert.ErrorIs(t, s.Update(ctx, jan.ID, expense.Input{}), expense.ErrNotFound)
}
