package importer_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense/memory"
	"github.com/MrJamesThe3rd/expensetracker/internal/export"
	"github.com/MrJamesThe3rd/expensetracker/internal/importer"
)

func TestParse_ExportedFile(t *testing.T) {
	csv := `description,amount,category,date,created_at
Lunch,12.50,Food,2024-03-01,2024-03-01 12:00:00
Taxi,7.50,Transport,2024-03-02,2024-03-02 08:30:00
`

	b, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, b.Records, 2)
	assert.Empty(t, b.Rejected)

	assert.Equal(t, 2, b.Records[0].Line)
	assert.Equal(t, "Lunch", b.Records[0].Input.Description)
	assert.True(t, decimal.RequireFromString("12.5").Equal(b.Records[0].Input.Amount))
	assert.Equal(t, expense.CategoryFood, b.Records[0].Input.Category)
	assert.Equal(t, "2024-03-02", b.Records[1].Input.Date)
}

func TestParse_DifferentColumnOrderAndCase(t *testing.T) {
	csv := `Exported by hand
Date;Category;Amount;Description;Notes
2024-01-05;Bills;80;Electricity;paid late
`

	b, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, b.Records, 1)

	assert.Equal(t, "Electricity", b.Records[0].Input.Description)
	assert.Equal(t, expense.CategoryBills, b.Records[0].Input.Category)
	assert.Equal(t, 3, b.Records[0].Line)
}

func TestParse_RejectsInvalidRows(t *testing.T) {
	csv := `description,amount,category,date
Lunch,abc,Food,2024-03-01
,5,Food,2024-03-01

Rent,450,Housing,2024/03/01
Bus,0,Transport,2024-03-01
Cinema,9,Movies,2024-03-01
Book,15,Education,2024-03-03
`

	b, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, b.Records, 1)
	assert.Equal(t, "Book", b.Records[0].Input.Description)

	assert.Equal(t, []importer.Rejected{
		{Line: 2, Message: "Amount must be a number."},
		{Line: 3, Message: "Description required."},
		{Line: 5, Message: "Date must be YYYY-MM-DD."},
		{Line: 6, Message: "Amount must be > 0."},
		{Line: 7, Message: "Please select a category."},
	}, b.Rejected)
}

func TestParse_NoHeader(t *testing.T) {
	_, err := importer.Parse(strings.NewReader("foo,bar\n1,2\n"))
	require.ErrorIs(t, err, importer.ErrNoHeader)

	_, err = importer.Parse(strings.NewReader(""))
	require.ErrorIs(t, err, importer.ErrNoHeader)
}

func TestParse_Windows1252(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes(
		[]byte("description,amount,category,date\nCafé,3,Food,2024-02-01\n"))
	require.NoError(t, err)

	b, err := importer.Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, b.Records, 1)
	assert.Equal(t, "Café", b.Records[0].Input.Description)
}

func TestImport_RoundTripsExport(t *testing.T) {
	ctx := context.Background()

	src := expense.NewService(memory.New())
	for _, in := range []expense.Input{
		{Description: "Lunch", Amount: decimal.RequireFromString("12.5"), Category: expense.CategoryFood, Date: "2024-03-01"},
		{Description: "Flight", Amount: decimal.RequireFromString("320"), Category: expense.CategoryTravel, Date: "2024-04-10"},
	} {
		_, err := src.Add(ctx, in)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	_, err := export.NewService(src).Write(ctx, export.FormatCSV, &buf)
	require.NoError(t, err)

	dst := expense.NewService(memory.New())
	res, err := importer.NewService(dst).Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, "Imported 2 records.", importer.Summary(res))

	got, err := dst.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Lunch", got[0].Description)
	assert.True(t, decimal.NewFromInt(320).Equal(got[1].Amount))
}

func TestImport_StopsOnStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("write conflict")),
	)

	csv := `description,amount,category,date
A,1,Food,2024-01-01
B,2,Food,2024-01-02
C,3,Food,2024-01-03
`

	res, err := importer.NewService(expense.NewService(repo)).Import(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Imported)
}

func TestSummary_WithRejected(t *testing.T) {
	res := &importer.Result{Imported: 3, Rejected: []importer.Rejected{{Line: 4, Message: "Amount required."}}}
	assert.Equal(t, "Imported 3 records, skipped 1 invalid rows.", importer.Summary(res))
}
