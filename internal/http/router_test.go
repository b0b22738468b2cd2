package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/expensetracker/internal/chart"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense/memory"
	"github.com/MrJamesThe3rd/expensetracker/internal/export"
	apihttp "github.com/MrJamesThe3rd/expensetracker/internal/http"
	chartHandler "github.com/MrJamesThe3rd/expensetracker/internal/http/chart"
	expenseHandler "github.com/MrJamesThe3rd/expensetracker/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/expensetracker/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/expensetracker/internal/http/importcsv"
	"github.com/MrJamesThe3rd/expensetracker/internal/importer"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	svc := expense.NewService(memory.New())

	return apihttp.New(
		[]string{"*"},
		expenseHandler.NewHandler(svc),
		chartHandler.NewHandler(chart.NewService(svc)),
		exportHandler.NewHandler(export.NewService(svc)),
		importHandler.NewHandler(importer.NewService(svc)),
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

type expenseBody struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

func create(t *testing.T, h http.Handler, desc, amount, cat, date string) expenseBody {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"description": desc, "amount": amount, "category": cat, "date": date,
	})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/v1/expenses", string(body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var e expenseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	return e
}

func TestExpensesCRUD(t *testing.T) {
	h := newRouter(t)

	lunch := create(t, h, "Lunch", "12.5", "Food", "2024-03-01")
	assert.NotEmpty(t, lunch.ID)
	assert.Equal(t, "12.50", lunch.Amount)

	rec := do(t, h, http.MethodGet, "/api/v1/expenses/"+lunch.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/expenses/"+lunch.ID,
		`{"description":"Dinner","amount":"20","category":"Food","date":"2024-03-02"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated expenseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Dinner", updated.Description)
	assert.Equal(t, "20.00", updated.Amount)

	rec = do(t, h, http.MethodDelete, "/api/v1/expenses/"+lunch.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/expenses/"+lunch.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_ValidationError(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/expenses",
		`{"description":"Lunch","amount":"abc","category":"Food","date":"2024-03-01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Amount must be a number."}`, rec.Body.String())
}

func TestGet_InvalidID(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/expenses/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/expenses/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_FilterAndTotal(t *testing.T) {
	h := newRouter(t)

	create(t, h, "A", "10", "Food", "2024-01-01")
	create(t, h, "B", "20", "Bills", "2024-01-15")
	create(t, h, "C", "30", "Travel", "2024-02-01")

	rec := do(t, h, http.MethodGet, "/api/v1/expenses?from=2024-01-10&to=2024-02-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Expenses []expenseBody `json:"expenses"`
		Total    string        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Expenses, 2)
	assert.Equal(t, "B", resp.Expenses[0].Description)
	assert.Equal(t, "C", resp.Expenses[1].Description)
	assert.Equal(t, "50.00", resp.Total)

	rec = do(t, h, http.MethodGet, "/api/v1/expenses?from=2024-1-1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"From date must be YYYY-MM-DD"}`, rec.Body.String())
}

func TestList_TrimsBounds(t *testing.T) {
	h := newRouter(t)

	create(t, h, "A", "10", "Food", "2024-01-01")
	create(t, h, "B", "20", "Bills", "2024-01-15")

	rec := do(t, h, http.MethodGet, "/api/v1/expenses?from=%202024-01-10&to=2024-01-31%20", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Expenses []expenseBody `json:"expenses"`
		Total    string        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Expenses, 1)
	assert.Equal(t, "B", resp.Expenses[0].Description)
	assert.Equal(t, "20.00", resp.Total)

	rec = do(t, h, http.MethodGet, "/api/v1/expenses?to=%202024-02-30", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"To date must be YYYY-MM-DD"}`, rec.Body.String())
}

func TestCharts(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/charts/category", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	create(t, h, "A", "30", "Food", "2024-01-01")
	create(t, h, "B", "10", "Bills", "2024-01-01")

	rec = do(t, h, http.MethodGet, "/api/v1/charts/category", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"category":"Bills","total":"10.00","percent":25},
		{"category":"Food","total":"30.00","percent":75}
	]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/charts/date", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"date":"2024-01-01","total":"40.00"}]`, rec.Body.String())
}

func TestExport(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/export", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	create(t, h, "A", "30", "Food", "2024-01-01")

	rec = do(t, h, http.MethodGet, "/api/v1/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "description,amount,category,date,created_at\n"))

	rec = do(t, h, http.MethodGet, "/api/v1/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImport(t *testing.T) {
	h := newRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "expenses.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("description,amount,category,date\nBus,2,Transport,2024-05-01\nBad,-1,Food,2024-05-01\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Imported int `json:"imported"`
		Rejected []struct {
			Line    int    `json:"line"`
			Message string `json:"message"`
		} `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, 3, resp.Rejected[0].Line)
	assert.Equal(t, "Amount must be > 0.", resp.Rejected[0].Message)

	rec = do(t, h, http.MethodGet, "/api/v1/expenses", "")
	assert.Contains(t, rec.Body.String(), `"Bus"`)
}
