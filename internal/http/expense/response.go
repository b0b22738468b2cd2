package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

type expenseResponse struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Amount      string           `json:"amount"`
	Category    expense.Category `json:"category"`
	Date        string           `json:"date"`
	CreatedAt   time.Time        `json:"created_at"`
}

type listResponse struct {
	Expenses []expenseResponse `json:"expenses"`
	Total    string            `json:"total"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      expense.FormatAmount(e.Amount),
		Category:    e.Category,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

func toListResponse(exps []*expense.Expense) listResponse {
	resp := listResponse{Expenses: make([]expenseResponse, len(exps))}

	total := decimal.Zero
	for i, e := range exps {
		resp.Expenses[i] = toResponse(e)
		total = total.Add(e.Amount)
	}

	resp.Total = expense.FormatAmount(total)

	return resp
}
