// Package chart aggregates expenses for the category and date charts.
package chart

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

var ErrNoData = &expense.Notice{Message: "No data to graph."}

// Slice is one category's share of the total.
type Slice struct {
	Category expense.Category
	Total    decimal.Decimal
	Percent  float64
}

// Bar is the total spent on one date.
type Bar struct {
	Date  string
	Total decimal.Decimal
}

type Service struct {
	expenses *expense.Service
}

func NewService(svc *expense.Service) *Service {
	return &Service{expenses: svc}
}

// CategoryBreakdown sums every expense per category.
func (s *Service) CategoryBreakdown(ctx context.Context) ([]Slice, error) {
	exps, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return ByCategory(exps), nil
}

// DateBreakdown sums every expense per date, in chronological order.
func (s *Service) DateBreakdown(ctx context.Context) ([]Bar, error) {
	exps, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return ByDate(exps), nil
}

func (s *Service) load(ctx context.Context) ([]*expense.Expense, error) {
	exps, err := s.expenses.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}

	if len(exps) == 0 {
		return nil, ErrNoData
	}

	return exps, nil
}

// ByCategory groups exps by category, ordered by category name.
func ByCategory(exps []*expense.Expense) []Slice {
	sums := make(map[expense.Category]decimal.Decimal)
	grand := decimal.Zero

	for _, e := range exps {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
		grand = grand.Add(e.Amount)
	}

	out := make([]Slice, 0, len(sums))
	for cat, total := range sums {
		pct := 0.0
		if grand.IsPositive() {
			pct = total.Div(grand).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}

		out = append(out, Slice{Category: cat, Total: total, Percent: pct})
	}

	slices.SortFunc(out, func(a, b Slice) int { return cmp.Compare(a.Category, b.Category) })

	return out
}

// ByDate groups exps by date string, ordered lexicographically.
func ByDate(exps []*expense.Expense) []Bar {
	sums := make(map[string]decimal.Decimal)
	for _, e := range exps {
		sums[e.Date] = sums[e.Date].Add(e.Amount)
	}

	out := make([]Bar, 0, len(sums))
	for date, total := range sums {
		out = append(out, Bar{Date: date, Total: total})
	}

	slices.SortFunc(out, func(a, b Bar) int { return cmp.Compare(a.Date, b.Date) })

	return out
}
