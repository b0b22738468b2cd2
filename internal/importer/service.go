package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	enc "github.com/MrJamesThe3rd/expensetracker/internal/encoding"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

// Result summarises an import.
type Result struct {
	Imported int
	Rejected []Rejected
	Encoding enc.Charset
}

type Service struct {
	expenses *expense.Service
}

func NewService(svc *expense.Service) *Service {
	return &Service{expenses: svc}
}

// Import parses r and inserts every valid row. Invalid rows are reported in
// the result and do not stop the import. A store failure aborts; rows inserted
// before it remain stored and are counted in the returned result.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	batch, err := Parse(r)
	if err != nil {
		return nil, err
	}

	res := &Result{Rejected: batch.Rejected, Encoding: batch.Encoding}

	for _, rec := range batch.Records {
		if _, err := s.expenses.Add(ctx, rec.Input); err != nil {
			return res, fmt.Errorf("line %d: %w", rec.Line, err)
		}

		res.Imported++
	}

	slog.Info("imported expenses",
		"imported", res.Imported,
		"rejected", len(res.Rejected),
		"encoding", res.Encoding)

	return res, nil
}

// Summary is the notice shown after an import.
func Summary(r *Result) string {
	if len(r.Rejected) == 0 {
		return fmt.Sprintf("Imported %d records.", r.Imported)
	}

	return fmt.Sprintf("Imported %d records, skipped %d invalid rows.", r.Imported, len(r.Rejected))
}
