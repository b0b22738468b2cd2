package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

// Format selects the output file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv", "xlsx" and the alias "excel".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("unknown export format %q", s)
}

// Ext returns the default file extension for the format.
func (f Format) Ext() string { return "." + string(f) }

// ContentType is the MIME type used when streaming the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv"
}

var ErrNoRecords = &expense.Notice{Message: "No records to export."}

// Columns are the exported fields; the store identifier is never exported.
var Columns = []string{"description", "amount", "category", "date", "created_at"}

const (
	sheetName       = "Sheet1"
	createdAtLayout = "2006-01-02 15:04:05"
)

// Result describes a finished export.
type Result struct {
	Path   string
	Format Format
	Rows   int
}

// Service writes every stored expense to CSV or spreadsheet files.
type Service struct {
	expenses *expense.Service
}

// NewService creates a new export Service.
func NewService(svc *expense.Service) *Service {
	return &Service{expenses: svc}
}

// Export writes all expenses to path. When path has no extension the format's
// default one is appended. A failed write leaves whatever reached the file.
func (s *Service) Export(ctx context.Context, format Format, path string) (*Result, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("export path is required")
	}

	if filepath.Ext(path) == "" {
		path += format.Ext()
	}

	exps, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := write(format, exps, f); err != nil {
		return nil, err
	}

	return &Result{Path: path, Format: format, Rows: len(exps)}, nil
}

// Write streams all expenses in the given format to w and returns the number
// of records written.
func (s *Service) Write(ctx context.Context, format Format, w io.Writer) (int, error) {
	exps, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	if err := write(format, exps, w); err != nil {
		return 0, err
	}

	return len(exps), nil
}

// Summary is the notice shown after a successful export.
func (s *Service) Summary(r *Result) string {
	return fmt.Sprintf("Exported %d records to %s", r.Rows, r.Path)
}

func (s *Service) load(ctx context.Context) ([]*expense.Expense, error) {
	exps, err := s.expenses.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	if len(exps) == 0 {
		return nil, ErrNoRecords
	}

	return exps, nil
}

func write(format Format, exps []*expense.Expense, w io.Writer) error {
	switch format {
	case FormatCSV:
		return writeCSV(exps, w)
	case FormatXLSX:
		return writeXLSX(exps, w)
	}

	return fmt.Errorf("unknown export format %q", format)
}

func writeCSV(exps []*expense.Expense, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range exps {
		record := []string{
			e.Description,
			expense.FormatAmount(e.Amount),
			string(e.Category),
			e.Date,
			e.CreatedAt.Format(createdAtLayout),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func writeXLSX(exps []*expense.Expense, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range exps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}

		row := []any{
			e.Description,
			e.Amount.InexactFloat64(),
			string(e.Category),
			e.Date,
			e.CreatedAt.Format(createdAtLayout),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}

	return nil
}
