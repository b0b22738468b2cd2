// Package importer reads expense CSV files, such as the ones written by the
// export package, back into the store.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/expensetracker/internal/encoding"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

var ErrNoHeader = &expense.Notice{Message: "No description, amount, category, date header found."}

const (
	colDesc     = "description"
	colAmount   = "amount"
	colCategory = "category"
	colDate     = "date"
)

var requiredCols = []string{colDesc, colAmount, colCategory, colDate}

// delimiters are tried in order until one yields a header row.
var delimiters = []rune{',', ';', '\t'}

// Record is a data row that passed validation.
type Record struct {
	Line  int
	Input expense.Input
}

// Rejected is a data row that failed validation, with the message the form
// would have shown.
type Rejected struct {
	Line    int
	Message string
}

// Batch is the outcome of parsing one file.
type Batch struct {
	Records  []Record
	Rejected []Rejected
	Encoding enc.Charset
}

// Parse decodes r to UTF-8, locates the header row and validates every data
// row after it. Extra columns such as created_at are ignored.
func Parse(r io.Reader) (*Batch, error) {
	utf8r, cs, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, d := range delimiters {
		b, err := parseWith(data, d)
		if errors.Is(err, ErrNoHeader) {
			continue
		}

		if err != nil {
			return nil, err
		}

		b.Encoding = cs

		return b, nil
	}

	return nil, ErrNoHeader
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func parseWith(data []byte, delim rune) (*Batch, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		cols  colIndex
		batch Batch
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if cols == nil {
			cols = headerIndex(row)
			continue
		}

		if blank(row) {
			continue
		}

		in, err := expense.ParseInput(
			cellValue(row, cols[colDesc]),
			cellValue(row, cols[colAmount]),
			cellValue(row, cols[colCategory]),
			cellValue(row, cols[colDate]),
		)
		if err != nil {
			batch.Rejected = append(batch.Rejected, Rejected{Line: line, Message: expense.Message(err)})
			continue
		}

		batch.Records = append(batch.Records, Record{Line: line, Input: in})
	}

	if cols == nil {
		return nil, ErrNoHeader
	}

	return &batch, nil
}

// headerIndex returns the column map if row carries every required column,
// nil otherwise.
func headerIndex(row []string) colIndex {
	cols := make(colIndex)

	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		if _, seen := cols[name]; name != "" && !seen {
			cols[name] = i
		}
	}

	for _, name := range requiredCols {
		if _, ok := cols[name]; !ok {
			return nil
		}
	}

	return cols
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
