package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical textual form of an expense date. Dates in this
// form sort lexicographically in chronological order.
const DateLayout = "2006-01-02"

// Category is one of the fixed expense categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryHousing       Category = "Housing"
	CategoryBills         Category = "Bills"
	CategoryClothing      Category = "Clothing"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryEntertainment Category = "Entertainment"
	CategoryTravel        Category = "Travel"
	CategoryOther         Category = "Other"
)

// Categories lists every category in picker order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryBills,
	CategoryClothing,
	CategoryHealth,
	CategoryEducation,
	CategoryEntertainment,
	CategoryTravel,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Expense is a persisted expense record.
type Expense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Category    Category
	Date        string // YYYY-MM-DD
	CreatedAt   time.Time
}

// Input holds the four user-editable fields of an expense.
type Input struct {
	Description string
	Amount      decimal.Decimal
	Category    Category
	Date        string
}

// Input returns the editable projection of e.
func (e *Expense) Input() Input {
	return Input{
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
	}
}

// FormatAmount renders an amount with two decimals, the way it is displayed.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
