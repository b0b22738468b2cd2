package expense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError is a user-facing input error. Its message is shown verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrDescriptionRequired = &ValidationError{Message: "Description required."}
	ErrAmountRequired      = &ValidationError{Message: "Amount required."}
	ErrAmountNotNumber     = &ValidationError{Message: "Amount must be a number."}
	ErrAmountNotPositive   = &ValidationError{Message: "Amount must be > 0."}
	ErrCategoryRequired    = &ValidationError{Message: "Please select a category."}
	ErrDateFormat          = &ValidationError{Message: "Date must be YYYY-MM-DD."}
)

// ParseInput validates raw form values and converts them into an Input.
// Rules are checked in a fixed order and the first failure is returned.
func ParseInput(description, amountText, category, dateText string) (Input, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Input{}, ErrDescriptionRequired
	}

	amountText = strings.TrimSpace(amountText)
	if amountText == "" {
		return Input{}, ErrAmountRequired
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return Input{}, ErrAmountNotNumber
	}

	if !amount.IsPositive() {
		return Input{}, ErrAmountNotPositive
	}

	cat := Category(category)
	if !cat.Valid() {
		return Input{}, ErrCategoryRequired
	}

	dateText = strings.TrimSpace(dateText)
	if !ValidDate(dateText) {
		return Input{}, ErrDateFormat
	}

	return Input{
		Description: description,
		Amount:      amount,
		Category:    cat,
		Date:        dateText,
	}, nil
}

// Validate checks raw form values and reports the first failing rule's message.
func Validate(description, amountText, category, dateText string) (bool, string) {
	if _, err := ParseInput(description, amountText, category, dateText); err != nil {
		return false, err.Error()
	}

	return true, ""
}

// Validate re-checks the invariants of an already typed Input.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return ErrDescriptionRequired
	}

	if !in.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if !in.Category.Valid() {
		return ErrCategoryRequired
	}

	if !ValidDate(in.Date) {
		return ErrDateFormat
	}

	return nil
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
