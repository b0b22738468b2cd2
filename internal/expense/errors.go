package expense

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("expense not found")
	ErrInvalidID = errors.New("invalid expense id")
)

// Notice is an informational condition (no data, nothing selected) that is
// reported to the user but is not a failure.
type Notice struct {
	Message string
}

func (n *Notice) Error() string { return n.Message }

// IsNotice reports whether err is an informational notice.
func IsNotice(err error) bool {
	var n *Notice
	return errors.As(err, &n)
}

// Message converts any error returned by the expense stack into the text
// shown to the user. Validation errors and notices pass through verbatim;
// everything else is reported as a database error.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var n *Notice
	if errors.As(err, &n) {
		return n.Message
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return "Record not found."
	case errors.Is(err, ErrInvalidID):
		return "Invalid record id."
	}

	return fmt.Sprintf("Database error: %v", err)
}
