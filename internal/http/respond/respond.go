// Package respond writes JSON bodies and maps expense errors to HTTP status
// codes for the API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Err writes err with the status its kind calls for. Store failures are
// logged and reported without their details.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	var ve *expense.ValidationError

	switch {
	case errors.As(err, &ve):
		Message(w, http.StatusUnprocessableEntity, ve.Message)
	case errors.Is(err, expense.ErrInvalidID):
		Message(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, expense.ErrNotFound):
		Message(w, http.StatusNotFound, "expense not found")
	case expense.IsNotice(err):
		Message(w, http.StatusUnprocessableEntity, expense.Message(err))
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Message(w, http.StatusInternalServerError, "internal error")
	}
}
