package expense

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/http/respond"
	"github.com/MrJamesThe3rd/expensetracker/internal/table"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// expenseRequest carries the form fields as text so that the API applies
// exactly the same validation as the add/edit dialog.
type expenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

func (req expenseRequest) parse() (expense.Input, error) {
	return expense.ParseInput(req.Description, req.Amount, req.Category, req.Date)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.parse()
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	e, err := h.svc.Add(r.Context(), in)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := table.ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	exps, err := h.svc.FindByDateRange(r.Context(), filter.From, filter.To)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toListResponse(exps))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.parse()
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if err := h.svc.Update(r.Context(), id, in); err != nil {
		respond.Err(w, r, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
