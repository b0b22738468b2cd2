package chart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/expensetracker/internal/chart"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/http/respond"
)

type Handler struct {
	svc *chart.Service
}

func NewHandler(svc *chart.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/category", h.byCategory)
	r.Get("/date", h.byDate)
}

type sliceResponse struct {
	Category expense.Category `json:"category"`
	Total    string           `json:"total"`
	Percent  float64          `json:"percent"`
}

type barResponse struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	slices, err := h.svc.CategoryBreakdown(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}

	resp := make([]sliceResponse, len(slices))
	for i, s := range slices {
		resp[i] = sliceResponse{
			Category: s.Category,
			Total:    expense.FormatAmount(s.Total),
			Percent:  s.Percent,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) byDate(w http.ResponseWriter, r *http.Request) {
	bars, err := h.svc.DateBreakdown(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}

	resp := make([]barResponse, len(bars))
	for i, b := range bars {
		resp[i] = barResponse{Date: b.Date, Total: expense.FormatAmount(b.Total)}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, chart.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respond.Err(w, r, err)
}
