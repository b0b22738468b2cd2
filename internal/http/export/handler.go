package export

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/expensetracker/internal/export"
	"github.com/MrJamesThe3rd/expensetracker/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	format := export.FormatCSV

	if s := r.URL.Query().Get("format"); s != "" {
		f, err := export.ParseFormat(s)
		if err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		format = f
	}

	// Buffered so that a failure can still be reported with a proper status.
	var buf bytes.Buffer

	if _, err := h.svc.Write(r.Context(), format, &buf); err != nil {
		if errors.Is(err, export.ErrNoRecords) {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		respond.Err(w, r, err)

		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"expenses_%s%s\"", time.Now().Format("20060102"), format.Ext()))

	_, _ = buf.WriteTo(w)
}
