package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/expensetracker/internal/encoding"
	"github.com/MrJamesThe3rd/expensetracker/internal/http/respond"
	"github.com/MrJamesThe3rd/expensetracker/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type rejectedDTO struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type importResponse struct {
	Imported int              `json:"imported"`
	Rejected []rejectedDTO    `json:"rejected"`
	Encoding encoding.Charset `json:"encoding"`
	Summary  string           `json:"summary"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Message(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), file)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	resp := importResponse{
		Imported: res.Imported,
		Rejected: make([]rejectedDTO, 0, len(res.Rejected)),
		Encoding: res.Encoding,
		Summary:  importer.Summary(res),
	}
	for _, rj := range res.Rejected {
		resp.Rejected = append(resp.Rejected, rejectedDTO{Line: rj.Line, Message: rj.Message})
	}

	respond.JSON(w, http.StatusCreated, resp)
}
