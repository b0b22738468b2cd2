package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/expensetracker/internal/http/chart"
	"github.com/MrJamesThe3rd/expensetracker/internal/http/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/http/export"
	"github.com/MrJamesThe3rd/expensetracker/internal/http/importcsv"
)

func New(
	allowedOrigins []string,
	expensesV1 *expense.Handler,
	chartsV1 *chart.Handler,
	exportV1 *export.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			expensesV1.Routes(r)
		})

		r.Route("/charts", chartsV1.Routes)
		r.Route("/export", exportV1.Routes)
		r.Route("/import", importV1.Routes)
	})

	return router
}
