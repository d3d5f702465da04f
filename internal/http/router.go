package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/ezexpenses/internal/http/export"
	"github.com/MrJamesThe3rd/ezexpenses/internal/http/importfile"
	"github.com/MrJamesThe3rd/ezexpenses/internal/http/record"
	"github.com/MrJamesThe3rd/ezexpenses/internal/http/report"
	"github.com/MrJamesThe3rd/ezexpenses/internal/http/tag"
)

type Handlers struct {
	Records *record.Handler
	Tags    *tag.Handler
	Import  *importfile.Handler
	Export  *export.Handler
	Reports *report.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Record-Count"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/records", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Records.Routes(r)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Tags.Routes(r)
		})

		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
		r.Route("/reports", h.Reports.Routes)
	})

	return router
}
