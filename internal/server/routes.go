package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gift_parser/pkg/logx"
	"gift_parser/pkg/middlewarex"
)

// NewRouter собирает цепочку middleware и маршруты API.
func NewRouter(s Server, sensitiveDataMasker logx.SensitiveDataMaskerInterface, logFieldMaxLen int) chi.Router {
	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Recovery,
		middlewarex.RequestLogging(sensitiveDataMasker, logFieldMaxLen),
		middlewarex.ResponseLogging(sensitiveDataMasker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/", handler(s.getRoot))
	r.Get("/health", handler(s.getHealth))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/gifts", func(r chi.Router) {
			r.Get("/", handler(s.getV1Gifts))
			r.Get("/count", handler(s.getV1GiftsCount))
			r.Get("/export", handler(s.getV1GiftsExport))
			r.Get("/{name}", handler(s.getV1Gift))
			r.Patch("/{name}/pricing", handler(s.patchV1GiftPricing))
		})

		r.Route("/parse", func(r chi.Router) {
			r.Post("/", handler(s.postV1Parse))
			r.Post("/batch", handler(s.postV1ParseBatch))
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", handler(s.getV1Tasks))
			r.Get("/{id}", handler(s.getV1Task))
			r.Delete("/{id}", handler(s.deleteV1Task))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			replyError(r.Context(), w, err)
		}
	}
}
