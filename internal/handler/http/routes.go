package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer)
	router.Use(middleware.Compress(5, "application/json"))
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Get("/api/version", h.getServerVersion)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/categories", h.listCategories)

		r.Route("/api/entries", func(r chi.Router) {
			r.Get("/", h.listEntries)
			r.Post("/", h.createEntry)
			r.Get("/{id}", h.getEntry)
			r.Patch("/{id}", h.updateEntry)
			r.Delete("/{id}", h.deleteEntry)
			r.Get("/{id}/totp", h.entryCode)
			r.Get("/{id}/totp/qr", h.entryQR)
		})

		r.Route("/api/totp", func(r chi.Router) {
			r.Get("/", h.listTotpKeys)
			r.Post("/", h.createTotpKey)
			r.Get("/secret", h.generateSecret)
			r.Post("/code", h.adHocCode)
			r.Get("/{id}", h.getTotpKey)
			r.Patch("/{id}", h.updateTotpKey)
			r.Delete("/{id}", h.deleteTotpKey)
			r.Get("/{id}/code", h.totpKeyCode)
			r.Post("/{id}/verify", h.verifyTotpKey)
			r.Get("/{id}/uri", h.totpKeyURI)
			r.Get("/{id}/qr", h.totpKeyQR)
		})
	})

	return router
}
