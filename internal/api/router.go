package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter assembles the route tree with the middleware chain.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
		r.Get("/activity", s.handleActivity)
		r.Get("/products", s.handleListProducts)
		r.Get("/export", s.handleExportConfig)

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleCreateDevice)

			r.Route("/{serial}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Delete("/", s.handleDeleteDevice)
				r.Get("/state", s.handleGetDeviceState)
			})
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", s.handleExportScenarios)

			r.Route("/{scope}", func(r chi.Router) {
				r.Get("/", s.handleGetScenario)
				r.Put("/", s.handleSetScenario)
				r.Delete("/", s.handleClearScenario)

				r.Route("/{key}", func(r chi.Router) {
					r.Get("/", s.handleGetScenario)
					r.Put("/", s.handleSetScenario)
					r.Delete("/", s.handleClearScenario)
				})
			})
		})
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}
