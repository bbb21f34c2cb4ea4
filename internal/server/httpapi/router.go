package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.metricsMiddleware)

	r.Get("/ping", s.Ping)
	r.Handle("/metrics", s.metricsHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Post("/logout", s.Logout)
	})

	r.Route("/announces", func(r chi.Router) {
		// only the list is publicly readable
		r.Get("/", s.ListAnnounces)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/{id}", s.GetAnnounce)
			r.Post("/", s.CreateAnnounce)
			r.Patch("/{id}", s.UpdateAnnounce)
			r.Delete("/{id}", s.DeleteAnnounce)
		})
	})

	return r
}

func (s *HTTPServer) Ping(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "OK"})
}
