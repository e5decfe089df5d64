package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/listkeeper/listkeeper/internal/api/handler"
	customMiddleware "github.com/listkeeper/listkeeper/internal/api/middleware"
	"github.com/listkeeper/listkeeper/internal/assistant"
	"github.com/listkeeper/listkeeper/internal/config"
	"github.com/listkeeper/listkeeper/internal/store"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, st *store.Store, med *assistant.Mediator) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Initialize handlers
	pageHandler := handler.NewPageHandler(cfg.Server.PagePath)
	listHandler := handler.NewListHandler(st)
	sessionHandler := handler.NewSessionHandler(st)
	chatHandler := handler.NewChatHandler(st, med)
	stateHandler := handler.NewStateHandler(st)

	// Page and client config
	r.Get("/", pageHandler.Serve)
	r.Get("/shopping-list", pageHandler.Serve)
	r.Get("/config", handler.ClientConfig(cfg.Azure))

	// REST surface the page binds to
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/state", stateHandler.Get)

		r.Route("/lists", func(r chi.Router) {
			r.Post("/", listHandler.Create)

			r.Route("/{listID}", func(r chi.Router) {
				r.Patch("/", listHandler.Rename)
				r.Delete("/", listHandler.Delete)
				r.Post("/activate", listHandler.Activate)

				r.Route("/items", func(r chi.Router) {
					r.Post("/", listHandler.AddItem)
					r.Post("/{itemID}/toggle", listHandler.ToggleItem)
					r.Delete("/{itemID}", listHandler.RemoveItem)
				})
			})
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Delete("/", sessionHandler.Delete)
				r.Post("/activate", sessionHandler.Activate)
			})
		})

		r.Post("/chat", chatHandler.Send)
	})

	// Any other path answers a bare 404, matching the page contract.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Not found"))
	})

	return r
}
