package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the mock API, the NLQ reverse proxy and the static
// front-end bundle onto one chi router.
func NewRouter(storeHandler *StoreHandler, nlqProxy http.Handler, staticDir string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Health check for container orchestration probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The mock document store API. Whole-document semantics throughout.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/status", storeHandler.GetStatus)
		r.Get("/models", storeHandler.GetModels)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", storeHandler.GetUsers)
			r.Post("/", storeHandler.CreateUser)
			r.Put("/{userID}", storeHandler.ReplaceUser)
		})

		r.Route("/chats", func(r chi.Router) {
			r.Get("/", storeHandler.GetChats)
			r.Put("/", storeHandler.ReplaceChats)
			r.Patch("/", storeHandler.PatchChats)
		})
	})

	// NLQ queries pass straight through to the external backend. No timeout:
	// query answering can legitimately take a while.
	if nlqProxy != nil {
		r.Handle("/watsonx/*", nlqProxy)
	}

	// The compiled front-end bundle. In a production deployment this would
	// sit behind Nginx; serving it here keeps local development to a single
	// process.
	if staticDir != "" {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Handle("/*", http.StripPrefix("/", fileServer))
	}

	return r
}
