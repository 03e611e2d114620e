package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rahatk-dev/pathagar/internal/api/handlers"
	appMiddleware "github.com/rahatk-dev/pathagar/internal/api/middlewares"
	"github.com/rahatk-dev/pathagar/internal/config"
	"github.com/rahatk-dev/pathagar/internal/core"
	"github.com/rahatk-dev/pathagar/internal/core/ingest"
	"github.com/rahatk-dev/pathagar/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, store core.VectorStore, obj core.ObjectClient, emb core.EmbeddingProvider, orch *ingest.Orchestrator, answers *services.AnswerService) *Server {
	chapterHandler := handlers.NewChapterHandler(orch, cfg)
	queryHandler := handlers.NewQueryHandler(answers)
	statusHandler := handlers.NewStatusHandler(store, emb, obj)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/search", queryHandler.Search)
		api.Post("/ask", queryHandler.Ask)
		api.Get("/status", statusHandler.Status)
		api.Get("/classes/{level}/chapters", chapterHandler.ListChapters)

		// admin endpoints
		api.Group(func(admin chi.Router) {
			admin.Use(appMiddleware.AdminOnly(cfg.JWTSecret))
			admin.Post("/chapters/upload", chapterHandler.UploadChapter)
			admin.Delete("/classes/{level}/chapters/{chapterID}", chapterHandler.DeleteChapter)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
