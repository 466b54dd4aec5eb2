package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tender-analysis-service/internal/config"
	"tender-analysis-service/internal/infra/notify"
	"tender-analysis-service/internal/usecase"
)

// Server is the HTTP surface of the service: REST API plus the
// websocket endpoint for live analysis updates.
type Server struct {
	userUC      usecase.UserUseCase
	documentUC  usecase.DocumentUseCase
	checklistUC usecase.ChecklistUseCase
	analysisUC  usecase.AnalysisUseCase

	hub    *notify.Hub
	tokens *TokenIssuer

	allowedOrigins []string
	maxUploadBytes int64
	port           int

	httpServer *http.Server
	log        *zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	userUC usecase.UserUseCase,
	documentUC usecase.DocumentUseCase,
	checklistUC usecase.ChecklistUseCase,
	analysisUC usecase.AnalysisUseCase,
	hub *notify.Hub,
	tokens *TokenIssuer,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "APIServer").Logger()
	return &Server{
		userUC:         userUC,
		documentUC:     documentUC,
		checklistUC:    checklistUC,
		analysisUC:     analysisUC,
		hub:            hub,
		tokens:         tokens,
		allowedOrigins: cfg.Server.AllowedOrigins,
		maxUploadBytes: cfg.Upload.MaxFileSize,
		port:           cfg.Server.Port,
		log:            &compLog,
	}
}

// Routes assembles the router. Exposed separately so tests can mount
// the handler tree without binding a socket.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/ws/{user_id}", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", s.handleDocumentUpload)
				r.Get("/", s.handleDocumentList)
				r.Get("/{id}", s.handleDocumentGet)
				r.Patch("/{id}", s.handleDocumentRename)
				r.Delete("/{id}", s.handleDocumentDelete)
			})

			r.Route("/checklists", func(r chi.Router) {
				r.Post("/", s.handleChecklistCreate)
				r.Get("/", s.handleChecklistList)
				r.Get("/templates", s.handleChecklistTemplates)
				r.Get("/{id}", s.handleChecklistGet)
				r.Put("/{id}", s.handleChecklistUpdate)
				r.Delete("/{id}", s.handleChecklistDelete)
				r.Post("/{id}/items", s.handleChecklistAddItem)
			})

			r.Route("/analysis", func(r chi.Router) {
				r.Post("/", s.handleAnalysisCreate)
				r.Get("/", s.handleAnalysisList)
				r.Get("/queue", s.handleQueueStatus)
				r.Get("/{id}", s.handleAnalysisGet)
				r.Delete("/{id}", s.handleAnalysisDelete)
			})
		})
	})

	return r
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Int("port", s.port).Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	pending, processing := s.analysisUC.QueueDepth()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"queue_pending":    pending,
		"queue_processing": processing,
		"ws_connections":   s.hub.Connections(),
	})
}
