// Package api serves the study mentor over local HTTP and WebSocket.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/lessons"
	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/quizgen"
	"github.com/abhishaiv/AI-Study-Master/internal/review"
)

// DefaultAddr is where serve listens unless STUDYMENTOR_ADDR says otherwise.
const DefaultAddr = "127.0.0.1:8787"

// Deps are the services the API exposes.
type Deps struct {
	Catalog  *catalog.Catalog
	Progress *progress.Store
	Lessons  *lessons.Service
	Quizzes  quizgen.Generator
	Reviewer *review.Reviewer
	Provider llm.Provider
	Logger   *logging.Logger

	// AllowedOrigins lists browser origins allowed by CORS and the
	// WebSocket handshake. Empty means local dev servers only.
	AllowedOrigins []string

	// Now overrides the clock for quiz results.
	Now func() time.Time
}

// Server holds the API state. Quiz runs live in memory until deleted,
// idle for quizRunIdle, or evicted by the maxQuizRuns cap.
type Server struct {
	deps Deps

	mu   sync.Mutex
	runs map[string]*quizRun
}

// New creates a Server.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	return &Server{deps: deps, runs: make(map[string]*quizRun)}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/topics", func(r chi.Router) {
			r.Get("/", s.listTopics)
			r.Get("/{topicID}", s.getTopic)
			r.Post("/{topicID}/lesson", s.generateLesson)
			r.Post("/{topicID}/quizzes", s.startQuiz)
		})
		r.Route("/quizzes/{quizID}", func(r chi.Router) {
			r.Get("/", s.getQuiz)
			r.Post("/answer", s.answerQuiz)
			r.Post("/next", s.advanceQuiz)
			r.Delete("/", s.deleteQuiz)
		})
		r.Get("/progress", s.getProgress)
		r.Delete("/progress", s.resetProgress)
		r.Post("/review", s.reviewDraft)
		r.Get("/chat", s.chat)
	})
	return r
}

// requestLogger logs one line per request through the zap logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.deps.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) topic(w http.ResponseWriter, r *http.Request) (catalog.Topic, bool) {
	id := chi.URLParam(r, "topicID")
	t, ok := s.deps.Catalog.Lookup(id)
	if !ok {
		writeErr(w, http.StatusNotFound, "topic not found")
	}
	return t, ok
}
