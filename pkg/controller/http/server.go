package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/domain/types"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
)

// CharacterUseCase is the configurator behaviour served over HTTP
type CharacterUseCase interface {
	AddField(ctx context.Context, key types.FieldKey, name string) (*model.FieldDefinition, error)
	DeleteField(ctx context.Context, key types.FieldKey) error
	AddValue(ctx context.Context, key types.FieldKey, value string) error
	DeleteValue(ctx context.Context, key types.FieldKey, value string) error
	Select(ctx context.Context, key types.FieldKey, value string) error
	Field(key types.FieldKey) (*model.FieldDefinition, error)
	Fields() []*model.FieldDefinition
	CustomValues(key types.FieldKey) ([]string, error)
	Prompt() string
	SelectionPrompt() (*model.Selection, string)
	Generate(ctx context.Context, speak bool) (*model.Generation, error)
}

type Server struct {
	router    *chi.Mux
	uc        CharacterUseCase
	accessLog bool
}

type Options func(*Server)

// WithAccessLog toggles per request access logging (enabled by default)
func WithAccessLog(enabled bool) Options {
	return func(s *Server) {
		s.accessLog = enabled
	}
}

func New(uc CharacterUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:    r,
		uc:        uc,
		accessLog: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	if s.accessLog {
		r.Use(accessLogger)
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/fields", func(r chi.Router) {
			r.Get("/", listFieldsHandler(uc))
			r.Post("/", addFieldHandler(uc))
			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", getFieldHandler(uc))
				r.Delete("/", deleteFieldHandler(uc))
				r.Post("/values", addValueHandler(uc))
				r.Delete("/values/{value}", deleteValueHandler(uc))
			})
		})

		r.Get("/selection", getSelectionHandler(uc))
		r.Put("/selection/{key}", selectHandler(uc))
		r.Delete("/selection/{key}", clearSelectionHandler(uc))

		r.Get("/prompt", promptHandler(uc))
		r.Post("/generate", generateHandler(uc))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger embeds a logger carrying the request ID into the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.From(r.Context()).With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logging.With(r.Context(), logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
