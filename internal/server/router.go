package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	calmiddleware "github.com/saleshq/calapi/internal/middleware"
	"github.com/saleshq/calapi/internal/policy"
	"github.com/saleshq/calapi/internal/services/event"
)

// RouterOptions controls the construction of the calapi HTTP router.
type RouterOptions struct {
	Pipeline  *calmiddleware.Pipeline
	Events    *event.Service
	Policies  policy.Table
	Validator *BodyValidator
	Logger    *zap.Logger

	CORSOptions   *cors.Options
	HealthHandler http.HandlerFunc
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles the chi router: shared middleware, the public health
// endpoint, and every policy-table route mounted behind its gate chain. The
// chains are composed here, once, at registration time; requests only
// traverse them.
func NewRouter(opts RouterOptions) (chi.Router, error) {
	if opts.Pipeline == nil {
		return nil, fmt.Errorf("router requires a pipeline")
	}
	if opts.Events == nil {
		return nil, fmt.Errorf("router requires the event service")
	}
	if opts.Validator == nil {
		return nil, fmt.Errorf("router requires a body validator")
	}
	if err := opts.Policies.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	handlers := NewEventHandlers(opts.Events, opts.Validator, logger)
	handlerByRoute := map[string]http.HandlerFunc{
		"events.list":   handlers.HandleList,
		"events.create": handlers.HandleCreate,
		"events.get":    handlers.HandleGet,
		"events.update": handlers.HandleUpdate,
		"events.delete": handlers.HandleDelete,
		"events.report": handlers.HandleReport,
	}

	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(calmiddleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	health := opts.HealthHandler
	if health == nil {
		health = defaultHealthHandler
	}
	r.Get("/health", health)

	for _, route := range opts.Policies {
		handler, ok := handlerByRoute[route.Name]
		if !ok {
			return nil, fmt.Errorf("no handler registered for route %q", route.Name)
		}
		r.With(opts.Pipeline.Chain(route)...).Method(route.Method, route.Pattern, handler)
	}

	return r, nil
}
