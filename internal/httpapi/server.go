package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"sitegen/internal/llm"
	"sitegen/internal/site"
	"sitegen/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Generate(ctx context.Context, form json.RawMessage, opts site.Options) (string, error)
	Edit(ctx context.Context, req types.EditRequest, opts site.Options) (string, error)
	ListModels(ctx context.Context) ([]types.Model, error)
	Ready(ctx context.Context) error
	DefaultModel() string
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Post("/generate", handleGenerate(svc))
	r.Post("/edit", handleEdit(svc))
	r.Get("/models", handleModels(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ready(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("not ready")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("backend unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// handleGenerate godoc
//
//	@Summary		Generate a site
//	@Description	Builds a single-file HTML page from arbitrary form data.
//	@Tags			sites
//	@Accept			json
//	@Produce		plain
//	@Param			model	query		string					false	"Model override"
//	@Param			form	body		object					true	"Form data"
//	@Success		200		{string}	string					"Sanitized HTML document"
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		415		{object}	types.ErrorResponse
//	@Failure		500		{object}	types.ErrorResponse
//	@Router			/generate [post]
func handleGenerate(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !jsonContentType(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var form json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if t := bytes.TrimSpace(form); len(t) == 0 || t[0] != '{' {
			writeJSONError(w, http.StatusBadRequest, "request body must be a JSON object")
			return
		}
		opts := site.Options{Model: r.URL.Query().Get("model")}
		runPipeline(w, r, "generate", func(ctx context.Context) (string, error) {
			return svc.Generate(ctx, form, opts)
		})
	}
}

// handleEdit godoc
//
//	@Summary		Edit a site
//	@Description	Applies natural-language instructions to an existing HTML document.
//	@Tags			sites
//	@Accept			json
//	@Produce		plain
//	@Param			model	query		string					false	"Model override"
//	@Param			request	body		types.EditRequest		true	"Existing code and instructions"
//	@Success		200		{string}	string					"Sanitized HTML document"
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		415		{object}	types.ErrorResponse
//	@Failure		422		{object}	types.ErrorResponse
//	@Failure		500		{object}	types.ErrorResponse
//	@Router			/edit [post]
func handleEdit(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !jsonContentType(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.EditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		opts := site.Options{Model: r.URL.Query().Get("model")}
		runPipeline(w, r, "edit", func(ctx context.Context) (string, error) {
			return svc.Edit(ctx, req, opts)
		})
	}
}

// handleModels godoc
//
//	@Summary	List models
//	@Tags		models
//	@Produce	json
//	@Success	200	{object}	types.ModelsResponse
//	@Failure	503	{object}	types.ErrorResponse
//	@Failure	500	{object}	types.ErrorResponse
//	@Router		/models [get]
func handleModels(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		models, err := svc.ListModels(r.Context())
		if err != nil {
			status := http.StatusInternalServerError
			if llm.IsUnavailable(err) {
				status = http.StatusServiceUnavailable
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("list models failed")
			writeJSONError(w, status, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: models, DefaultModel: svc.DefaultModel()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	}
}

// jsonContentType rejects bodies explicitly declared as something other than
// JSON. A missing header is accepted.
func jsonContentType(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	return true
}

// runPipeline executes fn under the joined server/request context and writes
// either the full document or a JSON error. Nothing is written before fn
// returns, so responses are never partial.
func runPipeline(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context) (string, error)) {
	log := zerolog.Ctx(r.Context())
	start := time.Now()
	log.Info().Str("op", op).Msg("request start")

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if d := requestTimeoutDuration(); d > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, d)
		defer tcancel()
	}

	doc, err := fn(ctx)
	if err != nil {
		// If context was canceled (client disconnect or shutdown), just return.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			log.Info().Str("op", op).Dur("dur", time.Since(start)).Msg("request canceled")
			return
		}
		status := statusFor(err)
		ev := log.Error()
		if status < http.StatusInternalServerError {
			ev = log.Info()
		}
		if llm.IsUnavailable(err) {
			ev = ev.Bool("backend_unavailable", true)
		} else if errors.Is(err, context.DeadlineExceeded) {
			ev = ev.Bool("timeout", true)
		}
		ev.Err(err).Str("op", op).Int("status", status).Dur("dur", time.Since(start)).Msg("request end")
		writeJSONError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
	log.Info().Str("op", op).Int("status", http.StatusOK).Int("bytes", len(doc)).Dur("dur", time.Since(start)).Msg("request end")
}
