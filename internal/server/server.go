// Package server exposes the classifiers over HTTP for the guide editor
// userscript.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lukas-hzb/geometa/internal/country"
	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/scope"
	"github.com/lukas-hzb/geometa/internal/tags"
	"github.com/lukas-hzb/geometa/internal/title"
)

const maxBodyBytes = 1 << 20

// Options configures the HTTP handler.
type Options struct {
	// RateLimit is the sustained request rate in requests per second.
	// Zero disables limiting.
	RateLimit      float64
	Burst          int
	AllowedOrigins []string
}

// ClassifyRequest is one ad-hoc meta to classify.
type ClassifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Note        string `json:"note"`
	Section     string `json:"section"`
	Country     string `json:"country"`
}

// ClassifyResponse carries the classifier outputs and the rules that fired.
type ClassifyResponse struct {
	Scope       model.Scope `json:"scope"`
	ScopeTier   string      `json:"scope_tier"`
	Tags        []model.Tag `json:"tags"`
	Title       string      `json:"title"`
	TitleRule   string      `json:"title_rule,omitempty"`
	CountryCode string      `json:"country_code,omitempty"`
}

// Vocabulary lists every value the classifiers can emit.
type Vocabulary struct {
	Scopes []model.Scope `json:"scopes"`
	Tags   []model.Tag   `json:"tags"`
}

// Classify runs all three classifiers on req. The title is synthesized only
// when req.Title is empty; otherwise it is echoed.
func Classify(req ClassifyRequest) ClassifyResponse {
	s, tier := scope.Explain(req.Title, req.Description, req.Note, req.Section)
	resp := ClassifyResponse{
		Scope:     s,
		ScopeTier: tier,
		Tags:      tags.Classify(req.Title, req.Description, req.Note),
		Title:     req.Title,
	}
	if resp.Title == "" {
		resp.Title, resp.TitleRule = title.Explain(req.Description, req.Country)
	}
	if req.Country != "" {
		resp.CountryCode = country.Code(req.Country)
	}
	return resp
}

// New builds the router.
func New(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		r.Use(limit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
	}

	r.Get("/health", handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/classify", handleClassify)
		r.Get("/vocabulary", handleVocabulary)
	})
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, Classify(req))
}

func handleVocabulary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Vocabulary{
		Scopes: model.Scopes(),
		Tags:   tags.Vocabulary(),
	})
}

func limit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
