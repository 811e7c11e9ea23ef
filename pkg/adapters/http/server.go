// Package http serves tree renders, signatures, presets, metrics and a
// canvas viewer over HTTP, with websocket and SSE streaming.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/pkg/adapters/ws"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/observability"
	"github.com/aretw0/ltree/pkg/preset"
	"github.com/aretw0/ltree/pkg/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
)

// Server serves tree renders over HTTP.
type Server struct {
	Renderer *render.Renderer
	Streams  *StreamManager
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// Option configures the handler built by NewHandler.
type Option func(*config)

type config struct {
	presets     *preset.Set
	treeOptions []ltree.Option
	metrics     *observability.Metrics
	logger      *slog.Logger
	wsBatch     int
}

// WithPresets sets the preset set requests resolve against.
func WithPresets(set *preset.Set) Option {
	return func(c *config) { c.presets = set }
}

// WithTreeOptions sets base options applied to every tree, such as the
// signature cache and iteration limits.
func WithTreeOptions(opts ...ltree.Option) Option {
	return func(c *config) { c.treeOptions = append(c.treeOptions, opts...) }
}

// WithMetrics records tree lifecycle metrics and exposes them on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithStreamBatch sets the websocket command batch size.
func WithStreamBatch(n int) Option {
	return func(c *config) { c.wsBatch = n }
}

// NewHandler creates the HTTP handler.
func NewHandler(opts ...Option) http.Handler {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	server := &Server{
		Streams: NewStreamManager(cfg.logger),
		Metrics: cfg.metrics,
		Logger:  cfg.logger,
	}

	hooks := []domain.LifecycleHooks{server.Streams.Hooks()}
	if cfg.metrics != nil {
		hooks = append(hooks, cfg.metrics.Hooks())
	}
	treeOpts := append([]ltree.Option{
		ltree.WithLogger(cfg.logger),
		ltree.WithLifecycleHooks(observability.Chain(hooks...)),
	}, cfg.treeOptions...)
	server.Renderer = render.New(cfg.presets, treeOpts...)

	stream := ws.NewServer(server.Renderer, ws.WithLogger(cfg.logger), ws.WithBatchSize(cfg.wsBatch))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	// Streaming endpoints bypass compression.
	r.Get("/events", server.SubscribeEvents)
	r.Get("/ws", stream.Handler())

	r.Group(func(r chi.Router) {
		r.Use(compress)
		r.Use(server.logRequests)

		r.Get("/", server.GetViewer)
		r.Get("/health", server.GetHealth)
		r.Get("/info", server.GetInfo)
		r.Get("/presets", server.GetPresets)
		r.Get("/signature", server.GetSignature)
		r.Get("/tree.svg", server.GetSVG)
		r.Get("/tree.png", server.GetPNG)
		if server.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", server.Metrics.Handler())
		}
	})
	return r
}

func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "ltree-http",
		"version": strings.TrimSpace(ltree.Version),
		"presets": s.Renderer.Presets().Len(),
		"metrics": s.Metrics != nil,
	})
}

// GetPresets handles the GET /presets request.
func (s *Server) GetPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Renderer.Presets().All())
}

// SignatureResponse is the body of GET /signature.
type SignatureResponse struct {
	Preset    preset.Preset `json:"preset"`
	Length    int           `json:"length"`
	Stats     domain.Stats  `json:"stats"`
	Signature string        `json:"signature,omitempty"`
}

// GetSignature handles the GET /signature request. The text is omitted when
// the query sets text=false.
func (s *Server) GetSignature(w http.ResponseWriter, r *http.Request) {
	withText := r.URL.Query().Get("text") != "false"
	p, ok := s.resolve(w, r, "text")
	if !ok {
		return
	}
	sig, stats, err := s.Renderer.Signature(r.Context(), p)
	if err != nil {
		s.fail(w, "GetSignature", err)
		return
	}
	resp := SignatureResponse{Preset: p, Length: len(sig.Text), Stats: stats}
	if withText {
		resp.Signature = sig.Text
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSVG handles the GET /tree.svg request.
func (s *Server) GetSVG(w http.ResponseWriter, r *http.Request) {
	p, ok := s.resolve(w, r)
	if !ok {
		return
	}
	doc, err := s.Renderer.SVG(r.Context(), p)
	if err != nil {
		s.fail(w, "GetSVG", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := doc.WriteTo(w); err != nil {
		s.Logger.Error("GetSVG response write failed", "err", err)
	}
}

// GetPNG handles the GET /tree.png request.
func (s *Server) GetPNG(w http.ResponseWriter, r *http.Request) {
	p, ok := s.resolve(w, r)
	if !ok {
		return
	}
	img, err := s.Renderer.PNG(r.Context(), p)
	if err != nil {
		s.fail(w, "GetPNG", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := img.EncodePNG(w); err != nil {
		s.Logger.Error("GetPNG response write failed", "err", err)
	}
}

// resolve decodes the query string into a preset. Keys listed in skip are
// handled by the caller.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request, skip ...string) (preset.Preset, bool) {
	values := make(map[string]any)
	for k, v := range r.URL.Query() {
		if len(v) == 0 || contains(skip, k) {
			continue
		}
		values[k] = v[0]
	}
	req, err := preset.DecodeRequest(values)
	if err == nil {
		var p preset.Preset
		if p, err = s.Renderer.Resolve(req); err == nil {
			return p, true
		}
	}
	s.fail(w, "resolve", err)
	return preset.Preset{}, false
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownPreset):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, domain.ErrInvalidIterations):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrIterationLimit):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err)
	} else {
		s.Logger.Warn(op+": request rejected", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SubscribeEvents handles the GET /events request (SSE). The optional
// "type" query parameter filters by comma separated event types.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	var filter []domain.EventType
	if raw := r.URL.Query().Get("type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			filter = append(filter, domain.EventType(strings.TrimSpace(t)))
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(filter...)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
			flusher.Flush()
		}
	}
}
