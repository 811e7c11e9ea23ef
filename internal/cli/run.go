package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/internal/presentation/graph"
	"github.com/aretw0/ltree/internal/presentation/tui"
	httpAdapter "github.com/aretw0/ltree/pkg/adapters/http"
	"github.com/aretw0/ltree/pkg/adapters/mcp"
	"github.com/aretw0/ltree/pkg/adapters/raster"
	"github.com/aretw0/ltree/pkg/adapters/svg"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/observability"
	"github.com/aretw0/ltree/pkg/preset"
)

// Options contains the configuration shared by every command.
type Options struct {
	Debug         bool
	MaxIterations int
	// MaxLength bounds the expanded signature; 0 means DefaultMaxLength.
	MaxLength     int
	PresetsPath   string
	Cache         string
	CacheTTL      time.Duration

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

// Render draws the requested tree to output. The format follows the file
// extension; an empty output or "-" writes SVG to stdout.
func Render(ctx context.Context, opts Options, req preset.Request, output string) error {
	logger := NewLogger(opts.Debug, false)
	r, cache, err := createRenderer(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	p, err := r.Resolve(req)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(output))
	if output == "" || output == "-" {
		ext = ".svg"
	}

	var (
		stats domain.Stats
		write func(io.Writer) error
	)
	switch ext {
	case ".svg":
		s := svg.New(float64(p.Width), float64(p.Height))
		stats, err = r.Draw(ctx, p, s)
		write = func(w io.Writer) error {
			_, err := s.WriteTo(w)
			return err
		}
	case ".png":
		s := raster.New(p.Width, p.Height)
		stats, err = r.Draw(ctx, p, s)
		write = s.EncodePNG
	default:
		return fmt.Errorf("unsupported output format %q (want .svg or .png)", ext)
	}
	if err != nil {
		return err
	}

	if output == "" || output == "-" {
		return write(opts.stdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("error creating output: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("error writing %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	printSystemMessage(opts.stderr(), "Rendered '%s' to %s (%d segments, %d leaves).", p.Name, output, stats.Segments, stats.Leaves)
	return nil
}

// SignatureOutput is the JSON document printed by `ltree signature --stats`.
type SignatureOutput struct {
	Preset     string       `json:"preset"`
	Rule       string       `json:"rule"`
	Iterations int          `json:"iterations"`
	Signature  string       `json:"signature"`
	Stats      domain.Stats `json:"stats"`
}

// Signature prints the expanded signature of the request.
func Signature(ctx context.Context, opts Options, req preset.Request, withStats bool) error {
	logger := NewLogger(opts.Debug, false)
	r, cache, err := createRenderer(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	p, err := r.Resolve(req)
	if err != nil {
		return err
	}
	sig, stats, err := r.Signature(ctx, p)
	if err != nil {
		return err
	}

	if !withStats {
		_, err = fmt.Fprintln(opts.stdout(), sig.Text)
		return err
	}
	enc := json.NewEncoder(opts.stdout())
	enc.SetIndent("", "  ")
	return enc.Encode(SignatureOutput{
		Preset:     p.Name,
		Rule:       sig.Rule,
		Iterations: sig.Iterations,
		Signature:  sig.Text,
		Stats:      stats,
	})
}

// InspectOptions controls the inspection report.
type InspectOptions struct {
	Mermaid bool
	Depth   int  // branch depth shown in the chart
	Raw     bool // skip terminal rendering
}

// Inspect prints a markdown report of the request. On a terminal the report
// is rendered with glamour.
func Inspect(ctx context.Context, opts Options, req preset.Request, inspect InspectOptions) error {
	logger := NewLogger(opts.Debug, false)
	r, cache, err := createRenderer(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	p, err := r.Resolve(req)
	if err != nil {
		return err
	}
	sig, stats, err := r.Signature(ctx, p)
	if err != nil {
		return err
	}

	chart := ""
	if inspect.Mermaid {
		depth := inspect.Depth
		if depth <= 0 {
			depth = 3
		}
		chart = graph.GenerateMermaid(graph.ParseBranches(sig.Text, depth), &graph.Overlay{LeafThreshold: 2})
	}
	report := tui.Report(p, sig, stats, chart)

	if f, ok := opts.stdout().(*os.File); ok && !inspect.Raw && tui.IsTerminal(f) {
		out, err := tui.NewRenderer(tui.TerminalWidth(f))(report)
		if err == nil {
			report = out
		}
	}
	_, err = fmt.Fprint(opts.stdout(), report)
	return err
}

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr    string
	Metrics bool
	Banner  bool
	JSONLog bool
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func Serve(ctx context.Context, opts Options, so ServeOptions) error {
	logger := NewLogger(opts.Debug, true)
	if so.JSONLog {
		logger = NewJSONLogger(opts.Debug)
	}
	if so.Banner {
		tui.PrintBanner(opts.stderr(), strings.TrimSpace(ltree.Version))
	}

	handler, cache, err := NewServeHandler(ctx, opts, so, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	srv := &http.Server{
		Addr:              so.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting ltree server", "address", srv.Addr, "metrics", so.Metrics)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "err", err)
			return errors.Join(err, srv.Close())
		}
		logger.Info("ltree server stopped gracefully")
		return nil
	}
}

// NewServeHandler builds the HTTP handler served by Serve.
func NewServeHandler(ctx context.Context, opts Options, so ServeOptions, logger *slog.Logger) (http.Handler, *Cache, error) {
	set, err := loadPresets(opts.PresetsPath)
	if err != nil {
		return nil, nil, err
	}
	cache, err := OpenCache(ctx, opts.Cache, opts.CacheTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening cache: %w", err)
	}

	httpOpts := []httpAdapter.Option{
		httpAdapter.WithPresets(set),
		httpAdapter.WithLogger(logger),
		httpAdapter.WithTreeOptions(limitOptions(opts, cache)...),
	}
	if so.Metrics {
		httpOpts = append(httpOpts, httpAdapter.WithMetrics(observability.NewMetrics()))
	}
	return httpAdapter.NewHandler(httpOpts...), cache, nil
}

// ServeMCP runs the MCP server on stdio, or over SSE when ssePort is set.
func ServeMCP(ctx context.Context, opts Options, ssePort int) error {
	// Stdout carries JSON-RPC; logs always go to stderr.
	logger := NewLogger(opts.Debug, true)
	r, cache, err := createRenderer(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	srv := mcp.NewServer(r, logger)
	if ssePort > 0 {
		logger.Info("Starting ltree MCP server (SSE)", "port", ssePort)
		if err := srv.ServeSSE(ctx, ssePort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
	logger.Info("Starting ltree MCP server (stdio)")
	return srv.ServeStdio()
}
