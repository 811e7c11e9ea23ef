// Package mcp exposes tree generation and rendering as Model Context
// Protocol tools.
package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/preset"
	"github.com/aretw0/ltree/pkg/render"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PresetsURI is the resource listing the available presets.
const PresetsURI = "ltree://presets"

// defaultMaxChars bounds the signature text returned by generate_signature.
const defaultMaxChars = 10000

// SignatureResult is the JSON body returned by generate_signature.
type SignatureResult struct {
	Preset    preset.Preset `json:"preset"`
	Length    int           `json:"length"`
	Stats     domain.Stats  `json:"stats"`
	Signature string        `json:"signature"`
	Truncated bool          `json:"truncated"`
}

// Server wraps a Renderer and exposes it as an MCP Server.
type Server struct {
	renderer  *render.Renderer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(r *render.Renderer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		renderer: r,
		logger:   logger,
		mcpServer: server.NewMCPServer("ltree-mcp", strings.TrimSpace(ltree.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on the given port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func requestOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("preset", mcp.Description("Base preset name (see "+PresetsURI+"); defaults apply when omitted")),
		mcp.WithString("rule", mcp.Description("Production rule over F X + - [ ], e.g. F[+X][-X]")),
		mcp.WithNumber("angle", mcp.Description("Turn angle in degrees")),
		mcp.WithBoolean("noise", mcp.Description("Jitter angles and leaf tints")),
		mcp.WithNumber("iterations", mcp.Min(0), mcp.Max(preset.MaxIterations), mcp.Description("Rewriting passes")),
		mcp.WithNumber("seed", mcp.Min(0), mcp.Description("Noise seed for reproducible output")),
	}
}

func canvasOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("length", mcp.Description("Trunk segment length in pixels")),
		mcp.WithNumber("width", mcp.Min(1), mcp.Max(preset.MaxCanvas), mcp.Description("Canvas width in pixels")),
		mcp.WithNumber("height", mcp.Min(1), mcp.Max(preset.MaxCanvas), mcp.Description("Canvas height in pixels")),
	}
}

func (s *Server) registerTools() {
	// TOOL: generate_signature
	sigOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Expand an L-system rule and return the signature with structural statistics."),
		mcp.WithNumber("max_chars", mcp.Min(0), mcp.Description("Truncate the returned signature (default 10000, 0 for stats only)")),
		mcp.WithReadOnlyHintAnnotation(true),
	}, requestOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("generate_signature", sigOpts...), s.handleGenerateSignature)

	// TOOL: render_svg
	svgOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Draw a tree and return it as an SVG document."),
		mcp.WithReadOnlyHintAnnotation(true),
	}, append(requestOptions(), canvasOptions()...)...)
	s.mcpServer.AddTool(mcp.NewTool("render_svg", svgOpts...), s.handleRenderSVG)

	// TOOL: render_png
	pngOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Draw a tree and return it as a PNG image."),
		mcp.WithReadOnlyHintAnnotation(true),
	}, append(requestOptions(), canvasOptions()...)...)
	s.mcpServer.AddTool(mcp.NewTool("render_png", pngOpts...), s.handleRenderPNG)
}

// resolve turns tool arguments into a preset. Keys in skip belong to the
// tool itself.
func (s *Server) resolve(request mcp.CallToolRequest, skip ...string) (preset.Preset, error) {
	values := make(map[string]any)
	for k, v := range request.GetArguments() {
		if v == nil || containsKey(skip, k) {
			continue
		}
		values[k] = v
	}
	req, err := preset.DecodeRequest(values)
	if err != nil {
		return preset.Preset{}, err
	}
	return s.renderer.Resolve(req)
}

func (s *Server) handleGenerateSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.resolve(request, "max_chars")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sig, stats, err := s.renderer.Signature(ctx, p)
	if err != nil {
		s.logger.Warn("MCP generate_signature failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}

	maxChars := request.GetInt("max_chars", defaultMaxChars)
	res := SignatureResult{Preset: p, Length: len(sig.Text), Stats: stats, Signature: sig.Text}
	if maxChars >= 0 && len(res.Signature) > maxChars {
		res.Signature = res.Signature[:maxChars]
		res.Truncated = true
	}

	b, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleRenderSVG(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.resolve(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.renderer.SVG(ctx, p)
	if err != nil {
		s.logger.Warn("MCP render_svg failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(doc.Bytes())), nil
}

func (s *Server) handleRenderPNG(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.resolve(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := s.renderer.PNG(ctx, p)
	if err != nil {
		s.logger.Warn("MCP render_png failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		return nil, err
	}
	caption := fmt.Sprintf("%s tree, %d iterations, %dx%d", p.Name, p.Iterations, p.Width, p.Height)
	return mcp.NewToolResultImage(caption, base64.StdEncoding.EncodeToString(buf.Bytes()), "image/png"), nil
}

func (s *Server) registerResources() {
	// EXPOSE: ltree://presets
	s.mcpServer.AddResource(mcp.NewResource(PresetsURI, "Tree presets",
		mcp.WithResourceDescription("Named rule, angle and canvas presets accepted by the tools"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(s.renderer.Presets().All())
		if err != nil {
			return nil, fmt.Errorf("failed to encode presets: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      PresetsURI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	})
}

func containsKey(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}
