// Package ws streams tree drawings over websockets as batches of canvas
// commands, for clients that replay them on an HTML canvas.
package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/ltree/pkg/render"
	"github.com/gorilla/websocket"
)

const (
	defaultBatch = 512
	maxBatch     = 8192
	readTimeout  = 60 * time.Second
	writeTimeout = 5 * time.Second
	maxMessage   = 64 * 1024
)

// Server upgrades HTTP requests and serves render requests on each socket.
type Server struct {
	renderer *render.Renderer
	logger   *slog.Logger
	batch    int
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithBatchSize sets the default number of commands per frame.
func WithBatchSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.batch = min(n, maxBatch)
		}
	}
}

// WithCheckOrigin overrides the origin policy. The default accepts any origin.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// NewServer creates a websocket server drawing with r.
func NewServer(r *render.Renderer, opts ...Option) *Server {
	s := &Server{
		renderer: r,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		batch:    defaultBatch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the upgrade handler.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.logger.Warn("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxMessage)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("websocket read ended", "err", err)
				}
				return
			}
			if err := s.handle(ctx, conn, msg); err != nil {
				s.logger.Debug("websocket write failed", "err", err)
				return
			}
		}
	}
}

// handle serves one client message. Only write failures are returned;
// request errors are reported to the client.
func (s *Server) handle(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	var req RenderMsg
	if err := json.Unmarshal(msg, &req); err != nil {
		return writeJSON(conn, ErrorMsg{Type: TypeError, Error: "invalid message: " + err.Error()})
	}
	if req.Type != TypeRender {
		return writeJSON(conn, ErrorMsg{Type: TypeError, Error: "unsupported message type " + req.Type})
	}

	start := time.Now()
	p, err := s.renderer.Resolve(req.Request)
	if err != nil {
		return writeJSON(conn, ErrorMsg{Type: TypeError, Error: err.Error()})
	}
	rec, stats, err := s.renderer.Record(ctx, p)
	if err != nil {
		s.logger.Error("websocket render failed", "err", err)
		return writeJSON(conn, ErrorMsg{Type: TypeError, Error: err.Error()})
	}

	cmds := rec.Commands()
	if err := writeJSON(conn, BeginMsg{Type: TypeBegin, Preset: p, Stats: stats, Total: len(cmds)}); err != nil {
		return err
	}

	batch := s.batch
	if req.Batch > 0 {
		batch = min(req.Batch, maxBatch)
	}
	frames := 0
	for i := 0; i < len(cmds); i += batch {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(i+batch, len(cmds))
		if err := writeJSON(conn, CommandsMsg{Type: TypeCommands, Seq: frames, Commands: cmds[i:end]}); err != nil {
			return err
		}
		frames++
	}

	s.logger.Debug("websocket render streamed", "commands", len(cmds), "frames", frames)
	return writeJSON(conn, DoneMsg{
		Type:       TypeDone,
		Frames:     frames,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	})
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
