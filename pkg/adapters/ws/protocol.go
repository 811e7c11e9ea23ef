package ws

import (
	"github.com/aretw0/ltree/pkg/adapters/recording"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/preset"
)

// Message types exchanged on the socket.
const (
	TypeRender   = "render"
	TypeBegin    = "begin"
	TypeCommands = "commands"
	TypeDone     = "done"
	TypeError    = "error"
)

// RenderMsg asks the server to draw a tree. Batch bounds the number of
// commands per frame; zero selects the server default.
type RenderMsg struct {
	Type    string         `json:"type"`
	Request preset.Request `json:"request"`
	Batch   int            `json:"batch,omitempty"`
}

// BeginMsg opens a stream with everything a client needs to size its canvas.
type BeginMsg struct {
	Type   string        `json:"type"`
	Preset preset.Preset `json:"preset"`
	Stats  domain.Stats  `json:"stats"`
	Total  int           `json:"total"`
}

// CommandsMsg carries one batch of canvas calls to replay in order.
type CommandsMsg struct {
	Type     string              `json:"type"`
	Seq      int                 `json:"seq"`
	Commands []recording.Command `json:"commands"`
}

// DoneMsg closes a stream.
type DoneMsg struct {
	Type       string  `json:"type"`
	Frames     int     `json:"frames"`
	DurationMS float64 `json:"duration_ms"`
}

// ErrorMsg reports a rejected request. The connection stays open.
type ErrorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
