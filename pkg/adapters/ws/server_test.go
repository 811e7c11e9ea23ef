package ws_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/ltree/pkg/adapters/recording"
	"github.com/aretw0/ltree/pkg/adapters/ws"
	"github.com/aretw0/ltree/pkg/preset"
	"github.com/aretw0/ltree/pkg/render"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, opts ...ws.Option) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(ws.NewServer(render.New(nil), opts...).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readType(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var base struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(msg, &base))
	return base.Type, msg
}

func TestServer_StreamsCommandsInBatches(t *testing.T) {
	conn := dial(t)
	it := 3
	require.NoError(t, conn.WriteJSON(ws.RenderMsg{
		Type:    ws.TypeRender,
		Request: preset.Request{Preset: "sapling", Iterations: &it},
		Batch:   50,
	}))

	typ, msg := readType(t, conn)
	require.Equal(t, ws.TypeBegin, typ)
	var begin ws.BeginMsg
	require.NoError(t, json.Unmarshal(msg, &begin))
	assert.Equal(t, "sapling", begin.Preset.Name)
	assert.Equal(t, 3, begin.Preset.Iterations)
	assert.Positive(t, begin.Total)

	var received []recording.Command
	for {
		typ, msg = readType(t, conn)
		if typ == ws.TypeDone {
			break
		}
		require.Equal(t, ws.TypeCommands, typ)
		var batch ws.CommandsMsg
		require.NoError(t, json.Unmarshal(msg, &batch))
		assert.LessOrEqual(t, len(batch.Commands), 50)
		received = append(received, batch.Commands...)
	}

	var done ws.DoneMsg
	require.NoError(t, json.Unmarshal(msg, &done))
	assert.Equal(t, begin.Total, len(received))
	assert.Equal(t, (begin.Total+49)/50, done.Frames)

	// The stream replays onto another surface.
	replay := recording.NewRecorder(float64(begin.Preset.Width), float64(begin.Preset.Height))
	require.NoError(t, recording.Playback(received, replay))
	assert.Equal(t, received, replay.Commands())
	assert.Equal(t, recording.OpSetTransformIdentity, received[len(received)-1].Op)
}

func TestServer_ReportsErrorsAndKeepsConnection(t *testing.T) {
	conn := dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	typ, _ := readType(t, conn)
	assert.Equal(t, ws.TypeError, typ)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "dance"}))
	typ, _ = readType(t, conn)
	assert.Equal(t, ws.TypeError, typ)

	require.NoError(t, conn.WriteJSON(ws.RenderMsg{Type: ws.TypeRender, Request: preset.Request{Preset: "baobab"}}))
	typ, msg := readType(t, conn)
	require.Equal(t, ws.TypeError, typ)
	assert.Contains(t, string(msg), "unknown preset")

	it := 1
	require.NoError(t, conn.WriteJSON(ws.RenderMsg{Type: ws.TypeRender, Request: preset.Request{Iterations: &it}}))
	typ, _ = readType(t, conn)
	assert.Equal(t, ws.TypeBegin, typ)
}
