package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/pkg/adapters/memory"
	"github.com/aretw0/ltree/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_HealthAndInfo(t *testing.T) {
	h := NewHandler()

	w := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(t, h, "/info")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "ltree-http", info["app"])
	assert.Equal(t, strings.TrimSpace(ltree.Version), info["version"])
	assert.Equal(t, false, info["metrics"])
}

func TestHandler_SVG(t *testing.T) {
	h := NewHandler()

	w := get(t, h, "/tree.svg?preset=sapling&iterations=2&width=300&height=200")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `width="300" height="200"`)
	assert.Contains(t, body, "<path")
}

func TestHandler_PNG(t *testing.T) {
	h := NewHandler()

	w := get(t, h, "/tree.png?iterations=2&width=64&height=48")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestHandler_Signature(t *testing.T) {
	h := NewHandler()

	w := get(t, h, "/signature?rule=F[-X]&iterations=1")
	require.Equal(t, http.StatusOK, w.Code)
	var resp SignatureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "F[-F[-X]]", resp.Signature)
	assert.Equal(t, 9, resp.Length)
	assert.Equal(t, 2, resp.Stats.Segments)
	assert.Equal(t, 1, resp.Stats.Leaves)

	w = get(t, h, "/signature?rule=F[-X]&iterations=1&text=false")
	require.Equal(t, http.StatusOK, w.Code)
	resp = SignatureResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Signature)
	assert.Equal(t, 9, resp.Length)
}

func TestHandler_Errors(t *testing.T) {
	h := NewHandler(WithTreeOptions(ltree.WithMaxLength(1000)))

	cases := map[string]int{
		"/tree.svg?preset=baobab":          http.StatusNotFound,
		"/tree.svg?rule=F[+Y]":             http.StatusBadRequest,
		"/tree.svg?iterations=many":        http.StatusBadRequest,
		"/tree.svg?width=99999":            http.StatusBadRequest,
		"/tree.svg?colour=red":             http.StatusBadRequest,
		"/signature?iterations=10":         http.StatusUnprocessableEntity,
		"/tree.png?iterations=11&width=10": http.StatusUnprocessableEntity,
	}
	for target, status := range cases {
		w := get(t, h, target)
		assert.Equal(t, status, w.Code, target)
		assert.Contains(t, w.Body.String(), `"error"`, target)
	}
}

func TestHandler_Presets(t *testing.T) {
	w := get(t, NewHandler(), "/presets")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.NotEmpty(t, list)
	assert.Equal(t, "classic", list[0]["name"])
}

func TestHandler_Metrics(t *testing.T) {
	h := NewHandler(
		WithMetrics(observability.NewMetrics()),
		WithTreeOptions(ltree.WithSignatureCache(memory.NewStore())),
	)
	require.Equal(t, http.StatusOK, get(t, h, "/tree.svg?iterations=2").Code)
	require.Equal(t, http.StatusOK, get(t, h, "/tree.svg?iterations=2").Code)

	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `ltree_generations_total{cache="miss"} 1`)
	assert.Contains(t, body, `ltree_generations_total{cache="hit"} 1`)

	assert.Equal(t, http.StatusNotFound, get(t, NewHandler(), "/metrics").Code)
}

func TestHandler_Gzip(t *testing.T) {
	h := NewHandler()
	req := httptest.NewRequest(http.MethodGet, "/tree.svg?iterations=4", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(body, []byte("<svg")))
}

func TestHandler_Viewer(t *testing.T) {
	w := get(t, NewHandler(), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<canvas")
}

func TestSubscribeEvents(t *testing.T) {
	h := NewHandler()
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?type=draw", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "event: ping")

	draw, err := http.Get(srv.URL + "/tree.svg?iterations=1")
	require.NoError(t, err)
	draw.Body.Close()

	var got strings.Builder
	for !strings.Contains(got.String(), "\n\n") {
		n, err = resp.Body.Read(buf)
		require.NoError(t, err)
		got.Write(buf[:n])
	}
	assert.Contains(t, got.String(), "event: draw")
	assert.Contains(t, got.String(), `"iterations":1`)
	assert.NotContains(t, got.String(), "event: generate")
}

func TestStreamManager_FilterAndUnsubscribe(t *testing.T) {
	sm := NewStreamManager(slogDiscard())
	all, cancelAll := sm.Subscribe()
	gens, cancelGens := sm.Subscribe("generate")
	assert.Equal(t, 2, sm.Len())

	sm.Broadcast("draw", map[string]int{"n": 1})
	ev := <-all
	assert.Equal(t, `{"n":1}`, ev.Data)
	select {
	case <-gens:
		t.Fatal("filtered subscriber received draw event")
	default:
	}

	cancelAll()
	cancelAll()
	cancelGens()
	assert.Zero(t, sm.Len())
	_, open := <-all
	assert.False(t, open)
}
